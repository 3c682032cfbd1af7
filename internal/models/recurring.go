package models

import (
	"time"

	"github.com/google/uuid"
)

// CycleType is the unit a recurrence interval is counted in.
type CycleType string

const (
	CycleDay   CycleType = "day"
	CycleWeek  CycleType = "week"
	CycleMonth CycleType = "month"
	CycleYear  CycleType = "year"
)

// RecurringConfiguration drives materialization of successive instances of
// a template entity on a fixed cycle. When NeverExpires is false, EndDate
// must be set and generation stops once it is passed.
type RecurringConfiguration struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID        string     `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	EntityKind      EntityKind `gorm:"type:varchar(30);not null" json:"entityKind"`
	EntityID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"entityId"` // template entity
	CycleType       CycleType  `gorm:"type:varchar(10);not null" json:"cycleType"`
	IntervalCount   int        `gorm:"not null;default:1" json:"intervalCount"`
	StartDate       time.Time  `gorm:"not null" json:"startDate"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	NeverExpires    bool       `gorm:"not null;default:false" json:"neverExpires"`
	OccurrenceCount int        `gorm:"not null;default:0" json:"occurrenceCount"`
	LastOccurrence  *time.Time `json:"lastOccurrence,omitempty"`
	IsActive        bool       `gorm:"not null;default:true" json:"isActive"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for RecurringConfiguration
func (RecurringConfiguration) TableName() string {
	return "recurring_configurations"
}
