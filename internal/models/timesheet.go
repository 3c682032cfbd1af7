package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Timesheet is one worker's hours for one period. Approval and audit
// mechanics live in the embedded ApprovalFields; billing math is owned by
// other services.
type Timesheet struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID    string         `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	EmployeeID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"employeeId"`
	ClientID    *uuid.UUID     `gorm:"type:uuid;index" json:"clientId,omitempty"`
	SettingID   *uuid.UUID     `gorm:"type:uuid" json:"approvalSettingId,omitempty"` // Record-custom chain override
	PeriodStart time.Time      `gorm:"not null" json:"periodStart"`
	PeriodEnd   time.Time      `gorm:"not null" json:"periodEnd"`
	TotalHours  float64        `gorm:"not null;default:0" json:"totalHours"`
	Notes       string         `gorm:"type:text" json:"notes,omitempty"`
	DocumentID  *uuid.UUID     `gorm:"type:uuid" json:"documentId,omitempty"` // Uploaded timesheet attachment slot

	ApprovalFields `gorm:"embedded" json:"approval"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for Timesheet
func (Timesheet) TableName() string {
	return "timesheets"
}

func (t *Timesheet) EntityKind() EntityKind      { return KindTimesheet }
func (t *Timesheet) EntityID() uuid.UUID         { return t.ID }
func (t *Timesheet) EntityTenant() string        { return t.TenantID }
func (t *Timesheet) EntityOwner() uuid.UUID      { return t.EmployeeID }
func (t *Timesheet) EntityClient() *uuid.UUID    { return t.ClientID }
func (t *Timesheet) CustomSettingID() *uuid.UUID { return t.SettingID }
func (t *Timesheet) Approval() *ApprovalFields   { return &t.ApprovalFields }
