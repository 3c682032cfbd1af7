package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SelfServiceRequest is an employee-initiated request (profile change,
// document request, leave adjustment). After approval it is worked and
// Closed; from Closed it may be Reopened by the employee or Cancelled.
type SelfServiceRequest struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID    string         `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	EmployeeID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"employeeId"`
	SettingID   *uuid.UUID     `gorm:"type:uuid" json:"approvalSettingId,omitempty"`
	RequestType string         `gorm:"type:varchar(50);not null" json:"requestType"`
	Subject     string         `gorm:"type:varchar(255);not null" json:"subject"`
	Detail      datatypes.JSON `gorm:"type:jsonb" json:"detail,omitempty"`
	ClosedOn    *time.Time     `json:"closedOn,omitempty"`
	ReopenedOn  *time.Time     `json:"reopenedOn,omitempty"`

	ApprovalFields `gorm:"embedded" json:"approval"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for SelfServiceRequest
func (SelfServiceRequest) TableName() string {
	return "self_service_requests"
}

func (r *SelfServiceRequest) EntityKind() EntityKind   { return KindSelfService }
func (r *SelfServiceRequest) EntityID() uuid.UUID      { return r.ID }
func (r *SelfServiceRequest) EntityTenant() string     { return r.TenantID }
func (r *SelfServiceRequest) EntityOwner() uuid.UUID   { return r.EmployeeID }
func (r *SelfServiceRequest) EntityClient() *uuid.UUID { return nil }
func (r *SelfServiceRequest) CustomSettingID() *uuid.UUID {
	return r.SettingID
}
func (r *SelfServiceRequest) Approval() *ApprovalFields { return &r.ApprovalFields }
