package models

import (
	"time"

	"github.com/google/uuid"
)

// Action constants for ApprovalAction
const (
	ActionApproved = "approved"
	ActionRejected = "rejected"
)

// ApprovalAction records one approver's decision at one level of one
// submission cycle. Rows are append-only; the repeat-approval check reads
// them back by entity and cycle.
type ApprovalAction struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID   string     `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	EntityKind EntityKind `gorm:"type:varchar(30);not null;index:idx_approval_actions_entity" json:"entityKind"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_approval_actions_entity" json:"entityId"`
	Cycle      int        `gorm:"not null" json:"cycle"`
	Level      int        `gorm:"not null" json:"level"`
	ApproverID uuid.UUID  `gorm:"type:uuid;not null;index" json:"approverId"`
	Action     string     `gorm:"type:varchar(20);not null" json:"action"`
	Comment    string     `gorm:"type:text" json:"comment,omitempty"`
	DecidedAt  time.Time  `gorm:"autoCreateTime" json:"decidedAt"`
}

// TableName returns the table name for ApprovalAction
func (ApprovalAction) TableName() string {
	return "approval_actions"
}
