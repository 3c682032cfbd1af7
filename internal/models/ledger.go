package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger is an invoice-side record (client invoice or vendor bill). The
// Void branch of the lifecycle is reachable only from Approved and only
// for ledgers; a voided ledger is terminal and excluded from balances.
type Ledger struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID    string         `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	Reference   string         `gorm:"type:varchar(100);not null" json:"reference"`
	CreatedByID uuid.UUID      `gorm:"type:uuid;not null;index" json:"createdById"`
	ClientID    *uuid.UUID     `gorm:"type:uuid;index" json:"clientId,omitempty"`
	SettingID   *uuid.UUID     `gorm:"type:uuid" json:"approvalSettingId,omitempty"`
	IssueDate   time.Time      `gorm:"not null" json:"issueDate"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	Amount      float64        `gorm:"not null;default:0" json:"amount"`
	Currency    string         `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	VoidReason  string         `gorm:"type:text" json:"voidReason,omitempty"`
	VoidedOn    *time.Time     `json:"voidedOn,omitempty"`
	DocumentID  *uuid.UUID     `gorm:"type:uuid" json:"documentId,omitempty"`

	ApprovalFields `gorm:"embedded" json:"approval"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Recurring template link; populated when this ledger was materialized
	// from a recurring configuration.
	RecurringSourceID *uuid.UUID `gorm:"type:uuid;index" json:"recurringSourceId,omitempty"`
}

// TableName returns the table name for Ledger
func (Ledger) TableName() string {
	return "ledgers"
}

func (l *Ledger) EntityKind() EntityKind      { return KindLedger }
func (l *Ledger) EntityID() uuid.UUID         { return l.ID }
func (l *Ledger) EntityTenant() string        { return l.TenantID }
func (l *Ledger) EntityOwner() uuid.UUID      { return l.CreatedByID }
func (l *Ledger) EntityClient() *uuid.UUID    { return l.ClientID }
func (l *Ledger) CustomSettingID() *uuid.UUID { return l.SettingID }
func (l *Ledger) Approval() *ApprovalFields   { return &l.ApprovalFields }
