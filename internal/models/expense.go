package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Expense is a reimbursable spend record with a receipt attachment slot.
type Expense struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID    string     `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	EmployeeID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"employeeId"`
	ClientID    *uuid.UUID `gorm:"type:uuid;index" json:"clientId,omitempty"`
	SettingID   *uuid.UUID `gorm:"type:uuid" json:"approvalSettingId,omitempty"`
	IncurredOn  time.Time  `gorm:"not null" json:"incurredOn"`
	Category    string     `gorm:"type:varchar(50)" json:"category,omitempty"`
	Amount      float64    `gorm:"not null;default:0" json:"amount"`
	Currency    string     `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	ReceiptID   *uuid.UUID `gorm:"type:uuid" json:"receiptId,omitempty"`

	ApprovalFields `gorm:"embedded" json:"approval"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for Expense
func (Expense) TableName() string {
	return "expenses"
}

func (e *Expense) EntityKind() EntityKind      { return KindExpense }
func (e *Expense) EntityID() uuid.UUID         { return e.ID }
func (e *Expense) EntityTenant() string        { return e.TenantID }
func (e *Expense) EntityOwner() uuid.UUID      { return e.EmployeeID }
func (e *Expense) EntityClient() *uuid.UUID    { return e.ClientID }
func (e *Expense) CustomSettingID() *uuid.UUID { return e.SettingID }
func (e *Expense) Approval() *ApprovalFields   { return &e.ApprovalFields }
