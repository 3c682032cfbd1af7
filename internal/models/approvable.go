package models

import (
	"time"

	"github.com/google/uuid"
)

// EntityKind distinguishes which table a polymorphic reference points at.
// Always a typed value, never a bare integer, so switches over it can be
// checked exhaustively.
type EntityKind string

const (
	KindTimesheet   EntityKind = "timesheet"
	KindLedger      EntityKind = "ledger"
	KindExpense     EntityKind = "expense"
	KindSelfService EntityKind = "self_service_request"
)

// ModuleFor maps an entity kind to the approval module that governs it.
func ModuleFor(kind EntityKind) Module {
	switch kind {
	case KindTimesheet:
		return ModuleTimesheet
	case KindLedger:
		return ModuleInvoice
	case KindExpense:
		return ModuleExpense
	case KindSelfService:
		return ModuleSelfService
	}
	return ""
}

// Lifecycle status values shared by all approvable entities. Void is
// reachable only from Approved for ledgers; Closed/Reopened/Cancelled are
// self-service extensions. The submit -> approve spine is common to all.
const (
	StatusDrafted            = "drafted"
	StatusSubmitted          = "submitted"
	StatusApprovalInProgress = "approval_in_progress"
	StatusApproved           = "approved"
	StatusRejected           = "rejected"
	StatusVoid               = "void"
	StatusClosed             = "closed"
	StatusReopened           = "reopened"
	StatusCancelled          = "cancelled"
)

// ApprovalFields carries the workflow state embedded into every approvable
// entity's own table. ResolvedSettingID is frozen at submission time so
// later chain edits do not alter in-flight approvals.
type ApprovalFields struct {
	Status               string     `gorm:"type:varchar(30);not null;default:'drafted';index" json:"status"`
	CurrentApprovalLevel *int       `json:"currentApprovalLevel,omitempty"`
	ResolvedSettingID    *uuid.UUID `gorm:"type:uuid" json:"resolvedApprovalSettingId,omitempty"`
	SubmissionCycle      int        `gorm:"not null;default:0" json:"submissionCycle"`
	SubmittedOn          *time.Time `json:"submittedOn,omitempty"`
	ApprovedOn           *time.Time `json:"approvedOn,omitempty"`
	Version              int        `gorm:"not null;default:1" json:"version"` // Optimistic locking
}

// InFlight reports whether the entity is inside an active approval cycle.
func (f *ApprovalFields) InFlight() bool {
	return f.Status == StatusSubmitted || f.Status == StatusApprovalInProgress
}

// Approvable is the capability surface the workflow engine operates
// against. Each concrete entity (Timesheet, Ledger, Expense,
// SelfServiceRequest) implements it over its own schema; there is no
// shared base record.
type Approvable interface {
	EntityKind() EntityKind
	EntityID() uuid.UUID
	EntityTenant() string
	// EntityOwner is the actor allowed to submit, resubmit and cancel.
	EntityOwner() uuid.UUID
	// EntityClient is the owning client, used for client-scope chain
	// resolution. Nil when the record is not client-bound.
	EntityClient() *uuid.UUID
	// CustomSettingID is the record-level chain override, highest
	// resolution precedence. Nil when absent.
	CustomSettingID() *uuid.UUID
	Approval() *ApprovalFields
}
