package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Module identifies which entity family an approval chain governs.
type Module string

const (
	ModuleTimesheet   Module = "timesheet"
	ModuleInvoice     Module = "invoice"
	ModuleExpense     Module = "expense"
	ModuleSelfService Module = "self_service"
)

// Modules lists every approval-governed module. Seeding and startup
// integrity checks iterate this slice so a new module cannot be added
// without a global default chain.
var Modules = []Module{ModuleTimesheet, ModuleInvoice, ModuleExpense, ModuleSelfService}

// Scope identifies at which level a chain definition applies.
type Scope string

const (
	ScopeGlobal Scope = "global" // tenant-wide default for a module
	ScopeClient Scope = "client" // override for one client
	ScopeRecord Scope = "record" // custom chain attached to a single record
)

// ApprovalSetting is one chain definition: an ordered set of levels, each
// carrying one or more approvers. Settings are soft-deleted only; in-flight
// and historical records keep resolving against them.
type ApprovalSetting struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID   string         `gorm:"type:varchar(255);not null;index" json:"tenantId"`
	Module     Module         `gorm:"type:varchar(30);not null;index" json:"module"`
	Scope      Scope          `gorm:"type:varchar(20);not null" json:"scope"`
	ClientID   *uuid.UUID     `gorm:"type:uuid;index" json:"clientId,omitempty"`
	LevelCount int            `gorm:"not null;default:0" json:"levelCount"`
	Version    int            `gorm:"not null;default:1" json:"version"` // Optimistic locking for structural edits
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Levels []ApprovalLevel `gorm:"foreignKey:SettingID" json:"levels,omitempty"`
}

// TableName returns the table name for ApprovalSetting
func (ApprovalSetting) TableName() string {
	return "approval_settings"
}

// ApprovalLevel is one step in a chain. Ranks within a setting are always
// the contiguous set 1..LevelCount; the store renumbers on every structural
// edit to keep that true.
type ApprovalLevel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SettingID uuid.UUID `gorm:"type:uuid;not null;index" json:"settingId"`
	Rank      int       `gorm:"not null" json:"rank"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Approvers []ApprovalApprover `gorm:"foreignKey:LevelID" json:"approvers,omitempty"`
}

// TableName returns the table name for ApprovalLevel
func (ApprovalLevel) TableName() string {
	return "approval_levels"
}

// HasApprover reports whether the given user is assigned at this level.
func (l *ApprovalLevel) HasApprover(userID uuid.UUID) bool {
	for _, a := range l.Approvers {
		if a.ApproverID == userID {
			return true
		}
	}
	return false
}

// ApprovalApprover assigns one user to one level. A level must retain at
// least one approver at all times.
type ApprovalApprover struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	LevelID    uuid.UUID `gorm:"type:uuid;not null;index" json:"levelId"`
	ApproverID uuid.UUID `gorm:"type:uuid;not null;index" json:"approverId"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for ApprovalApprover
func (ApprovalApprover) TableName() string {
	return "approval_approvers"
}

// LevelAtRank returns the level with the given rank, or nil.
func (s *ApprovalSetting) LevelAtRank(rank int) *ApprovalLevel {
	for i := range s.Levels {
		if s.Levels[i].Rank == rank {
			return &s.Levels[i]
		}
	}
	return nil
}
