package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict - record was modified by another request")
)

// Interface is the persistence surface consumed by the services layer.
// A transaction-scoped implementation is handed to the callback of
// WithTransaction so multi-row edits commit or roll back as one unit.
type Interface interface {
	WithTransaction(ctx context.Context, fn func(txRepo Interface) error) error

	// Approval chain structure
	CreateSetting(ctx context.Context, setting *models.ApprovalSetting) error
	GetSettingByID(ctx context.Context, id uuid.UUID) (*models.ApprovalSetting, error)
	GetSettingAnyState(ctx context.Context, id uuid.UUID) (*models.ApprovalSetting, error)
	GetSettingForUpdate(ctx context.Context, id uuid.UUID) (*models.ApprovalSetting, error)
	GetGlobalSetting(ctx context.Context, tenantID string, module models.Module) (*models.ApprovalSetting, error)
	GetClientSetting(ctx context.Context, tenantID string, module models.Module, clientID uuid.UUID) (*models.ApprovalSetting, error)
	ListSettings(ctx context.Context, tenantID string, module models.Module) ([]models.ApprovalSetting, error)
	UpdateSettingLevelCount(ctx context.Context, setting *models.ApprovalSetting, levelCount int) error
	SoftDeleteSetting(ctx context.Context, id uuid.UUID) error

	ListLevels(ctx context.Context, settingID uuid.UUID) ([]models.ApprovalLevel, error)
	GetLevelByID(ctx context.Context, id uuid.UUID) (*models.ApprovalLevel, error)
	CreateLevel(ctx context.Context, level *models.ApprovalLevel) error
	DeleteLevel(ctx context.Context, id uuid.UUID) error
	UpdateLevelRank(ctx context.Context, levelID uuid.UUID, rank int) error

	GetApproverRow(ctx context.Context, id uuid.UUID) (*models.ApprovalApprover, error)
	CreateApprover(ctx context.Context, approver *models.ApprovalApprover) error
	DeleteApprover(ctx context.Context, id uuid.UUID) error
	CountApprovers(ctx context.Context, levelID uuid.UUID) (int64, error)
	CountLevels(ctx context.Context, settingID uuid.UUID) (int64, error)
	ApproverExistsInLevel(ctx context.Context, levelID, approverID uuid.UUID) (bool, error)

	// Approvable entities
	CreateEntity(ctx context.Context, entity models.Approvable) error
	GetApprovable(ctx context.Context, kind models.EntityKind, id uuid.UUID) (models.Approvable, error)
	SaveEntity(ctx context.Context, entity models.Approvable) error
	UpdateApprovalFields(ctx context.Context, entity models.Approvable) error
	SoftDeleteEntity(ctx context.Context, entity models.Approvable) error

	// Decisions
	CreateAction(ctx context.Context, action *models.ApprovalAction) error
	ListActions(ctx context.Context, kind models.EntityKind, entityID uuid.UUID, cycle int) ([]models.ApprovalAction, error)

	// Activity trail
	CreateTrack(ctx context.Context, track *models.ActivityTrack, changes []models.FieldChange) error
	ListTracks(ctx context.Context, tenantID string, kind models.EntityKind, entityID uuid.UUID) ([]models.ActivityTrack, error)

	// Recurrence
	CreateRecurringConfig(ctx context.Context, cfg *models.RecurringConfiguration) error
	GetRecurringConfig(ctx context.Context, id uuid.UUID) (*models.RecurringConfiguration, error)
	ListDueRecurringConfigs(ctx context.Context, asOf time.Time) ([]models.RecurringConfiguration, error)
	ClaimRecurringConfig(ctx context.Context, id uuid.UUID, expectedCount int) (*models.RecurringConfiguration, error)
	UpdateRecurringConfig(ctx context.Context, cfg *models.RecurringConfiguration) error
}

// Repository is the gorm-backed implementation of Interface.
type Repository struct {
	db *gorm.DB
}

var _ Interface = (*Repository)(nil)

// NewRepository creates a new Repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTransaction runs fn with a transaction-scoped repository. Either
// every write inside fn commits, or none do.
func (r *Repository) WithTransaction(ctx context.Context, fn func(txRepo Interface) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}
