package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
	"github.com/asifshaikgit/workforce-sub006/internal/repository"
)

// MockRepository is a mock implementation of repository.Interface
type MockRepository struct {
	mock.Mock
}

// Ensure MockRepository implements the interface
var _ repository.Interface = (*MockRepository)(nil)

// WithTransaction runs the callback against the mock itself; tests assert
// on the same expectations whether a call happens inside a transaction or
// not.
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(txRepo repository.Interface) error) error {
	return fn(m)
}

func (m *MockRepository) CreateSetting(ctx context.Context, setting *models.ApprovalSetting) error {
	args := m.Called(ctx, setting)
	if args.Error(0) == nil && setting.ID == uuid.Nil {
		setting.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockRepository) GetSettingByID(ctx context.Context, id uuid.UUID) (*models.ApprovalSetting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalSetting), args.Error(1)
}

func (m *MockRepository) GetSettingAnyState(ctx context.Context, id uuid.UUID) (*models.ApprovalSetting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalSetting), args.Error(1)
}

func (m *MockRepository) GetSettingForUpdate(ctx context.Context, id uuid.UUID) (*models.ApprovalSetting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalSetting), args.Error(1)
}

func (m *MockRepository) GetGlobalSetting(ctx context.Context, tenantID string, module models.Module) (*models.ApprovalSetting, error) {
	args := m.Called(ctx, tenantID, module)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalSetting), args.Error(1)
}

func (m *MockRepository) GetClientSetting(ctx context.Context, tenantID string, module models.Module, clientID uuid.UUID) (*models.ApprovalSetting, error) {
	args := m.Called(ctx, tenantID, module, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalSetting), args.Error(1)
}

func (m *MockRepository) ListSettings(ctx context.Context, tenantID string, module models.Module) ([]models.ApprovalSetting, error) {
	args := m.Called(ctx, tenantID, module)
	return args.Get(0).([]models.ApprovalSetting), args.Error(1)
}

func (m *MockRepository) UpdateSettingLevelCount(ctx context.Context, setting *models.ApprovalSetting, levelCount int) error {
	args := m.Called(ctx, setting, levelCount)
	return args.Error(0)
}

func (m *MockRepository) SoftDeleteSetting(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ListLevels(ctx context.Context, settingID uuid.UUID) ([]models.ApprovalLevel, error) {
	args := m.Called(ctx, settingID)
	return args.Get(0).([]models.ApprovalLevel), args.Error(1)
}

func (m *MockRepository) GetLevelByID(ctx context.Context, id uuid.UUID) (*models.ApprovalLevel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalLevel), args.Error(1)
}

func (m *MockRepository) CreateLevel(ctx context.Context, level *models.ApprovalLevel) error {
	args := m.Called(ctx, level)
	if args.Error(0) == nil && level.ID == uuid.Nil {
		level.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockRepository) DeleteLevel(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) UpdateLevelRank(ctx context.Context, levelID uuid.UUID, rank int) error {
	args := m.Called(ctx, levelID, rank)
	return args.Error(0)
}

func (m *MockRepository) GetApproverRow(ctx context.Context, id uuid.UUID) (*models.ApprovalApprover, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalApprover), args.Error(1)
}

func (m *MockRepository) CreateApprover(ctx context.Context, approver *models.ApprovalApprover) error {
	args := m.Called(ctx, approver)
	if args.Error(0) == nil && approver.ID == uuid.Nil {
		approver.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockRepository) DeleteApprover(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CountApprovers(ctx context.Context, levelID uuid.UUID) (int64, error) {
	args := m.Called(ctx, levelID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountLevels(ctx context.Context, settingID uuid.UUID) (int64, error) {
	args := m.Called(ctx, settingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ApproverExistsInLevel(ctx context.Context, levelID, approverID uuid.UUID) (bool, error) {
	args := m.Called(ctx, levelID, approverID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CreateEntity(ctx context.Context, entity models.Approvable) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockRepository) GetApprovable(ctx context.Context, kind models.EntityKind, id uuid.UUID) (models.Approvable, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Approvable), args.Error(1)
}

func (m *MockRepository) SaveEntity(ctx context.Context, entity models.Approvable) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockRepository) UpdateApprovalFields(ctx context.Context, entity models.Approvable) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockRepository) SoftDeleteEntity(ctx context.Context, entity models.Approvable) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockRepository) CreateAction(ctx context.Context, action *models.ApprovalAction) error {
	args := m.Called(ctx, action)
	if args.Error(0) == nil && action.ID == uuid.Nil {
		action.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockRepository) ListActions(ctx context.Context, kind models.EntityKind, entityID uuid.UUID, cycle int) ([]models.ApprovalAction, error) {
	args := m.Called(ctx, kind, entityID, cycle)
	return args.Get(0).([]models.ApprovalAction), args.Error(1)
}

func (m *MockRepository) CreateTrack(ctx context.Context, track *models.ActivityTrack, changes []models.FieldChange) error {
	args := m.Called(ctx, track, changes)
	return args.Error(0)
}

func (m *MockRepository) ListTracks(ctx context.Context, tenantID string, kind models.EntityKind, entityID uuid.UUID) ([]models.ActivityTrack, error) {
	args := m.Called(ctx, tenantID, kind, entityID)
	return args.Get(0).([]models.ActivityTrack), args.Error(1)
}

func (m *MockRepository) CreateRecurringConfig(ctx context.Context, cfg *models.RecurringConfiguration) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockRepository) GetRecurringConfig(ctx context.Context, id uuid.UUID) (*models.RecurringConfiguration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecurringConfiguration), args.Error(1)
}

func (m *MockRepository) ListDueRecurringConfigs(ctx context.Context, asOf time.Time) ([]models.RecurringConfiguration, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]models.RecurringConfiguration), args.Error(1)
}

func (m *MockRepository) ClaimRecurringConfig(ctx context.Context, id uuid.UUID, expectedCount int) (*models.RecurringConfiguration, error) {
	args := m.Called(ctx, id, expectedCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecurringConfiguration), args.Error(1)
}

func (m *MockRepository) UpdateRecurringConfig(ctx context.Context, cfg *models.RecurringConfiguration) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}
