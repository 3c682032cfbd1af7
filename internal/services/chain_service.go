package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/asifshaikgit/workforce-sub006/internal/events"
	"github.com/asifshaikgit/workforce-sub006/internal/models"
	"github.com/asifshaikgit/workforce-sub006/internal/repository"
)

var (
	ErrDuplicateApproverInLevel = errors.New("approver is already assigned to this level")
	ErrLastApproverInLevel      = errors.New("cannot remove the last approver of a level")
	ErrLastLevelInSetting       = errors.New("cannot remove the last level of an approval chain")
	ErrSettingNotFound          = errors.New("approval setting not found")
	ErrLevelNotFound            = errors.New("approval level not found")
	ErrApproverNotFound         = errors.New("approver assignment not found")
)

// ChainService performs structural mutation of approval chains with rank
// integrity preserved under partial edits. Every edit runs in one
// transaction holding a row lock on the setting, so two edits on the same
// chain cannot interleave their renumbering.
type ChainService struct {
	repo      repository.Interface
	publisher *events.Publisher
}

// NewChainService creates a new ChainService
func NewChainService(repo repository.Interface, publisher *events.Publisher) *ChainService {
	return &ChainService{repo: repo, publisher: publisher}
}

// CreateSettingInput describes a new chain definition.
type CreateSettingInput struct {
	Module   models.Module     `json:"module" binding:"required"`
	Scope    models.Scope      `json:"scope" binding:"required"`
	ClientID *uuid.UUID        `json:"clientId,omitempty"`
	Levels   []ChainLevelInput `json:"levels" binding:"required"`
}

// CreateSetting validates and persists a full chain definition.
func (s *ChainService) CreateSetting(ctx context.Context, tenantID string, input CreateSettingInput) (*models.ApprovalSetting, error) {
	ordered, err := ValidateChain(input.Levels)
	if err != nil {
		return nil, err
	}

	setting := &models.ApprovalSetting{
		TenantID:   tenantID,
		Module:     input.Module,
		Scope:      input.Scope,
		ClientID:   input.ClientID,
		LevelCount: len(ordered),
	}
	for _, l := range ordered {
		level := models.ApprovalLevel{Rank: l.Rank}
		for _, approverID := range l.ApproverIDs {
			level.Approvers = append(level.Approvers, models.ApprovalApprover{ApproverID: approverID})
		}
		setting.Levels = append(setting.Levels, level)
	}

	if err := s.repo.CreateSetting(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to create approval setting: %w", err)
	}

	s.publishChainEdit(ctx, tenantID, setting.ID, "created")
	return setting, nil
}

// GetSetting retrieves a chain with its levels and approvers.
func (s *ChainService) GetSetting(ctx context.Context, id uuid.UUID) (*models.ApprovalSetting, error) {
	setting, err := s.repo.GetSettingByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return setting, nil
}

// ListSettings lists a tenant's chains, optionally filtered by module.
func (s *ChainService) ListSettings(ctx context.Context, tenantID string, module models.Module) ([]models.ApprovalSetting, error) {
	return s.repo.ListSettings(ctx, tenantID, module)
}

// AddApprover appends an approver to a level. The same person may appear
// at several levels of one chain, but not twice in one level.
func (s *ChainService) AddApprover(ctx context.Context, levelID, approverID uuid.UUID) (*models.ApprovalApprover, error) {
	var created *models.ApprovalApprover
	var settingID uuid.UUID
	var tenantID string

	err := s.repo.WithTransaction(ctx, func(txRepo repository.Interface) error {
		level, err := txRepo.GetLevelByID(ctx, levelID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrLevelNotFound
			}
			return err
		}

		setting, err := txRepo.GetSettingForUpdate(ctx, level.SettingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSettingNotFound
			}
			return err
		}
		settingID = setting.ID
		tenantID = setting.TenantID

		exists, err := txRepo.ApproverExistsInLevel(ctx, levelID, approverID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateApproverInLevel
		}

		created = &models.ApprovalApprover{LevelID: levelID, ApproverID: approverID}
		return txRepo.CreateApprover(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	s.publishChainEdit(ctx, tenantID, settingID, "approver_added")
	return created, nil
}

// RemoveApprover deletes one approver assignment. Removing the last
// approver of a level is rejected rather than leaving the level empty.
func (s *ChainService) RemoveApprover(ctx context.Context, approverRowID uuid.UUID) error {
	var settingID uuid.UUID
	var tenantID string

	err := s.repo.WithTransaction(ctx, func(txRepo repository.Interface) error {
		row, err := txRepo.GetApproverRow(ctx, approverRowID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrApproverNotFound
			}
			return err
		}

		level, err := txRepo.GetLevelByID(ctx, row.LevelID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrLevelNotFound
			}
			return err
		}
		setting, err := txRepo.GetSettingForUpdate(ctx, level.SettingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSettingNotFound
			}
			return err
		}
		settingID = setting.ID
		tenantID = setting.TenantID

		count, err := txRepo.CountApprovers(ctx, row.LevelID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastApproverInLevel
		}

		return txRepo.DeleteApprover(ctx, approverRowID)
	})
	if err != nil {
		return err
	}

	s.publishChainEdit(ctx, tenantID, settingID, "approver_removed")
	return nil
}

// RemoveLevel deletes a level and renumbers all higher ranks downward so
// the chain's ranks are contiguous again. Removing the only level of a
// chain is rejected.
func (s *ChainService) RemoveLevel(ctx context.Context, levelID uuid.UUID) error {
	var settingID uuid.UUID
	var tenantID string

	err := s.repo.WithTransaction(ctx, func(txRepo repository.Interface) error {
		level, err := txRepo.GetLevelByID(ctx, levelID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrLevelNotFound
			}
			return err
		}

		setting, err := txRepo.GetSettingForUpdate(ctx, level.SettingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSettingNotFound
			}
			return err
		}
		settingID = setting.ID
		tenantID = setting.TenantID

		count, err := txRepo.CountLevels(ctx, setting.ID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastLevelInSetting
		}

		levels, err := txRepo.ListLevels(ctx, setting.ID)
		if err != nil {
			return err
		}

		if err := txRepo.DeleteLevel(ctx, levelID); err != nil {
			return err
		}

		ranked := make([]RankedLevel, 0, len(levels))
		for _, l := range levels {
			ranked = append(ranked, RankedLevel{LevelID: l.ID, Rank: l.Rank})
		}
		for _, l := range RenumberAfterRemoval(ranked, level.Rank) {
			if err := txRepo.UpdateLevelRank(ctx, l.LevelID, l.Rank); err != nil {
				return err
			}
		}

		return txRepo.UpdateSettingLevelCount(ctx, setting, int(count)-1)
	})
	if err != nil {
		return err
	}

	s.publishChainEdit(ctx, tenantID, settingID, "level_removed")
	return nil
}

// AddLevelInput describes a level insertion.
type AddLevelInput struct {
	Position    int         `json:"position" binding:"required,min=1"`
	ApproverIDs []uuid.UUID `json:"approverIds" binding:"required,min=1"`
}

// AddLevel inserts a level at the given rank, shifting existing ranks at
// or above the position upward by one first. The new level must carry at
// least one approver.
func (s *ChainService) AddLevel(ctx context.Context, settingID uuid.UUID, input AddLevelInput) (*models.ApprovalLevel, error) {
	if len(input.ApproverIDs) == 0 {
		return nil, ErrNoApproverAssigned
	}

	var created *models.ApprovalLevel
	var tenantID string

	err := s.repo.WithTransaction(ctx, func(txRepo repository.Interface) error {
		setting, err := txRepo.GetSettingForUpdate(ctx, settingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSettingNotFound
			}
			return err
		}
		tenantID = setting.TenantID

		levels, err := txRepo.ListLevels(ctx, settingID)
		if err != nil {
			return err
		}

		position := input.Position
		if position > len(levels)+1 {
			position = len(levels) + 1 // append past the end
		}

		ranked := make([]RankedLevel, 0, len(levels))
		for _, l := range levels {
			ranked = append(ranked, RankedLevel{LevelID: l.ID, Rank: l.Rank})
		}
		for _, l := range RanksToShiftForInsert(ranked, position) {
			if err := txRepo.UpdateLevelRank(ctx, l.LevelID, l.Rank); err != nil {
				return err
			}
		}

		created = &models.ApprovalLevel{SettingID: settingID, Rank: position}
		for _, approverID := range input.ApproverIDs {
			created.Approvers = append(created.Approvers, models.ApprovalApprover{ApproverID: approverID})
		}
		if err := txRepo.CreateLevel(ctx, created); err != nil {
			return err
		}

		return txRepo.UpdateSettingLevelCount(ctx, setting, len(levels)+1)
	})
	if err != nil {
		return nil, err
	}

	s.publishChainEdit(ctx, tenantID, settingID, "level_added")
	return created, nil
}

// DeleteSetting soft-deletes a chain. History and in-flight records keep
// resolving it through the unscoped lookup.
func (s *ChainService) DeleteSetting(ctx context.Context, id uuid.UUID) error {
	err := s.repo.SoftDeleteSetting(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSettingNotFound
	}
	return err
}

func (s *ChainService) publishChainEdit(ctx context.Context, tenantID string, settingID uuid.UUID, edit string) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishChainUpdated(ctx, tenantID, settingID, edit)
}
