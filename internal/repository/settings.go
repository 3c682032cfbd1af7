package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
)

// --- Setting Methods ---

// CreateSetting creates a setting together with its levels and approver
// assignments in one cascade insert.
func (r *Repository) CreateSetting(ctx context.Context, setting *models.ApprovalSetting) error {
	return r.db.WithContext(ctx).Create(setting).Error
}

// GetSettingByID retrieves a live setting with its full chain, levels
// ordered by rank.
func (r *Repository) GetSettingByID(ctx context.Context, id uuid.UUID) (*models.ApprovalSetting, error) {
	var setting models.ApprovalSetting
	err := r.db.WithContext(ctx).
		Preload("Levels", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Preload("Levels.Approvers").
		Where("id = ?", id).
		First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// GetSettingAnyState retrieves a setting even after soft deletion.
// In-flight entities froze their setting id at submission time and must
// keep resolving it for the rest of their approval cycle.
func (r *Repository) GetSettingAnyState(ctx context.Context, id uuid.UUID) (*models.ApprovalSetting, error) {
	var setting models.ApprovalSetting
	err := r.db.WithContext(ctx).Unscoped().
		Preload("Levels", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Preload("Levels.Approvers").
		Where("id = ?", id).
		First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// GetSettingForUpdate locks the setting row for the duration of the
// surrounding transaction. Structural edits take this lock first so
// concurrent renumbering cannot interleave.
func (r *Repository) GetSettingForUpdate(ctx context.Context, id uuid.UUID) (*models.ApprovalSetting, error) {
	var setting models.ApprovalSetting
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// GetGlobalSetting retrieves the tenant's global default chain for a module.
func (r *Repository) GetGlobalSetting(ctx context.Context, tenantID string, module models.Module) (*models.ApprovalSetting, error) {
	var setting models.ApprovalSetting
	err := r.db.WithContext(ctx).
		Preload("Levels", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Preload("Levels.Approvers").
		Where("tenant_id = ? AND module = ? AND scope = ?", tenantID, module, models.ScopeGlobal).
		First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// GetClientSetting retrieves a client-scope chain override for a module.
func (r *Repository) GetClientSetting(ctx context.Context, tenantID string, module models.Module, clientID uuid.UUID) (*models.ApprovalSetting, error) {
	var setting models.ApprovalSetting
	err := r.db.WithContext(ctx).
		Preload("Levels", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Preload("Levels.Approvers").
		Where("tenant_id = ? AND module = ? AND scope = ? AND client_id = ?", tenantID, module, models.ScopeClient, clientID).
		First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// ListSettings retrieves all live settings for a tenant, optionally
// filtered by module.
func (r *Repository) ListSettings(ctx context.Context, tenantID string, module models.Module) ([]models.ApprovalSetting, error) {
	var settings []models.ApprovalSetting
	query := r.db.WithContext(ctx).
		Preload("Levels", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Preload("Levels.Approvers").
		Where("tenant_id = ?", tenantID)
	if module != "" {
		query = query.Where("module = ?", module)
	}
	err := query.Order("created_at DESC").Find(&settings).Error
	return settings, err
}

// UpdateSettingLevelCount writes the cached level count with an optimistic
// version check so concurrent structural edits on the same setting fail
// fast instead of corrupting ranks.
func (r *Repository) UpdateSettingLevelCount(ctx context.Context, setting *models.ApprovalSetting, levelCount int) error {
	oldVersion := setting.Version

	result := r.db.WithContext(ctx).Model(setting).
		Where("id = ? AND version = ?", setting.ID, oldVersion).
		Updates(map[string]interface{}{
			"level_count": levelCount,
			"version":     oldVersion + 1,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	setting.LevelCount = levelCount
	setting.Version = oldVersion + 1
	return nil
}

// SoftDeleteSetting soft-deletes a setting. Referencing records remain
// resolvable through GetSettingAnyState.
func (r *Repository) SoftDeleteSetting(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ApprovalSetting{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Level Methods ---

// ListLevels retrieves a setting's levels with approvers, ordered by rank.
func (r *Repository) ListLevels(ctx context.Context, settingID uuid.UUID) ([]models.ApprovalLevel, error) {
	var levels []models.ApprovalLevel
	err := r.db.WithContext(ctx).
		Preload("Approvers").
		Where("setting_id = ?", settingID).
		Order("rank ASC").
		Find(&levels).Error
	return levels, err
}

// GetLevelByID retrieves a level with its approvers.
func (r *Repository) GetLevelByID(ctx context.Context, id uuid.UUID) (*models.ApprovalLevel, error) {
	var level models.ApprovalLevel
	err := r.db.WithContext(ctx).
		Preload("Approvers").
		Where("id = ?", id).
		First(&level).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// CreateLevel creates a level, with any approvers attached.
func (r *Repository) CreateLevel(ctx context.Context, level *models.ApprovalLevel) error {
	return r.db.WithContext(ctx).Create(level).Error
}

// DeleteLevel removes a level and its approver rows.
func (r *Repository) DeleteLevel(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.ApprovalApprover{}, "level_id = ?", id).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&models.ApprovalLevel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLevelRank rewrites one level's rank. Only ever called from inside
// a chain-edit transaction holding the setting lock.
func (r *Repository) UpdateLevelRank(ctx context.Context, levelID uuid.UUID, rank int) error {
	result := r.db.WithContext(ctx).Model(&models.ApprovalLevel{}).
		Where("id = ?", levelID).
		Updates(map[string]interface{}{
			"rank":       rank,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Approver Methods ---

// GetApproverRow retrieves a single approver assignment.
func (r *Repository) GetApproverRow(ctx context.Context, id uuid.UUID) (*models.ApprovalApprover, error) {
	var approver models.ApprovalApprover
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&approver).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &approver, nil
}

// CreateApprover appends an approver to a level.
func (r *Repository) CreateApprover(ctx context.Context, approver *models.ApprovalApprover) error {
	return r.db.WithContext(ctx).Create(approver).Error
}

// DeleteApprover removes one approver assignment.
func (r *Repository) DeleteApprover(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ApprovalApprover{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountApprovers returns the number of approvers assigned to a level.
func (r *Repository) CountApprovers(ctx context.Context, levelID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ApprovalApprover{}).
		Where("level_id = ?", levelID).
		Count(&count).Error
	return count, err
}

// CountLevels returns the number of levels under a setting.
func (r *Repository) CountLevels(ctx context.Context, settingID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ApprovalLevel{}).
		Where("setting_id = ?", settingID).
		Count(&count).Error
	return count, err
}

// ApproverExistsInLevel reports whether a user is already assigned to a level.
func (r *Repository) ApproverExistsInLevel(ctx context.Context, levelID, approverID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ApprovalApprover{}).
		Where("level_id = ? AND approver_id = ?", levelID, approverID).
		Count(&count).Error
	return count > 0, err
}
