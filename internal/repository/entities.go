package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
)

// --- Approvable Entity Methods ---

// CreateEntity inserts a new approvable entity row.
func (r *Repository) CreateEntity(ctx context.Context, entity models.Approvable) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// GetApprovable loads an entity by kind and id as its capability surface.
// The switch is exhaustive over models.EntityKind.
func (r *Repository) GetApprovable(ctx context.Context, kind models.EntityKind, id uuid.UUID) (models.Approvable, error) {
	var entity models.Approvable
	switch kind {
	case models.KindTimesheet:
		entity = &models.Timesheet{}
	case models.KindLedger:
		entity = &models.Ledger{}
	case models.KindExpense:
		entity = &models.Expense{}
	case models.KindSelfService:
		entity = &models.SelfServiceRequest{}
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}

	err := r.db.WithContext(ctx).Where("id = ?", id).First(entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entity, nil
}

// SaveEntity writes all columns of an entity back.
func (r *Repository) SaveEntity(ctx context.Context, entity models.Approvable) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

// UpdateApprovalFields persists only the workflow columns of an entity
// with an optimistic version check. Two approvers racing on the same level
// get exactly one success; the loser sees ErrVersionConflict.
func (r *Repository) UpdateApprovalFields(ctx context.Context, entity models.Approvable) error {
	f := entity.Approval()
	oldVersion := f.Version

	result := r.db.WithContext(ctx).Model(entity).
		Where("id = ? AND version = ?", entity.EntityID(), oldVersion).
		Updates(map[string]interface{}{
			"status":                 f.Status,
			"current_approval_level": f.CurrentApprovalLevel,
			"resolved_setting_id":    f.ResolvedSettingID,
			"submission_cycle":       f.SubmissionCycle,
			"submitted_on":           f.SubmittedOn,
			"approved_on":            f.ApprovedOn,
			"version":                oldVersion + 1,
			"updated_at":             time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	f.Version = oldVersion + 1
	return nil
}

// SoftDeleteEntity soft-deletes an entity row.
func (r *Repository) SoftDeleteEntity(ctx context.Context, entity models.Approvable) error {
	result := r.db.WithContext(ctx).Delete(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Decision Methods ---

// CreateAction appends an approve/reject decision row.
func (r *Repository) CreateAction(ctx context.Context, action *models.ApprovalAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

// ListActions retrieves the decisions recorded for one submission cycle of
// one entity, oldest first.
func (r *Repository) ListActions(ctx context.Context, kind models.EntityKind, entityID uuid.UUID, cycle int) ([]models.ApprovalAction, error) {
	var actions []models.ApprovalAction
	err := r.db.WithContext(ctx).
		Where("entity_kind = ? AND entity_id = ? AND cycle = ?", kind, entityID, cycle).
		Order("decided_at ASC").
		Find(&actions).Error
	return actions, err
}
