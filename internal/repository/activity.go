package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
)

// --- Activity Trail Methods ---

// CreateTrack inserts an activity track and its field changes as one
// atomic unit. A track with a missing subset of its changes is never
// observable: if the repository is already transaction-scoped the
// surrounding transaction covers both inserts, otherwise a local one does.
func (r *Repository) CreateTrack(ctx context.Context, track *models.ActivityTrack, changes []models.FieldChange) error {
	write := func(tx *gorm.DB) error {
		if err := tx.Create(track).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		for i := range changes {
			changes[i].TrackID = track.ID
		}
		return tx.Create(&changes).Error
	}

	return r.db.WithContext(ctx).Transaction(write)
}

// ListTracks retrieves the activity history of one entity, newest first,
// with field changes attached.
func (r *Repository) ListTracks(ctx context.Context, tenantID string, kind models.EntityKind, entityID uuid.UUID) ([]models.ActivityTrack, error) {
	var tracks []models.ActivityTrack
	err := r.db.WithContext(ctx).
		Preload("FieldChanges").
		Where("tenant_id = ? AND entity_kind = ? AND entity_id = ?", tenantID, kind, entityID).
		Order("created_at DESC").
		Find(&tracks).Error
	return tracks, err
}

// --- Recurrence Methods ---

// CreateRecurringConfig creates a recurring configuration.
func (r *Repository) CreateRecurringConfig(ctx context.Context, cfg *models.RecurringConfiguration) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

// GetRecurringConfig retrieves a recurring configuration by id.
func (r *Repository) GetRecurringConfig(ctx context.Context, id uuid.UUID) (*models.RecurringConfiguration, error) {
	var cfg models.RecurringConfiguration
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&cfg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// ListDueRecurringConfigs finds active configurations whose next
// occurrence could fall on or before asOf. The calculator makes the final
// call; this query only narrows the candidates.
func (r *Repository) ListDueRecurringConfigs(ctx context.Context, asOf time.Time) ([]models.RecurringConfiguration, error) {
	var cfgs []models.RecurringConfiguration
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("start_date <= ?", asOf).
		Find(&cfgs).Error
	return cfgs, err
}

// ClaimRecurringConfig re-reads one configuration with FOR UPDATE SKIP
// LOCKED, guarded by the occurrence count the caller last saw. Inside a
// transaction this makes the claim exclusive across service instances:
// ErrNotFound means another instance holds the row or already advanced it,
// and the caller skips the occurrence instead of materializing it twice.
func (r *Repository) ClaimRecurringConfig(ctx context.Context, id uuid.UUID, expectedCount int) (*models.RecurringConfiguration, error) {
	var cfg models.RecurringConfiguration
	err := r.db.WithContext(ctx).Raw(`
		SELECT * FROM recurring_configurations
		WHERE id = ? AND is_active = true AND occurrence_count = ?
		FOR UPDATE SKIP LOCKED
	`, id, expectedCount).Scan(&cfg).Error
	if err != nil {
		return nil, err
	}
	if cfg.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	return &cfg, nil
}

// UpdateRecurringConfig writes back occurrence bookkeeping.
func (r *Repository) UpdateRecurringConfig(ctx context.Context, cfg *models.RecurringConfiguration) error {
	result := r.db.WithContext(ctx).Model(cfg).
		Where("id = ?", cfg.ID).
		Updates(map[string]interface{}{
			"occurrence_count": cfg.OccurrenceCount,
			"last_occurrence":  cfg.LastOccurrence,
			"is_active":        cfg.IsActive,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
