package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/asifshaikgit/workforce-sub006/internal/events"
	"github.com/asifshaikgit/workforce-sub006/internal/models"
	"github.com/asifshaikgit/workforce-sub006/internal/repository"
	"github.com/asifshaikgit/workforce-sub006/internal/services"
)

// RecurrenceJob materializes due recurring configurations into new draft
// ledgers on a fixed tick.
type RecurrenceJob struct {
	repo      repository.Interface
	entities  *services.EntityService
	publisher *events.Publisher
	logger    *logrus.Logger
	interval  time.Duration
	stopCh    chan struct{}
}

// NewRecurrenceJob creates a new recurrence job
func NewRecurrenceJob(repo repository.Interface, entities *services.EntityService, publisher *events.Publisher, logger *logrus.Logger) *RecurrenceJob {
	return &RecurrenceJob{
		repo:      repo,
		entities:  entities,
		publisher: publisher,
		logger:    logger,
		interval:  1 * time.Hour,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the recurrence job
func (j *RecurrenceJob) Start(ctx context.Context) {
	j.logger.Info("Recurrence job started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	// Run immediately on start
	j.runMaterializationCheck(ctx)

	for {
		select {
		case <-ticker.C:
			j.runMaterializationCheck(ctx)
		case <-j.stopCh:
			j.logger.Info("Recurrence job stopped")
			return
		case <-ctx.Done():
			j.logger.Info("Recurrence job context cancelled")
			return
		}
	}
}

// Stop signals the job to stop
func (j *RecurrenceJob) Stop() {
	close(j.stopCh)
}

// runMaterializationCheck finds due configurations and materializes them.
// A configuration may be several occurrences behind (downtime); each pass
// advances it by one occurrence, so repeated ticks catch it up.
func (j *RecurrenceJob) runMaterializationCheck(ctx context.Context) {
	j.logger.Debug("Running recurrence materialization check...")

	now := time.Now().UTC()
	cfgs, err := j.repo.ListDueRecurringConfigs(ctx, now)
	if err != nil {
		j.logger.Errorf("Failed to list due recurring configurations: %v", err)
		return
	}

	for i := range cfgs {
		cfg := &cfgs[i]

		next, err := services.NextOccurrence(cfg)
		if err != nil {
			if errors.Is(err, services.ErrNoMoreOccurrences) {
				j.deactivate(ctx, cfg)
				continue
			}
			j.logger.Errorf("Failed to compute next occurrence for config %s: %v", cfg.ID, err)
			continue
		}

		if next.After(now) {
			continue
		}

		materialized, err := j.materialize(ctx, cfg, next)
		if err != nil {
			j.logger.Errorf("Failed to materialize config %s: %v", cfg.ID, err)
			continue
		}
		if !materialized {
			j.logger.Debugf("Recurring config %s claimed by another instance, skipping", cfg.ID)
			continue
		}
		j.logger.Infof("Materialized occurrence %s of config %s", next.Format("2006-01-02"), cfg.ID)
	}
}

// materialize clones the template entity into a fresh draft dated at the
// occurrence and advances the configuration's bookkeeping. The whole step
// runs in one transaction holding an exclusive claim on the configuration
// row, so two instances (or overlapping ticks) cannot produce the same
// occurrence twice; losing the claim reports false, not an error.
func (j *RecurrenceJob) materialize(ctx context.Context, cfg *models.RecurringConfiguration, occurrence time.Time) (bool, error) {
	template, err := j.repo.GetApprovable(ctx, cfg.EntityKind, cfg.EntityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Template deleted; the schedule has nothing left to produce.
			j.deactivate(ctx, cfg)
			return false, nil
		}
		return false, err
	}

	ledger, ok := template.(*models.Ledger)
	if !ok {
		j.logger.Warnf("Recurring config %s targets non-ledger kind %s, deactivating", cfg.ID, cfg.EntityKind)
		j.deactivate(ctx, cfg)
		return false, nil
	}

	instance := &models.Ledger{
		TenantID:          ledger.TenantID,
		Reference:         ledger.Reference + "-" + occurrence.Format("20060102"),
		CreatedByID:       ledger.CreatedByID,
		ClientID:          ledger.ClientID,
		SettingID:         ledger.SettingID,
		IssueDate:         occurrence,
		Amount:            ledger.Amount,
		Currency:          ledger.Currency,
		RecurringSourceID: &cfg.ID,
	}
	if ledger.DueDate != nil {
		due := occurrence.Add(ledger.DueDate.Sub(ledger.IssueDate))
		instance.DueDate = &due
	}

	claimed := false
	err = j.repo.WithTransaction(ctx, func(txRepo repository.Interface) error {
		locked, err := txRepo.ClaimRecurringConfig(ctx, cfg.ID, cfg.OccurrenceCount)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return err
		}

		if err := j.entities.CreateIn(ctx, txRepo, instance, ledger.CreatedByID); err != nil {
			return err
		}

		locked.OccurrenceCount++
		locked.LastOccurrence = &occurrence
		if err := txRepo.UpdateRecurringConfig(ctx, locked); err != nil {
			return err
		}

		*cfg = *locked
		claimed = true
		return nil
	})
	if err != nil || !claimed {
		return false, err
	}

	if j.publisher != nil {
		j.publisher.PublishRecurrenceMaterialized(ctx, cfg, instance.ID, occurrence)
	}
	return true, nil
}

func (j *RecurrenceJob) deactivate(ctx context.Context, cfg *models.RecurringConfiguration) {
	cfg.IsActive = false
	if err := j.repo.UpdateRecurringConfig(ctx, cfg); err != nil {
		j.logger.Errorf("Failed to deactivate recurring config %s: %v", cfg.ID, err)
		return
	}
	j.logger.Infof("Recurring config %s exhausted, deactivated", cfg.ID)
}
