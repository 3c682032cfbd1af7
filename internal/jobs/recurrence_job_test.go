package jobs

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
	"github.com/asifshaikgit/workforce-sub006/internal/repository"
	"github.com/asifshaikgit/workforce-sub006/internal/services"
)

// jobRepo mocks the slice of repository.Interface the recurrence job
// touches; the embedded interface covers the rest.
type jobRepo struct {
	repository.Interface
	mock.Mock
}

func (m *jobRepo) WithTransaction(ctx context.Context, fn func(txRepo repository.Interface) error) error {
	return fn(m)
}

func (m *jobRepo) GetApprovable(ctx context.Context, kind models.EntityKind, id uuid.UUID) (models.Approvable, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Approvable), args.Error(1)
}

func (m *jobRepo) ClaimRecurringConfig(ctx context.Context, id uuid.UUID, expectedCount int) (*models.RecurringConfiguration, error) {
	args := m.Called(ctx, id, expectedCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecurringConfiguration), args.Error(1)
}

func (m *jobRepo) CreateEntity(ctx context.Context, entity models.Approvable) error {
	args := m.Called(ctx, entity)
	if args.Error(0) == nil {
		if ledger, ok := entity.(*models.Ledger); ok && ledger.ID == uuid.Nil {
			ledger.ID = uuid.New()
		}
	}
	return args.Error(0)
}

func (m *jobRepo) CreateTrack(ctx context.Context, track *models.ActivityTrack, changes []models.FieldChange) error {
	args := m.Called(ctx, track, changes)
	return args.Error(0)
}

func (m *jobRepo) UpdateRecurringConfig(ctx context.Context, cfg *models.RecurringConfiguration) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func newTestJob(repo *jobRepo) *RecurrenceJob {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	entities := services.NewEntityService(repo, services.NewAuditRecorder())
	return NewRecurrenceJob(repo, entities, nil, logger)
}

func monthlyConfig(templateID uuid.UUID) *models.RecurringConfiguration {
	return &models.RecurringConfiguration{
		ID:            uuid.New(),
		TenantID:      "tenant-1",
		EntityKind:    models.KindLedger,
		EntityID:      templateID,
		CycleType:     models.CycleMonth,
		IntervalCount: 1,
		StartDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		NeverExpires:  true,
		IsActive:      true,
	}
}

func templateLedger(id uuid.UUID) *models.Ledger {
	return &models.Ledger{
		ID:          id,
		TenantID:    "tenant-1",
		Reference:   "INV-100",
		CreatedByID: uuid.New(),
		IssueDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:      1500,
		Currency:    "USD",
	}
}

func TestMaterialize_SkipsWhenConfigClaimedElsewhere(t *testing.T) {
	repo := new(jobRepo)
	job := newTestJob(repo)

	template := templateLedger(uuid.New())
	cfg := monthlyConfig(template.ID)
	occurrence := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	repo.On("GetApprovable", mock.Anything, models.KindLedger, template.ID).Return(template, nil)
	// Another instance holds the row, or already advanced past this count.
	repo.On("ClaimRecurringConfig", mock.Anything, cfg.ID, 0).Return(nil, repository.ErrNotFound)

	materialized, err := job.materialize(context.Background(), cfg, occurrence)
	require.NoError(t, err)
	assert.False(t, materialized)
	assert.Equal(t, 0, cfg.OccurrenceCount)
	repo.AssertNotCalled(t, "CreateEntity", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateRecurringConfig", mock.Anything, mock.Anything)
}

func TestMaterialize_AdvancesClaimedConfig(t *testing.T) {
	repo := new(jobRepo)
	job := newTestJob(repo)

	template := templateLedger(uuid.New())
	cfg := monthlyConfig(template.ID)
	occurrence := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	claimed := *cfg
	repo.On("GetApprovable", mock.Anything, models.KindLedger, template.ID).Return(template, nil)
	repo.On("ClaimRecurringConfig", mock.Anything, cfg.ID, 0).Return(&claimed, nil)
	repo.On("CreateEntity", mock.Anything, mock.MatchedBy(func(entity models.Approvable) bool {
		ledger, ok := entity.(*models.Ledger)
		return ok && ledger.IssueDate.Equal(occurrence) &&
			ledger.Reference == "INV-100-20240215" &&
			ledger.RecurringSourceID != nil && *ledger.RecurringSourceID == cfg.ID
	})).Return(nil)
	repo.On("CreateTrack", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateRecurringConfig", mock.Anything, mock.MatchedBy(func(updated *models.RecurringConfiguration) bool {
		return updated.OccurrenceCount == 1 &&
			updated.LastOccurrence != nil && updated.LastOccurrence.Equal(occurrence)
	})).Return(nil)

	materialized, err := job.materialize(context.Background(), cfg, occurrence)
	require.NoError(t, err)
	assert.True(t, materialized)
	assert.Equal(t, 1, cfg.OccurrenceCount)
	repo.AssertExpectations(t)
}
