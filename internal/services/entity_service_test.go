package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
)

func TestEntityCreate_StartsDraftedWithCreateTrack(t *testing.T) {
	repo := new(MockRepository)
	svc := NewEntityService(repo, NewAuditRecorder())

	timesheet := newTestTimesheet("tenant-1", nil, nil)
	timesheet.Status = ""

	repo.On("CreateEntity", mock.Anything, timesheet).Return(nil)
	repo.On("CreateTrack", mock.Anything, mock.MatchedBy(func(track *models.ActivityTrack) bool {
		return track.ActionType == models.ActionTypeCreate && track.EntityID == timesheet.ID
	}), mock.Anything).Return(nil)

	err := svc.Create(context.Background(), timesheet, timesheet.EmployeeID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDrafted, timesheet.Status)
	repo.AssertExpectations(t)
}

func TestEntityUpdate_BlockedWhileInFlight(t *testing.T) {
	repo := new(MockRepository)
	svc := NewEntityService(repo, NewAuditRecorder())

	timesheet := newTestTimesheet("tenant-1", nil, nil)
	timesheet.Status = models.StatusApprovalInProgress
	before := *timesheet

	err := svc.Update(context.Background(), &before, timesheet, timesheet.EmployeeID)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	repo.AssertNotCalled(t, "SaveEntity", mock.Anything, mock.Anything)
}

func TestEntityUpdate_RecordsFieldDiff(t *testing.T) {
	repo := new(MockRepository)
	svc := NewEntityService(repo, NewAuditRecorder())

	timesheet := newTestTimesheet("tenant-1", nil, nil)
	timesheet.Status = models.StatusDrafted
	timesheet.TotalHours = 40
	before := *timesheet
	timesheet.TotalHours = 38.5

	repo.On("SaveEntity", mock.Anything, timesheet).Return(nil)
	repo.On("CreateTrack", mock.Anything, mock.Anything, mock.MatchedBy(func(changes []models.FieldChange) bool {
		return len(changes) == 1 && changes[0].FieldName == "totalHours" &&
			changes[0].OldValue == "40" && changes[0].NewValue == "38.5"
	})).Return(nil)

	err := svc.Update(context.Background(), &before, timesheet, timesheet.EmployeeID)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestFieldMap_ExcludesWorkflowBookkeeping(t *testing.T) {
	timesheet := newTestTimesheet("tenant-1", nil, nil)
	timesheet.SubmissionCycle = 3
	m := FieldMap(timesheet)
	assert.Contains(t, m, "totalHours")
	assert.NotContains(t, m, "status")
	assert.NotContains(t, m, "version")
	assert.NotContains(t, m, "submissionCycle")
}

func TestDocumentFields_PerKind(t *testing.T) {
	assert.Equal(t, []string{"documentId"}, DocumentFields(models.KindTimesheet))
	assert.Equal(t, []string{"receiptId"}, DocumentFields(models.KindExpense))
	assert.Nil(t, DocumentFields(models.KindSelfService))
}

func TestEntityLabel(t *testing.T) {
	ledger := &models.Ledger{ID: uuid.New(), Reference: "INV-042"}
	assert.Equal(t, "Ledger INV-042", EntityLabel(ledger))
}
