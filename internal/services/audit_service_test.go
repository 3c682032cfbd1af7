package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
)

func TestComputeFieldChanges_OnlyDifferingFields(t *testing.T) {
	before := map[string]interface{}{
		"amount":      100.0,
		"currency":    "USD",
		"description": "taxi",
		"category":    "travel",
	}
	after := map[string]interface{}{
		"amount":      120.0,
		"currency":    "USD",
		"description": "taxi to airport",
		"category":    "travel",
	}

	changes := ComputeFieldChanges(before, after, nil)
	require.Len(t, changes, 2)
	// Deterministic field order.
	assert.Equal(t, "amount", changes[0].FieldName)
	assert.Equal(t, "100", changes[0].OldValue)
	assert.Equal(t, "120", changes[0].NewValue)
	assert.Equal(t, "description", changes[1].FieldName)
}

func TestComputeFieldChanges_UnionOfFieldNames(t *testing.T) {
	// A field present only on one side still produces a change row, with
	// the absent side serialized as empty.
	before := map[string]interface{}{"notes": "draft"}
	after := map[string]interface{}{"clientId": uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")}

	changes := ComputeFieldChanges(before, after, nil)
	require.Len(t, changes, 2)
	assert.Equal(t, "clientId", changes[0].FieldName)
	assert.Equal(t, "", changes[0].OldValue)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", changes[0].NewValue)
	assert.Equal(t, "notes", changes[1].FieldName)
	assert.Equal(t, "draft", changes[1].OldValue)
	assert.Equal(t, "", changes[1].NewValue)
}

func TestComputeFieldChanges_DocumentFieldsFlagged(t *testing.T) {
	oldDoc := uuid.New()
	newDoc := uuid.New()
	changes := ComputeFieldChanges(
		map[string]interface{}{"documentId": &oldDoc, "notes": "x"},
		map[string]interface{}{"documentId": &newDoc, "notes": "y"},
		[]string{"documentId"},
	)
	require.Len(t, changes, 2)
	assert.True(t, changes[0].IsDocumentChange)
	assert.Equal(t, oldDoc.String(), changes[0].OldValue)
	assert.False(t, changes[1].IsDocumentChange)
}

func TestComputeFieldChanges_NoChanges(t *testing.T) {
	m := map[string]interface{}{"a": 1, "b": "x"}
	assert.Empty(t, ComputeFieldChanges(m, m, nil))
}

func TestSerializeFieldValue(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	assert.Equal(t, "", SerializeFieldValue(nil))
	assert.Equal(t, "", SerializeFieldValue((*time.Time)(nil)))
	assert.Equal(t, "", SerializeFieldValue((*uuid.UUID)(nil)))
	assert.Equal(t, "true", SerializeFieldValue(true))
	assert.Equal(t, "42", SerializeFieldValue(42))
	assert.Equal(t, "3.14", SerializeFieldValue(3.14))
	assert.Equal(t, "2024-03-01T12:30:00Z", SerializeFieldValue(ts))
	assert.Equal(t, "2024-03-01T12:30:00Z", SerializeFieldValue(&ts))
	assert.Equal(t, id.String(), SerializeFieldValue(id))
	assert.Equal(t, `["a","b"]`, SerializeFieldValue([]string{"a", "b"}))
}

func TestRecordUpdate_WritesTrackAndChangesTogether(t *testing.T) {
	repo := new(MockRepository)
	recorder := NewAuditRecorder()

	entityID := uuid.New()
	actorID := uuid.New()

	repo.On("CreateTrack", mock.Anything,
		mock.MatchedBy(func(track *models.ActivityTrack) bool {
			return track.ActionType == models.ActionTypeUpdate &&
				track.EntityID == entityID &&
				track.ActorID == actorID
		}),
		mock.MatchedBy(func(changes []models.FieldChange) bool {
			return len(changes) == 1 && changes[0].FieldName == "totalHours"
		}),
	).Return(nil)

	err := recorder.RecordUpdate(context.Background(), repo, ChangeRecordInput{
		TenantID: "tenant-1",
		Kind:     models.KindTimesheet,
		EntityID: entityID,
		ActorID:  actorID,
		Before:   map[string]interface{}{"totalHours": 40.0, "notes": "w"},
		After:    map[string]interface{}{"totalHours": 38.5, "notes": "w"},
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecordUpdate_NoChangesStillTracked(t *testing.T) {
	repo := new(MockRepository)
	recorder := NewAuditRecorder()

	repo.On("CreateTrack", mock.Anything, mock.Anything, mock.MatchedBy(func(changes []models.FieldChange) bool {
		return len(changes) == 0
	})).Return(nil)

	m := map[string]interface{}{"notes": "same"}
	err := recorder.RecordUpdate(context.Background(), repo, ChangeRecordInput{
		TenantID: "tenant-1",
		Kind:     models.KindTimesheet,
		EntityID: uuid.New(),
		ActorID:  uuid.New(),
		Before:   m,
		After:    m,
	})
	require.NoError(t, err)
}

func TestRecordCreate_TrackOnly(t *testing.T) {
	repo := new(MockRepository)
	recorder := NewAuditRecorder()

	repo.On("CreateTrack", mock.Anything, mock.MatchedBy(func(track *models.ActivityTrack) bool {
		return track.ActionType == models.ActionTypeCreate
	}), mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		changes := args.Get(2)
		assert.Nil(t, changes)
	})

	err := recorder.RecordCreate(context.Background(), repo, ChangeRecordInput{
		TenantID: "tenant-1",
		Kind:     models.KindExpense,
		EntityID: uuid.New(),
		ActorID:  uuid.New(),
	})
	require.NoError(t, err)
}

func TestRecordDelete_SnapshotsLabel(t *testing.T) {
	repo := new(MockRepository)
	recorder := NewAuditRecorder()

	repo.On("CreateTrack", mock.Anything, mock.MatchedBy(func(track *models.ActivityTrack) bool {
		return track.ActionType == models.ActionTypeDelete && track.EntityLabel == "Ledger INV-001"
	}), mock.Anything).Return(nil)

	err := recorder.RecordDelete(context.Background(), repo, ChangeRecordInput{
		TenantID:    "tenant-1",
		Kind:        models.KindLedger,
		EntityID:    uuid.New(),
		ActorID:     uuid.New(),
		EntityLabel: "Ledger INV-001",
	})
	require.NoError(t, err)
}

func TestRecordStatusTransition_FailureWrapsAuditError(t *testing.T) {
	repo := new(MockRepository)
	recorder := NewAuditRecorder()

	repo.On("CreateTrack", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	err := recorder.RecordStatusTransition(context.Background(), repo, ChangeRecordInput{
		TenantID: "tenant-1",
		Kind:     models.KindTimesheet,
		EntityID: uuid.New(),
		ActorID:  uuid.New(),
	}, models.StatusSubmitted, models.StatusApprovalInProgress)
	assert.ErrorIs(t, err, ErrAuditWriteFailed)
}
