package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
	"github.com/asifshaikgit/workforce-sub006/internal/repository"
)

// ErrAuditWriteFailed means the activity track or its field changes could
// not be persisted. Audit is a correctness requirement, not best-effort:
// this error must abort the triggering mutation's transaction.
var ErrAuditWriteFailed = errors.New("failed to record audit trail")

// AuditRecorder captures field-level change history for tracked entities.
// Recording methods take the repository explicitly so callers can pass
// their transaction-scoped repository and the track commits (or rolls
// back) together with the mutation it describes.
type AuditRecorder struct{}

// NewAuditRecorder creates a new AuditRecorder
func NewAuditRecorder() *AuditRecorder {
	return &AuditRecorder{}
}

// ChangeRecordInput describes one mutation event to capture.
type ChangeRecordInput struct {
	TenantID string
	Kind     models.EntityKind
	EntityID uuid.UUID
	ActorID  uuid.UUID
	// EntityLabel is a human-readable reference snapshotted onto delete
	// tracks, since the row becomes invisible to soft-delete filters.
	EntityLabel string
	Before      map[string]interface{}
	After       map[string]interface{}
	// DocumentFields names the attachment-slot fields; their changes are
	// flagged and carry identifiers, never content.
	DocumentFields []string
}

// RecordCreate writes the activity track for a create. No field changes
// are emitted; the created state is the entity itself.
func (a *AuditRecorder) RecordCreate(ctx context.Context, repo repository.Interface, in ChangeRecordInput) error {
	track := a.newTrack(in, models.ActionTypeCreate)
	if err := repo.CreateTrack(ctx, track, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrAuditWriteFailed, err)
	}
	return nil
}

// RecordUpdate diffs the before and after states and writes the track
// plus one FieldChange per differing field, atomically. An update that
// changed nothing still records the track with zero changes.
func (a *AuditRecorder) RecordUpdate(ctx context.Context, repo repository.Interface, in ChangeRecordInput) error {
	changes := ComputeFieldChanges(in.Before, in.After, in.DocumentFields)
	track := a.newTrack(in, models.ActionTypeUpdate)
	if err := repo.CreateTrack(ctx, track, changes); err != nil {
		return fmt.Errorf("%w: %v", ErrAuditWriteFailed, err)
	}
	return nil
}

// RecordDelete writes the activity track for a delete, snapshotting the
// entity label.
func (a *AuditRecorder) RecordDelete(ctx context.Context, repo repository.Interface, in ChangeRecordInput) error {
	track := a.newTrack(in, models.ActionTypeDelete)
	if err := repo.CreateTrack(ctx, track, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrAuditWriteFailed, err)
	}
	return nil
}

// RecordStatusTransition writes an approve-type track carrying the status
// move as a single field change, so "who advanced what when" is
// reconstructable from the trail alone.
func (a *AuditRecorder) RecordStatusTransition(ctx context.Context, repo repository.Interface, in ChangeRecordInput, oldStatus, newStatus string) error {
	track := a.newTrack(in, models.ActionTypeApprove)
	changes := []models.FieldChange{{
		FieldName: "status",
		OldValue:  oldStatus,
		NewValue:  newStatus,
	}}
	if err := repo.CreateTrack(ctx, track, changes); err != nil {
		return fmt.Errorf("%w: %v", ErrAuditWriteFailed, err)
	}
	return nil
}

// History returns the recorded activity of one entity, newest first.
func (a *AuditRecorder) History(ctx context.Context, repo repository.Interface, tenantID string, kind models.EntityKind, entityID uuid.UUID) ([]models.ActivityTrack, error) {
	return repo.ListTracks(ctx, tenantID, kind, entityID)
}

func (a *AuditRecorder) newTrack(in ChangeRecordInput, action models.ActionType) *models.ActivityTrack {
	return &models.ActivityTrack{
		TenantID:    in.TenantID,
		EntityKind:  in.Kind,
		EntityID:    in.EntityID,
		ActionType:  action,
		ActorID:     in.ActorID,
		EntityLabel: in.EntityLabel,
	}
}

// ComputeFieldChanges walks the union of field names in before and after
// and emits one change per field whose serialized values differ. Output
// is ordered by field name so recorded history is deterministic.
func ComputeFieldChanges(before, after map[string]interface{}, documentFields []string) []models.FieldChange {
	docs := make(map[string]bool, len(documentFields))
	for _, f := range documentFields {
		docs[f] = true
	}

	names := make(map[string]struct{}, len(before)+len(after))
	for k := range before {
		names[k] = struct{}{}
	}
	for k := range after {
		names[k] = struct{}{}
	}

	fields := make([]string, 0, len(names))
	for k := range names {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	var changes []models.FieldChange
	for _, field := range fields {
		oldValue := SerializeFieldValue(before[field])
		newValue := SerializeFieldValue(after[field])
		if oldValue == newValue {
			continue
		}
		changes = append(changes, models.FieldChange{
			FieldName:        field,
			OldValue:         oldValue,
			NewValue:         newValue,
			IsDocumentChange: docs[field],
		})
	}
	return changes
}

// SerializeFieldValue renders a field value as a stable scalar string.
// Nil (field absent or null) serializes to the empty string.
func SerializeFieldValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case time.Time:
		return value.UTC().Format(time.RFC3339)
	case *time.Time:
		if value == nil {
			return ""
		}
		return value.UTC().Format(time.RFC3339)
	case uuid.UUID:
		return value.String()
	case *uuid.UUID:
		if value == nil {
			return ""
		}
		return value.String()
	case fmt.Stringer:
		return value.String()
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(raw)
	}
}
