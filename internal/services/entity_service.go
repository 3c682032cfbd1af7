package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
	"github.com/asifshaikgit/workforce-sub006/internal/repository"
)

// EntityService owns CRUD for approvable entities. Every mutation writes
// its audit track in the same transaction; an audit failure rolls the
// mutation back.
type EntityService struct {
	repo  repository.Interface
	audit *AuditRecorder
}

// NewEntityService creates a new EntityService
func NewEntityService(repo repository.Interface, audit *AuditRecorder) *EntityService {
	return &EntityService{repo: repo, audit: audit}
}

// Create persists a new entity in Drafted state and records the create
// track.
func (s *EntityService) Create(ctx context.Context, entity models.Approvable, actorID uuid.UUID) error {
	return s.repo.WithTransaction(ctx, func(txRepo repository.Interface) error {
		return s.CreateIn(ctx, txRepo, entity, actorID)
	})
}

// CreateIn is Create running against the caller's transaction scope, so a
// creation can commit or roll back together with the caller's other writes
// (the recurrence job pairs it with advancing the configuration).
func (s *EntityService) CreateIn(ctx context.Context, txRepo repository.Interface, entity models.Approvable, actorID uuid.UUID) error {
	entity.Approval().Status = models.StatusDrafted

	if err := txRepo.CreateEntity(ctx, entity); err != nil {
		return fmt.Errorf("failed to create %s: %w", entity.EntityKind(), err)
	}
	return s.audit.RecordCreate(ctx, txRepo, ChangeRecordInput{
		TenantID:    entity.EntityTenant(),
		Kind:        entity.EntityKind(),
		EntityID:    entity.EntityID(),
		ActorID:     actorID,
		EntityLabel: EntityLabel(entity),
	})
}

// Update saves edits to an entity and records the field-level diff. Edits
// are rejected while an approval cycle is in flight; the owner edits in
// Drafted or after rejection.
func (s *EntityService) Update(ctx context.Context, before, entity models.Approvable, actorID uuid.UUID) error {
	f := entity.Approval()
	if f.InFlight() {
		return ErrInvalidStateTransition
	}

	beforeMap := FieldMap(before)
	afterMap := FieldMap(entity)

	return s.repo.WithTransaction(ctx, func(txRepo repository.Interface) error {
		if err := txRepo.SaveEntity(ctx, entity); err != nil {
			return fmt.Errorf("failed to update %s: %w", entity.EntityKind(), err)
		}
		return s.audit.RecordUpdate(ctx, txRepo, ChangeRecordInput{
			TenantID:       entity.EntityTenant(),
			Kind:           entity.EntityKind(),
			EntityID:       entity.EntityID(),
			ActorID:        actorID,
			EntityLabel:    EntityLabel(entity),
			Before:         beforeMap,
			After:          afterMap,
			DocumentFields: DocumentFields(entity.EntityKind()),
		})
	})
}

// Delete soft-deletes an entity and records the delete track with the
// entity label snapshotted, since the row becomes invisible afterwards.
func (s *EntityService) Delete(ctx context.Context, kind models.EntityKind, entityID, actorID uuid.UUID) error {
	entity, err := s.repo.GetApprovable(ctx, kind, entityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntityNotFound
		}
		return err
	}
	if entity.Approval().InFlight() {
		return ErrInvalidStateTransition
	}

	return s.repo.WithTransaction(ctx, func(txRepo repository.Interface) error {
		if err := txRepo.SoftDeleteEntity(ctx, entity); err != nil {
			return fmt.Errorf("failed to delete %s: %w", kind, err)
		}
		return s.audit.RecordDelete(ctx, txRepo, ChangeRecordInput{
			TenantID:    entity.EntityTenant(),
			Kind:        kind,
			EntityID:    entityID,
			ActorID:     actorID,
			EntityLabel: EntityLabel(entity),
		})
	})
}

// Get loads one entity by kind and id.
func (s *EntityService) Get(ctx context.Context, kind models.EntityKind, entityID uuid.UUID) (models.Approvable, error) {
	entity, err := s.repo.GetApprovable(ctx, kind, entityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	return entity, nil
}

// History returns the entity's recorded activity, newest first.
func (s *EntityService) History(ctx context.Context, tenantID string, kind models.EntityKind, entityID uuid.UUID) ([]models.ActivityTrack, error) {
	return s.audit.History(ctx, s.repo, tenantID, kind, entityID)
}

// FieldMap flattens an entity's auditable business fields into the
// name/value map the audit diff works on. Workflow bookkeeping columns
// (version, cycle, resolved setting) are deliberately excluded; status
// moves get their own transition tracks.
func FieldMap(entity models.Approvable) map[string]interface{} {
	switch e := entity.(type) {
	case *models.Timesheet:
		return map[string]interface{}{
			"periodStart": e.PeriodStart,
			"periodEnd":   e.PeriodEnd,
			"totalHours":  e.TotalHours,
			"notes":       e.Notes,
			"clientId":    e.ClientID,
			"documentId":  e.DocumentID,
		}
	case *models.Ledger:
		return map[string]interface{}{
			"reference":  e.Reference,
			"issueDate":  e.IssueDate,
			"dueDate":    e.DueDate,
			"amount":     e.Amount,
			"currency":   e.Currency,
			"clientId":   e.ClientID,
			"documentId": e.DocumentID,
		}
	case *models.Expense:
		return map[string]interface{}{
			"incurredOn":  e.IncurredOn,
			"category":    e.Category,
			"amount":      e.Amount,
			"currency":    e.Currency,
			"description": e.Description,
			"clientId":    e.ClientID,
			"receiptId":   e.ReceiptID,
		}
	case *models.SelfServiceRequest:
		return map[string]interface{}{
			"requestType": e.RequestType,
			"subject":     e.Subject,
			"detail":      e.Detail,
		}
	default:
		return map[string]interface{}{}
	}
}

// DocumentFields names the attachment-slot fields per entity kind; their
// audit entries are flagged and carry identifiers, never file content.
func DocumentFields(kind models.EntityKind) []string {
	switch kind {
	case models.KindTimesheet, models.KindLedger:
		return []string{"documentId"}
	case models.KindExpense:
		return []string{"receiptId"}
	default:
		return nil
	}
}

// EntityLabel builds the human-readable reference snapshotted onto audit
// tracks.
func EntityLabel(entity models.Approvable) string {
	switch e := entity.(type) {
	case *models.Timesheet:
		return fmt.Sprintf("Timesheet %s - %s", e.PeriodStart.Format("2006-01-02"), e.PeriodEnd.Format("2006-01-02"))
	case *models.Ledger:
		return fmt.Sprintf("Ledger %s", e.Reference)
	case *models.Expense:
		return fmt.Sprintf("Expense %s %.2f %s", e.Category, e.Amount, e.Currency)
	case *models.SelfServiceRequest:
		return fmt.Sprintf("Request: %s", e.Subject)
	default:
		return string(entity.EntityKind())
	}
}
