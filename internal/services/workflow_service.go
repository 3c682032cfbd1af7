package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/asifshaikgit/workforce-sub006/internal/events"
	"github.com/asifshaikgit/workforce-sub006/internal/models"
	"github.com/asifshaikgit/workforce-sub006/internal/repository"
)

var (
	ErrEntityNotFound         = errors.New("record not found")
	ErrNotAuthorizedApprover  = errors.New("user is not an approver at the record's current level")
	ErrInvalidStateTransition = errors.New("action is not valid for the record's current state")
	ErrNotOwner               = errors.New("only the owning actor may perform this action")
)

// WorkflowService drives approvable entities through their lifecycle:
// Drafted -> Submitted -> ApprovalInProgress -> Approved | Rejected, with
// the Void branch for ledgers and Close/Reopen/Cancel for self-service
// requests. All transitions are serialized per entity by the optimistic
// version check on the workflow columns.
type WorkflowService struct {
	repo      repository.Interface
	resolver  *ConfigResolver
	audit     *AuditRecorder
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(repo repository.Interface, resolver *ConfigResolver, audit *AuditRecorder, publisher *events.Publisher, logger *logrus.Logger) *WorkflowService {
	if logger == nil {
		logger = logrus.New()
	}
	return &WorkflowService{
		repo:      repo,
		resolver:  resolver,
		audit:     audit,
		publisher: publisher,
		logger:    logger.WithField("component", "workflow"),
	}
}

// Submit moves an entity into its approval cycle. Valid from Drafted,
// from Rejected (resubmission) and from Reopened (self-service). The
// chain is resolved fresh on every submission — a chain edited between
// rejection and resubmission takes effect — and the resolved setting id
// is frozen onto the entity so edits made while the cycle is in flight do
// not alter its path.
func (s *WorkflowService) Submit(ctx context.Context, kind models.EntityKind, entityID, actorID uuid.UUID) (models.Approvable, error) {
	entity, err := s.getEntity(ctx, kind, entityID)
	if err != nil {
		return nil, err
	}

	if entity.EntityOwner() != actorID {
		return nil, ErrNotOwner
	}

	switch entity.Approval().Status {
	case models.StatusDrafted, models.StatusRejected, models.StatusReopened:
	default:
		return nil, ErrInvalidStateTransition
	}

	setting, err := s.resolver.Resolve(ctx, entity)
	if err != nil {
		return nil, err
	}

	var oldStatus string
	err = s.repo.WithTransaction(ctx, func(txRepo repository.Interface) error {
		txEntity, err := txRepo.GetApprovable(ctx, kind, entityID)
		if err != nil {
			return err
		}

		f := txEntity.Approval()
		oldStatus = f.Status
		switch f.Status {
		case models.StatusDrafted, models.StatusRejected, models.StatusReopened:
		default:
			return ErrInvalidStateTransition
		}

		now := time.Now().UTC()
		level := 1
		f.Status = models.StatusSubmitted
		f.CurrentApprovalLevel = &level
		f.ResolvedSettingID = &setting.ID
		f.SubmissionCycle++
		f.SubmittedOn = &now
		f.ApprovedOn = nil

		if err := txRepo.UpdateApprovalFields(ctx, txEntity); err != nil {
			return err
		}

		entity = txEntity
		return s.audit.RecordStatusTransition(ctx, txRepo, s.changeInput(txEntity, actorID), oldStatus, models.StatusSubmitted)
	})
	if err != nil {
		return nil, s.mapConflict(err)
	}

	s.publish(ctx, events.EntitySubmitted, entity, &actorID)
	return entity, nil
}

// Approve records one approval at the entity's current level. The acting
// user must be assigned at the level whose rank equals the current level
// of the frozen chain. Advancing past the last level transitions the
// entity to Approved.
func (s *WorkflowService) Approve(ctx context.Context, kind models.EntityKind, entityID, approverID uuid.UUID, comment string) (models.Approvable, error) {
	entity, err := s.getEntity(ctx, kind, entityID)
	if err != nil {
		return nil, err
	}
	if !entity.Approval().InFlight() {
		return nil, ErrInvalidStateTransition
	}

	setting, err := s.resolver.ResolveFrozen(ctx, entity)
	if err != nil {
		return nil, err
	}

	eventType := events.ApprovalAdvanced
	err = s.repo.WithTransaction(ctx, func(txRepo repository.Interface) error {
		txEntity, err := txRepo.GetApprovable(ctx, kind, entityID)
		if err != nil {
			return err
		}

		f := txEntity.Approval()
		if !f.InFlight() || f.CurrentApprovalLevel == nil {
			return ErrInvalidStateTransition
		}
		currentLevel := *f.CurrentApprovalLevel

		if err := s.checkApprover(ctx, txRepo, txEntity, setting, currentLevel, approverID); err != nil {
			return err
		}

		action := &models.ApprovalAction{
			TenantID:   txEntity.EntityTenant(),
			EntityKind: kind,
			EntityID:   entityID,
			Cycle:      f.SubmissionCycle,
			Level:      currentLevel,
			ApproverID: approverID,
			Action:     models.ActionApproved,
			Comment:    comment,
		}
		if err := txRepo.CreateAction(ctx, action); err != nil {
			return fmt.Errorf("failed to record decision: %w", err)
		}

		oldStatus := f.Status
		next := currentLevel + 1
		if next > setting.LevelCount {
			now := time.Now().UTC()
			f.Status = models.StatusApproved
			f.CurrentApprovalLevel = nil
			f.ApprovedOn = &now
			eventType = events.EntityApproved
		} else {
			f.Status = models.StatusApprovalInProgress
			f.CurrentApprovalLevel = &next
		}

		if err := txRepo.UpdateApprovalFields(ctx, txEntity); err != nil {
			return err
		}

		entity = txEntity
		return s.audit.RecordStatusTransition(ctx, txRepo, s.changeInput(txEntity, approverID), oldStatus, f.Status)
	})
	if err != nil {
		return nil, s.mapConflict(err)
	}

	s.publish(ctx, eventType, entity, &approverID)
	return entity, nil
}

// Reject terminates the current submission cycle. The owning actor may
// edit and resubmit afterwards; rejection history stays visible through
// the activity trail.
func (s *WorkflowService) Reject(ctx context.Context, kind models.EntityKind, entityID, approverID uuid.UUID, comment string) (models.Approvable, error) {
	entity, err := s.getEntity(ctx, kind, entityID)
	if err != nil {
		return nil, err
	}
	if !entity.Approval().InFlight() {
		return nil, ErrInvalidStateTransition
	}

	setting, err := s.resolver.ResolveFrozen(ctx, entity)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repository.Interface) error {
		txEntity, err := txRepo.GetApprovable(ctx, kind, entityID)
		if err != nil {
			return err
		}

		f := txEntity.Approval()
		if !f.InFlight() || f.CurrentApprovalLevel == nil {
			return ErrInvalidStateTransition
		}
		currentLevel := *f.CurrentApprovalLevel

		if err := s.checkApprover(ctx, txRepo, txEntity, setting, currentLevel, approverID); err != nil {
			return err
		}

		action := &models.ApprovalAction{
			TenantID:   txEntity.EntityTenant(),
			EntityKind: kind,
			EntityID:   entityID,
			Cycle:      f.SubmissionCycle,
			Level:      currentLevel,
			ApproverID: approverID,
			Action:     models.ActionRejected,
			Comment:    comment,
		}
		if err := txRepo.CreateAction(ctx, action); err != nil {
			return fmt.Errorf("failed to record decision: %w", err)
		}

		oldStatus := f.Status
		f.Status = models.StatusRejected
		f.CurrentApprovalLevel = nil

		if err := txRepo.UpdateApprovalFields(ctx, txEntity); err != nil {
			return err
		}

		entity = txEntity
		return s.audit.RecordStatusTransition(ctx, txRepo, s.changeInput(txEntity, approverID), oldStatus, models.StatusRejected)
	})
	if err != nil {
		return nil, s.mapConflict(err)
	}

	s.publish(ctx, events.EntityRejected, entity, &approverID)
	return entity, nil
}

// VoidLedger writes off an approved ledger. Reachable only from Approved
// and only for ledger-type entities; terminal.
func (s *WorkflowService) VoidLedger(ctx context.Context, entityID, actorID uuid.UUID, reason string) (*models.Ledger, error) {
	var ledger *models.Ledger

	err := s.repo.WithTransaction(ctx, func(txRepo repository.Interface) error {
		txEntity, err := txRepo.GetApprovable(ctx, models.KindLedger, entityID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrEntityNotFound
			}
			return err
		}
		l := txEntity.(*models.Ledger)

		f := l.Approval()
		if f.Status != models.StatusApproved {
			return ErrInvalidStateTransition
		}

		now := time.Now().UTC()
		oldStatus := f.Status
		f.Status = models.StatusVoid
		l.VoidReason = reason
		l.VoidedOn = &now

		if err := txRepo.UpdateApprovalFields(ctx, l); err != nil {
			return err
		}
		// Version was just bumped; writing the void columns in the same
		// transaction keeps the row consistent.
		if err := txRepo.SaveEntity(ctx, l); err != nil {
			return err
		}

		ledger = l
		return s.audit.RecordStatusTransition(ctx, txRepo, s.changeInput(l, actorID), oldStatus, models.StatusVoid)
	})
	if err != nil {
		return nil, s.mapConflict(err)
	}

	s.publish(ctx, events.EntityVoided, ledger, &actorID)
	return ledger, nil
}

// CloseRequest closes an approved self-service request once worked.
func (s *WorkflowService) CloseRequest(ctx context.Context, entityID, actorID uuid.UUID) (*models.SelfServiceRequest, error) {
	return s.selfServiceTransition(ctx, entityID, actorID, models.StatusApproved, models.StatusClosed)
}

// ReopenRequest reopens a closed self-service request; the owner may then
// resubmit it through a fresh approval cycle.
func (s *WorkflowService) ReopenRequest(ctx context.Context, entityID, actorID uuid.UUID) (*models.SelfServiceRequest, error) {
	return s.selfServiceTransition(ctx, entityID, actorID, models.StatusClosed, models.StatusReopened)
}

// CancelRequest cancels a closed self-service request; terminal.
func (s *WorkflowService) CancelRequest(ctx context.Context, entityID, actorID uuid.UUID) (*models.SelfServiceRequest, error) {
	return s.selfServiceTransition(ctx, entityID, actorID, models.StatusClosed, models.StatusCancelled)
}

func (s *WorkflowService) selfServiceTransition(ctx context.Context, entityID, actorID uuid.UUID, fromStatus, toStatus string) (*models.SelfServiceRequest, error) {
	var request *models.SelfServiceRequest

	err := s.repo.WithTransaction(ctx, func(txRepo repository.Interface) error {
		txEntity, err := txRepo.GetApprovable(ctx, models.KindSelfService, entityID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrEntityNotFound
			}
			return err
		}
		r := txEntity.(*models.SelfServiceRequest)

		f := r.Approval()
		if f.Status != fromStatus {
			return ErrInvalidStateTransition
		}

		now := time.Now().UTC()
		f.Status = toStatus
		switch toStatus {
		case models.StatusClosed:
			r.ClosedOn = &now
		case models.StatusReopened:
			r.ReopenedOn = &now
		}

		if err := txRepo.UpdateApprovalFields(ctx, r); err != nil {
			return err
		}
		if err := txRepo.SaveEntity(ctx, r); err != nil {
			return err
		}

		request = r
		return s.audit.RecordStatusTransition(ctx, txRepo, s.changeInput(r, actorID), fromStatus, toStatus)
	})
	if err != nil {
		return nil, s.mapConflict(err)
	}

	s.publish(ctx, events.EntityStatusChanged, request, &actorID)
	return request, nil
}

// GetEntity loads an approvable entity by kind and id.
func (s *WorkflowService) GetEntity(ctx context.Context, kind models.EntityKind, entityID uuid.UUID) (models.Approvable, error) {
	return s.getEntity(ctx, kind, entityID)
}

// Decisions returns the approve/reject actions of the entity's current
// submission cycle.
func (s *WorkflowService) Decisions(ctx context.Context, kind models.EntityKind, entityID uuid.UUID) ([]models.ApprovalAction, error) {
	entity, err := s.getEntity(ctx, kind, entityID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListActions(ctx, kind, entityID, entity.Approval().SubmissionCycle)
}

// --- helpers ---

// checkApprover enforces the authorization contract: the actor must be a
// listed approver at the level whose rank equals the current level, and
// must not already have approved within this cycle.
func (s *WorkflowService) checkApprover(ctx context.Context, txRepo repository.Interface, entity models.Approvable, setting *models.ApprovalSetting, currentLevel int, approverID uuid.UUID) error {
	f := entity.Approval()

	actions, err := txRepo.ListActions(ctx, entity.EntityKind(), entity.EntityID(), f.SubmissionCycle)
	if err != nil {
		return err
	}
	for _, a := range actions {
		if a.ApproverID == approverID && a.Action == models.ActionApproved {
			// Already acted in this cycle; approving twice is a state
			// error, not an authorization one.
			return ErrInvalidStateTransition
		}
	}

	level := setting.LevelAtRank(currentLevel)
	if level == nil {
		return fmt.Errorf("chain %s has no level at rank %d", setting.ID, currentLevel)
	}
	if !level.HasApprover(approverID) {
		return ErrNotAuthorizedApprover
	}
	return nil
}

func (s *WorkflowService) getEntity(ctx context.Context, kind models.EntityKind, entityID uuid.UUID) (models.Approvable, error) {
	entity, err := s.repo.GetApprovable(ctx, kind, entityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	return entity, nil
}

// mapConflict translates an optimistic-lock conflict into the transition
// error the caller expects: the losing side of a race observed a state
// that is no longer current.
func (s *WorkflowService) mapConflict(err error) error {
	if errors.Is(err, repository.ErrVersionConflict) {
		return ErrInvalidStateTransition
	}
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEntityNotFound
	}
	return err
}

func (s *WorkflowService) changeInput(entity models.Approvable, actorID uuid.UUID) ChangeRecordInput {
	return ChangeRecordInput{
		TenantID: entity.EntityTenant(),
		Kind:     entity.EntityKind(),
		EntityID: entity.EntityID(),
		ActorID:  actorID,
	}
}

func (s *WorkflowService) publish(ctx context.Context, eventType string, entity models.Approvable, actorID *uuid.UUID) {
	if s.publisher == nil || entity == nil {
		return
	}
	s.publisher.PublishEntityEvent(ctx, eventType, entity, actorID)
}
