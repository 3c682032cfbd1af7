package services

import (
	"context"
	"errors"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
	"github.com/asifshaikgit/workforce-sub006/internal/repository"
)

// ErrNoApplicableChain means no chain resolved for an entity at any scope.
// This is a configuration-integrity failure (the global default was never
// seeded, or was soft-deleted), not a user input error; callers should
// alert, not retry.
var ErrNoApplicableChain = errors.New("no applicable approval chain configured")

// ConfigResolver determines which ApprovalSetting governs an approvable
// entity. Read-only; the freeze-on-submit copy onto the entity is the
// state machine's job.
type ConfigResolver struct {
	repo repository.Interface
}

// NewConfigResolver creates a new ConfigResolver
func NewConfigResolver(repo repository.Interface) *ConfigResolver {
	return &ConfigResolver{repo: repo}
}

// Resolve walks the precedence chain, first match wins:
//  1. record-custom: the entity carries an explicit setting override
//  2. client: the owning client has an override for this module
//  3. global: the tenant's module default
//
// A soft-deleted custom or client setting falls through to the next scope;
// a missing or soft-deleted global default is ErrNoApplicableChain.
func (r *ConfigResolver) Resolve(ctx context.Context, entity models.Approvable) (*models.ApprovalSetting, error) {
	tenantID := entity.EntityTenant()
	module := models.ModuleFor(entity.EntityKind())

	if customID := entity.CustomSettingID(); customID != nil {
		setting, err := r.repo.GetSettingByID(ctx, *customID)
		if err == nil {
			return setting, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	if clientID := entity.EntityClient(); clientID != nil {
		setting, err := r.repo.GetClientSetting(ctx, tenantID, module, *clientID)
		if err == nil {
			return setting, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	setting, err := r.repo.GetGlobalSetting(ctx, tenantID, module)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoApplicableChain
		}
		return nil, err
	}
	return setting, nil
}

// ResolveFrozen loads the chain an in-flight entity was bound to at
// submission time. Soft deletion of the setting does not break the frozen
// path.
func (r *ConfigResolver) ResolveFrozen(ctx context.Context, entity models.Approvable) (*models.ApprovalSetting, error) {
	f := entity.Approval()
	if f.ResolvedSettingID == nil {
		return nil, ErrNoApplicableChain
	}
	setting, err := r.repo.GetSettingAnyState(ctx, *f.ResolvedSettingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoApplicableChain
		}
		return nil, err
	}
	return setting, nil
}

// VerifyGlobalDefaults confirms every module has a live global chain for
// the tenant. Run at startup so a missing default fails the deploy instead
// of the first submission.
func (r *ConfigResolver) VerifyGlobalDefaults(ctx context.Context, tenantID string) error {
	for _, module := range models.Modules {
		if _, err := r.repo.GetGlobalSetting(ctx, tenantID, module); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNoApplicableChain
			}
			return err
		}
	}
	return nil
}
