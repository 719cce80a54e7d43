package tenancy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// maxAddOrUpdateRetries bounds the number of times AddOrUpdate retries its
// user-pool write after a concurrent hierarchical deletion. The source
// system recovers by unbounded recursion; bounding it with linear backoff
// (pkg/pg.Connect's (i+1)*retryInterval pattern) turns a latent stack
// exhaustion bug into a plain error.
const maxAddOrUpdateRetries = 3

// addOrUpdateRetryInterval is the base backoff between user-pool write
// retries inside AddOrUpdate.
const addOrUpdateRetryInterval = 50 * time.Millisecond

// AdminAPI is the single write surface over the tenant catalog. Every
// method that writes to the catalog reconciles the ResourceFleet synchronously before
// returning, so a caller that observes success is guaranteed the fleet
// reflects the mutation.
type AdminAPI struct {
	catalog    CatalogStore
	storage    TenantStorageResolver
	reconciler *Reconciler
}

// NewAdminAPI builds an AdminAPI over catalog, storage and reconciler.
func NewAdminAPI(catalog CatalogStore, storage TenantStorageResolver, reconciler *Reconciler) *AdminAPI {
	return &AdminAPI{catalog: catalog, storage: storage, reconciler: reconciler}
}

// AddOrUpdate creates cfg's tenant if absent, or recovers an overwrite if
// it already exists, following up with a best-effort, bounded-retry
// user-pool write. createdNew reports whether this call inserted a new
// catalog row.
//
// A concurrent DeleteTenant can remove the row between the failed
// CreateTenant and the OverwriteTenantConfig recovery call (spec.md
// §4.5 step 3), which surfaces as ErrUnknownTenant from
// OverwriteTenantConfig; that retries the whole create-or-overwrite
// attempt, bounded the same way as the user-pool write below, instead
// of failing outright or recursing unboundedly.
func (a *AdminAPI) AddOrUpdate(ctx context.Context, cfg TenantConfig) (createdNew bool, err error) {
	if err := cfg.Validate(); err != nil {
		return false, err
	}

	for i := 0; i < maxAddOrUpdateRetries; i++ {
		createdNew, err = a.createOrOverwriteTenant(ctx, cfg)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrUnknownTenant) {
			return false, err
		}
		if i == maxAddOrUpdateRetries-1 {
			return false, fmt.Errorf("%w: %v", ErrRetriesExhausted, err)
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(time.Duration(i+1) * addOrUpdateRetryInterval):
		}
	}

	if err := a.reconciler.RefreshIfRequiredStrict(ctx); err != nil {
		return createdNew, fmt.Errorf("tenancy: reconcile during addOrUpdate: %w", err)
	}

	if err := a.addTenantIDInUserPoolWithRetry(ctx, cfg.Identifier); err != nil {
		return createdNew, err
	}

	return createdNew, nil
}

// createOrOverwriteTenant performs one create-or-recover-by-overwrite
// attempt. It returns ErrUnknownTenant when the overwrite recovery
// itself lost a race against a concurrent delete, signalling to
// AddOrUpdate's caller that the whole attempt should be retried.
func (a *AdminAPI) createOrOverwriteTenant(ctx context.Context, cfg TenantConfig) (createdNew bool, err error) {
	err = a.catalog.CreateTenant(ctx, cfg)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrDuplicateTenant):
		if err := a.catalog.OverwriteTenantConfig(ctx, cfg); err != nil {
			// A second DuplicateTenantError racing the overwrite means
			// someone else already wrote the row we were about to
			// write; treat that as success.
			if errors.Is(err, ErrDuplicateTenant) {
				return false, nil
			}
			if errors.Is(err, ErrUnknownTenant) {
				return false, err
			}
			return false, fmt.Errorf("tenancy: overwrite during addOrUpdate recovery: %w", err)
		}
		return false, nil
	default:
		return false, fmt.Errorf("tenancy: create during addOrUpdate: %w", err)
	}
}

// addTenantIDInUserPoolWithRetry repairs a concurrent deletion of the
// tenant's parent app/domain by retrying the user-pool write a bounded
// number of times with linear backoff, instead of recursing unboundedly.
func (a *AdminAPI) addTenantIDInUserPoolWithRetry(ctx context.Context, id TenantIdentifier) error {
	var lastErr error
	for i := 0; i < maxAddOrUpdateRetries; i++ {
		store, err := a.storage(id)
		if err != nil {
			return fmt.Errorf("tenancy: resolve tenant storage: %w", err)
		}

		lastErr = store.AddTenantIDInUserPool(ctx, id)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, ErrTenantOrAppNotFound) {
			return fmt.Errorf("tenancy: add tenant to user pool: %w", lastErr)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * addOrUpdateRetryInterval):
		}
	}
	return fmt.Errorf("%w: %v", ErrRetriesExhausted, lastErr)
}

// DeleteTenant removes id from the catalog and reconciles. The default
// tenant can never be deleted.
func (a *AdminAPI) DeleteTenant(ctx context.Context, id TenantIdentifier) error {
	if id.IsDefaultTenant() {
		return ErrCannotDeleteDefaultTenant
	}

	if store, err := a.storage(id); err == nil {
		if err := store.DeleteTenantIDInUserPool(ctx, id); err != nil &&
			!errors.Is(err, ErrUnknownTenant) && !errors.Is(err, ErrTenantOrAppNotFound) {
			return fmt.Errorf("tenancy: delete tenant from user pool: %w", err)
		}
	}

	if err := a.catalog.DeleteTenant(ctx, id); err != nil {
		return fmt.Errorf("tenancy: delete tenant from catalog: %w", err)
	}

	if err := a.reconciler.RefreshIfRequiredStrict(ctx); err != nil {
		return fmt.Errorf("tenancy: reconcile after delete tenant: %w", err)
	}
	return nil
}

// DeleteApp soft-deletes every tenant under id's app. Physical cleanup is
// left to a janitor cron, out of scope here.
func (a *AdminAPI) DeleteApp(ctx context.Context, id TenantIdentifier) error {
	if !id.IsDefaultTenant() {
		return ErrOperationRequiresDefaultTenant
	}

	if err := a.catalog.MarkAppIDAsDeleted(ctx, id.ConnectionURIDomain, id.AppID); err != nil {
		return fmt.Errorf("tenancy: mark app deleted: %w", err)
	}

	if err := a.reconciler.RefreshIfRequiredStrict(ctx); err != nil {
		return fmt.Errorf("tenancy: reconcile after delete app: %w", err)
	}
	return nil
}

// DeleteConnectionURIDomain soft-deletes every tenant under id's
// connection-URI-domain. Physical cleanup is left to a janitor cron.
func (a *AdminAPI) DeleteConnectionURIDomain(ctx context.Context, id TenantIdentifier) error {
	if !id.IsDefaultApp() || !id.IsDefaultTenant() {
		return ErrOperationRequiresDefaultTenant
	}

	if err := a.catalog.MarkConnectionURIDomainAsDeleted(ctx, id.ConnectionURIDomain); err != nil {
		return fmt.Errorf("tenancy: mark connection uri domain deleted: %w", err)
	}

	if err := a.reconciler.RefreshIfRequiredStrict(ctx); err != nil {
		return fmt.Errorf("tenancy: reconcile after delete connection uri domain: %w", err)
	}
	return nil
}

// AddUserIDToTenant associates userID, already known to source's hosting
// storage, with newTenantID under the same app/domain as source.
func (a *AdminAPI) AddUserIDToTenant(ctx context.Context, source TenantIdentifier, userID uuid.UUID, newTenantID string) error {
	if newTenantID == source.TenantID {
		return ErrSameSourceAndTargetTenant
	}

	store, err := a.storage(source)
	if err != nil {
		return fmt.Errorf("tenancy: resolve tenant storage: %w", err)
	}

	target := source.WithTenantID(newTenantID)
	if err := store.AddUserIDToTenant(ctx, target, userID); err != nil {
		return fmt.Errorf("tenancy: add user to tenant: %w", err)
	}
	return nil
}

// AddRoleToTenant associates role, already known to source's hosting
// storage, with newTenantID under the same app/domain as source.
func (a *AdminAPI) AddRoleToTenant(ctx context.Context, source TenantIdentifier, role string, newTenantID string) error {
	if newTenantID == source.TenantID {
		return ErrSameSourceAndTargetTenant
	}

	store, err := a.storage(source)
	if err != nil {
		return fmt.Errorf("tenancy: resolve tenant storage: %w", err)
	}

	target := source.WithTenantID(newTenantID)
	if err := store.AddRoleToTenant(ctx, target, role); err != nil {
		return fmt.Errorf("tenancy: add role to tenant: %w", err)
	}
	return nil
}

// GetTenantInfo reconciles, then returns id's config, or false if absent
// or not visible.
func (a *AdminAPI) GetTenantInfo(ctx context.Context, id TenantIdentifier) (TenantConfig, bool, error) {
	if err := a.reconciler.RefreshIfRequiredStrict(ctx); err != nil {
		return TenantConfig{}, false, fmt.Errorf("tenancy: reconcile during getTenantInfo: %w", err)
	}
	cfg, ok := a.reconciler.fleet.Resolve(id)
	return cfg, ok, nil
}

// GetAllTenantsForApp reconciles, then returns every visible tenant
// sharing id's app. id's tenant component must be the default tenant.
func (a *AdminAPI) GetAllTenantsForApp(ctx context.Context, id TenantIdentifier) ([]TenantConfig, error) {
	if !id.IsDefaultTenant() {
		return nil, ErrOperationRequiresDefaultTenant
	}
	if err := a.reconciler.RefreshIfRequiredStrict(ctx); err != nil {
		return nil, fmt.Errorf("tenancy: reconcile during getAllTenantsForApp: %w", err)
	}

	out := make([]TenantConfig, 0)
	for _, cfg := range a.reconciler.fleet.Snapshot() {
		if cfg.Identifier.SameAppAs(id) {
			out = append(out, cfg)
		}
	}
	return out, nil
}

// GetAllTenantsForConnectionURIDomain reconciles, then returns every
// visible tenant sharing id's connection-URI-domain. id's app and tenant
// components must both be at their defaults.
func (a *AdminAPI) GetAllTenantsForConnectionURIDomain(ctx context.Context, id TenantIdentifier) ([]TenantConfig, error) {
	if !id.IsDefaultApp() || !id.IsDefaultTenant() {
		return nil, ErrOperationRequiresDefaultTenant
	}
	if err := a.reconciler.RefreshIfRequiredStrict(ctx); err != nil {
		return nil, fmt.Errorf("tenancy: reconcile during getAllTenantsForConnectionURIDomain: %w", err)
	}

	out := make([]TenantConfig, 0)
	for _, cfg := range a.reconciler.fleet.Snapshot() {
		if cfg.Identifier.ConnectionURIDomain == id.ConnectionURIDomain {
			out = append(out, cfg)
		}
	}
	return out, nil
}

// GetAllTenants reconciles, then returns the full visible snapshot. id
// must be the default identifier in all three components.
func (a *AdminAPI) GetAllTenants(ctx context.Context, id TenantIdentifier) ([]TenantConfig, error) {
	if !id.IsDefault() {
		return nil, ErrOperationRequiresDefaultTenant
	}
	if err := a.reconciler.RefreshIfRequiredStrict(ctx); err != nil {
		return nil, fmt.Errorf("tenancy: reconcile during getAllTenants: %w", err)
	}
	return a.reconciler.fleet.Snapshot(), nil
}
