package tenancy

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/saaskit/pkg/feature"
)

// MultiTenancyFlag is the feature-flag name gating steps 5a-d of the
// reconcile procedure. When disabled, only the default tenant's
// resources are loaded.
const MultiTenancyFlag = "MULTI_TENANCY"

// DriftCheck decides whether the fresh catalog snapshot differs enough
// from the current one to warrant reloading config/storage/keys/cron.
type DriftCheck func(current, fresh []TenantConfig) bool

// DriftCheckLegacy reproduces the source system's asymmetric comparison:
// changed iff the sizes differ, or some identifier in current is absent
// from fresh. A same-size swap (one tenant added, a different one
// removed) is NOT flagged as changed - this is an intentional,
// faithfully reproduced bug, see DESIGN.md and spec.md §9.
func DriftCheckLegacy(current, fresh []TenantConfig) bool {
	if len(current) != len(fresh) {
		return true
	}

	freshIDs := make(map[TenantIdentifier]struct{}, len(fresh))
	for _, cfg := range fresh {
		freshIDs[cfg.Identifier] = struct{}{}
	}

	for _, cfg := range current {
		if _, ok := freshIDs[cfg.Identifier]; !ok {
			return true
		}
	}
	return false
}

// DriftCheckSymmetricDifference is the corrected drift check spec.md §9
// recommends: changed iff the sets of identifiers differ in either
// direction, catching same-size swaps DriftCheckLegacy misses.
func DriftCheckSymmetricDifference(current, fresh []TenantConfig) bool {
	if len(current) != len(fresh) {
		return true
	}

	currentIDs := make(map[TenantIdentifier]struct{}, len(current))
	for _, cfg := range current {
		currentIDs[cfg.Identifier] = struct{}{}
	}

	freshIDs := make(map[TenantIdentifier]struct{}, len(fresh))
	for _, cfg := range fresh {
		freshIDs[cfg.Identifier] = struct{}{}
	}

	for id := range currentIDs {
		if _, ok := freshIDs[id]; !ok {
			return true
		}
	}
	for id := range freshIDs {
		if _, ok := currentIDs[id]; !ok {
			return true
		}
	}
	return false
}

// Reconciler detects catalog drift and reloads the ResourceFleet to
// match. It is the only component allowed to mutate fleet.tenantConfigs
// and fleet.resources.
type Reconciler struct {
	catalog CatalogStore
	fleet   *ResourceFleet

	flags      feature.Provider
	cron       CronNotifier
	logger     *slog.Logger
	keyFactory SigningKeyManagerFactory
	opener     StoragePoolOpener
	driftCheck DriftCheck
}

// ReconcilerOption configures a Reconciler, following the teacher's
// functional-options convention (pkg/session.Option, pkg/logger.Option).
type ReconcilerOption func(*Reconciler)

// WithFeatureFlags sets the feature-flag provider gating MULTI_TENANCY.
// If not set, multi-tenancy behaves as always-enabled.
func WithFeatureFlags(flags feature.Provider) ReconcilerOption {
	return func(r *Reconciler) { r.flags = flags }
}

// WithCronNotifier sets the cron hand-off target. If not set, the cron
// hand-off step is a no-op.
func WithCronNotifier(cron CronNotifier) ReconcilerOption {
	return func(r *Reconciler) { r.cron = cron }
}

// WithLogger sets the structured logger used to report (and swallow)
// subordinate loader errors. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) { r.logger = logger }
}

// WithSigningKeyManagerFactory overrides DefaultSigningKeyManagerFactory.
func WithSigningKeyManagerFactory(factory SigningKeyManagerFactory) ReconcilerOption {
	return func(r *Reconciler) { r.keyFactory = factory }
}

// WithStoragePoolOpener sets the opener used to materialize per-user-pool
// storage handles. If not set, loadStorage is a no-op and tenants never
// get a storage handle (suitable for tests and single-database
// deployments that resolve storage some other way).
func WithStoragePoolOpener(opener StoragePoolOpener) ReconcilerOption {
	return func(r *Reconciler) { r.opener = opener }
}

// WithDriftCheck overrides DriftCheckLegacy, the default. Pass
// DriftCheckSymmetricDifference to opt into the corrected behavior
// described in spec.md §9.
func WithDriftCheck(check DriftCheck) ReconcilerOption {
	return func(r *Reconciler) { r.driftCheck = check }
}

// NewReconciler builds a Reconciler over catalog and fleet.
func NewReconciler(catalog CatalogStore, fleet *ResourceFleet, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		catalog:    catalog,
		fleet:      fleet,
		logger:     slog.New(slog.NewTextHandler(os.Stderr, nil)),
		keyFactory: DefaultSigningKeyManagerFactory,
		driftCheck: DriftCheckLegacy,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func visibleTenants(all []TenantConfig) []TenantConfig {
	out := make([]TenantConfig, 0, len(all))
	for _, cfg := range all {
		if cfg.Visible() {
			out = append(out, cfg)
		}
	}
	return out
}

// RefreshIfRequired is the reconciler's single entry point. It logs and
// swallows any error from the subordinate loaders (config/storage/keys/
// cron); RefreshIfRequiredStrict returns them instead, for callers (the
// admin API) that must surface failures to their caller per spec.md §7.
func (r *Reconciler) RefreshIfRequired(ctx context.Context) error {
	if err := r.refresh(ctx); err != nil {
		r.logger.ErrorContext(ctx, "tenancy: reconcile step failed", "error", err)
	}
	return nil
}

// RefreshIfRequiredStrict behaves like RefreshIfRequired but propagates
// subordinate loader errors instead of swallowing them.
func (r *Reconciler) RefreshIfRequiredStrict(ctx context.Context) error {
	return r.refresh(ctx)
}

func (r *Reconciler) refresh(ctx context.Context) error {
	// Catalog read happens before acquiring the fleet lock to keep the
	// critical section short, per spec.md §4.4.
	all, err := r.catalog.ListAllTenants(ctx)
	if err != nil {
		return err
	}
	fresh := visibleTenants(all)

	r.fleet.mu.Lock()
	defer r.fleet.mu.Unlock()

	changed := r.driftCheck(r.fleet.tenantConfigs, fresh)
	r.fleet.tenantConfigs = fresh

	if !changed {
		return nil
	}

	multiTenancyOn, err := r.multiTenancyEnabled(ctx)
	if err != nil {
		return err
	}

	loadTargets := fresh
	if !multiTenancyOn {
		def := DefaultTenantIdentifier()
		loadTargets = nil
		for _, cfg := range fresh {
			if cfg.Identifier == def {
				loadTargets = append(loadTargets, cfg)
				break
			}
		}
	}

	if err := r.loadConfigs(ctx, loadTargets); err != nil {
		return err
	}
	if err := r.loadStorage(ctx, loadTargets); err != nil {
		return err
	}
	if err := r.loadSigningKeys(ctx, loadTargets); err != nil {
		return err
	}
	if err := r.notifyCron(ctx, loadTargets); err != nil {
		return err
	}

	r.pruneRemoved(loadTargets)
	return nil
}

func (r *Reconciler) multiTenancyEnabled(ctx context.Context) (bool, error) {
	if r.flags == nil {
		return true, nil
	}
	enabled, err := r.flags.IsEnabled(ctx, MultiTenancyFlag)
	if err != nil {
		if errors.Is(err, feature.ErrFlagNotFound) {
			// Fail closed: an undeclared flag behaves as disabled.
			return false, nil
		}
		return false, err
	}
	return enabled, nil
}

// loadConfigs materializes per-tenant config snapshots, reusing the
// pre-existing resource entry for identifiers unchanged between
// generations.
func (r *Reconciler) loadConfigs(ctx context.Context, targets []TenantConfig) error {
	for _, cfg := range targets {
		key := cfg.Identifier.String()
		res, exists := r.fleet.resources[key]
		if !exists {
			res = &tenantResources{}
			r.fleet.resources[key] = res
		}
		res.config = cfg
	}
	return nil
}

// loadStorage opens/closes physical connections so that one handle
// exists per distinct user pool, shared by identifier grouping.
func (r *Reconciler) loadStorage(ctx context.Context, targets []TenantConfig) error {
	if r.opener == nil {
		return nil
	}

	pools := make(map[string]*pgxpool.Pool)
	for _, cfg := range targets {
		poolID := cfg.CoreConfig.UserPoolID()
		pool, ok := pools[poolID]
		if !ok {
			var err error
			pool, err = r.opener(ctx, poolID)
			if err != nil {
				return err
			}
			pools[poolID] = pool
		}

		res := r.fleet.resources[cfg.Identifier.String()]
		res.pool = pool
	}
	return nil
}

// loadSigningKeys ensures a (access, refresh, jwt) triple exists per
// tenant, constructed with that tenant's configured update intervals.
// Managers of tenants no longer present are dropped by pruneRemoved.
func (r *Reconciler) loadSigningKeys(ctx context.Context, targets []TenantConfig) error {
	for _, cfg := range targets {
		key := cfg.Identifier.String()
		res := r.fleet.resources[key]
		if res.access != nil && res.refresh != nil && res.jwt != nil {
			continue
		}

		access, refresh, jwtMgr, err := r.keyFactory(cfg.Identifier, cfg)
		if err != nil {
			return err
		}
		res.access = access
		res.refresh = refresh
		res.jwt = jwtMgr
	}
	return nil
}

func (r *Reconciler) notifyCron(ctx context.Context, targets []TenantConfig) error {
	if r.cron == nil {
		return nil
	}
	ids := make([]TenantIdentifier, len(targets))
	for i, cfg := range targets {
		ids[i] = cfg.Identifier
	}
	return r.cron.SetTenantsInfo(ctx, ids)
}

// pruneRemoved destroys resources for identifiers no longer present
// among targets.
func (r *Reconciler) pruneRemoved(targets []TenantConfig) {
	keep := make(map[string]struct{}, len(targets))
	for _, cfg := range targets {
		keep[cfg.Identifier.String()] = struct{}{}
	}
	for key := range r.fleet.resources {
		if _, ok := keep[key]; !ok {
			delete(r.fleet.resources, key)
		}
	}
}
