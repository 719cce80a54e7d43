package tenancy

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// tenantResources is the per-tenant resource bundle owned by the
// ResourceFleet: a config snapshot, a storage handle (possibly shared
// among tenants mapped to the same user pool), and the three signing-key
// managers.
type tenantResources struct {
	config  TenantConfig
	pool    *pgxpool.Pool
	access  SigningKeyManager
	refresh SigningKeyManager
	jwt     SigningKeyManager
}

// StoragePoolOpener opens (or returns an already-open) physical
// connection for the given user-pool selector. The fleet calls it at
// most once per distinct selector per reconcile generation; tenants
// sharing a selector share the returned pool.
type StoragePoolOpener func(ctx context.Context, userPoolID string) (*pgxpool.Pool, error)

// ResourceFleet is the in-memory registry of per-tenant runtime
// resources. It is safe for concurrent use: reads take a snapshot under
// a read lock, and Reconciler.RefreshIfRequired holds the write lock for
// the whole reload so observers never see a half-installed state.
type ResourceFleet struct {
	mu sync.RWMutex

	// tenantConfigs is the last snapshot observed as visible by the
	// reconciler. Replaced wholesale, never mutated in place.
	tenantConfigs []TenantConfig

	resources map[string]*tenantResources
}

// NewResourceFleet creates an empty fleet. Until the first successful
// reconcile, Resolve and VisibleIdentifiers report nothing.
func NewResourceFleet() *ResourceFleet {
	return &ResourceFleet{
		resources: make(map[string]*tenantResources),
	}
}

var (
	globalFleetOnce sync.Once
	globalFleet     *ResourceFleet
)

// GlobalFleet returns the process-wide ResourceFleet singleton,
// constructing it on first use. It plays the role spec.md describes as
// "registered against the default identifier in the process's resource
// distributor": Go's package-level singleton already is that
// distributor, so no separate registry type is needed.
func GlobalFleet() *ResourceFleet {
	globalFleetOnce.Do(func() {
		globalFleet = NewResourceFleet()
	})
	return globalFleet
}

// Resolve returns the TenantConfig for id from the last reconciled
// snapshot, or false if absent.
func (f *ResourceFleet) Resolve(id TenantIdentifier) (TenantConfig, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, cfg := range f.tenantConfigs {
		if cfg.Identifier == id {
			return cfg, true
		}
	}
	return TenantConfig{}, false
}

// ResolveOrDefault behaves like Resolve, but falls back to the default
// tenant's config when id is not (or no longer) present - matching how a
// tenant resolved from e.g. a subdomain that turns out to be unknown
// still needs an identity to operate under.
func (f *ResourceFleet) ResolveOrDefault(id TenantIdentifier) TenantConfig {
	if cfg, ok := f.Resolve(id); ok {
		return cfg
	}
	cfg, _ := f.Resolve(DefaultTenantIdentifier())
	return cfg
}

// SigningKeyManagersOrDefault behaves like SigningKeyManagers, but falls
// back to the default tenant's managers when id has none loaded.
func (f *ResourceFleet) SigningKeyManagersOrDefault(id TenantIdentifier) (access, refresh, jwtMgr SigningKeyManager) {
	access, refresh, jwtMgr, ok := f.SigningKeyManagers(id)
	if ok {
		return access, refresh, jwtMgr
	}
	access, refresh, jwtMgr, _ = f.SigningKeyManagers(DefaultTenantIdentifier())
	return access, refresh, jwtMgr
}

// VisibleIdentifiers returns every identifier in the current snapshot.
func (f *ResourceFleet) VisibleIdentifiers() []TenantIdentifier {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]TenantIdentifier, len(f.tenantConfigs))
	for i, cfg := range f.tenantConfigs {
		out[i] = cfg.Identifier
	}
	return out
}

// Snapshot returns a copy of the current visible tenant configs.
func (f *ResourceFleet) Snapshot() []TenantConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]TenantConfig, len(f.tenantConfigs))
	copy(out, f.tenantConfigs)
	return out
}

// SigningKeyManagers returns the three per-tenant key managers for id, or
// false if the fleet has not loaded resources for it.
func (f *ResourceFleet) SigningKeyManagers(id TenantIdentifier) (access, refresh, jwtMgr SigningKeyManager, ok bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	res, exists := f.resources[id.String()]
	if !exists {
		return nil, nil, nil, false
	}
	return res.access, res.refresh, res.jwt, true
}

// StorageHandle returns the *pgxpool.Pool backing id's user pool, or
// false if the fleet has not loaded resources for it.
func (f *ResourceFleet) StorageHandle(id TenantIdentifier) (*pgxpool.Pool, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	res, exists := f.resources[id.String()]
	if !exists || res.pool == nil {
		return nil, false
	}
	return res.pool, true
}

// resourceCount reports how many tenants currently have loaded
// resources.
func (f *ResourceFleet) resourceCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.resources)
}
