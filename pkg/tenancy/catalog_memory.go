package tenancy

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// InMemoryCatalogStore is a CatalogStore backed by a guarded map. On every
// read and write it copies a TenantConfig's CoreConfig map and provider
// slice, so callers cannot mutate shared state through them, the same
// discipline feature.MemoryProvider uses for flags. Values nested inside
// those (a provider's Clients slice, CoreConfig values) are not copied.
type InMemoryCatalogStore struct {
	mu      sync.RWMutex
	tenants map[string]TenantConfig
}

// NewInMemoryCatalogStore creates a catalog store seeded with the default
// tenant, which always exists per the invariant in §3.
func NewInMemoryCatalogStore() *InMemoryCatalogStore {
	s := &InMemoryCatalogStore{
		tenants: make(map[string]TenantConfig),
	}
	def := DefaultTenantIdentifier()
	s.tenants[def.String()] = TenantConfig{
		Identifier: def,
		CoreConfig: CoreConfig{},
	}
	return s
}

func cloneTenantConfig(cfg TenantConfig) TenantConfig {
	out := cfg
	if cfg.CoreConfig != nil {
		out.CoreConfig = maps.Clone(cfg.CoreConfig)
	}
	if cfg.ThirdParty.Providers != nil {
		out.ThirdParty.Providers = slices.Clone(cfg.ThirdParty.Providers)
	}
	return out
}

// ListAllTenants returns a copy of every row in the catalog.
func (s *InMemoryCatalogStore) ListAllTenants(ctx context.Context) ([]TenantConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TenantConfig, 0, len(s.tenants))
	for _, cfg := range s.tenants {
		out = append(out, cloneTenantConfig(cfg))
	}
	return out, nil
}

// CreateTenant inserts cfg, failing with ErrDuplicateTenant on collision.
func (s *InMemoryCatalogStore) CreateTenant(ctx context.Context, cfg TenantConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cfg.Identifier.String()
	if _, exists := s.tenants[key]; exists {
		return ErrDuplicateTenant
	}
	s.tenants[key] = cloneTenantConfig(cfg)
	return nil
}

// OverwriteTenantConfig replaces an existing row, failing with
// ErrUnknownTenant if absent.
func (s *InMemoryCatalogStore) OverwriteTenantConfig(ctx context.Context, cfg TenantConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cfg.Identifier.String()
	if _, exists := s.tenants[key]; !exists {
		return ErrUnknownTenant
	}
	s.tenants[key] = cloneTenantConfig(cfg)
	return nil
}

// DeleteTenant removes a row, failing with ErrUnknownTenant if absent.
func (s *InMemoryCatalogStore) DeleteTenant(ctx context.Context, id TenantIdentifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := id.String()
	if _, exists := s.tenants[key]; !exists {
		return ErrUnknownTenant
	}
	delete(s.tenants, key)
	return nil
}

// MarkAppIDAsDeleted soft-deletes every tenant under the given app.
func (s *InMemoryCatalogStore) MarkAppIDAsDeleted(ctx context.Context, connectionURIDomain, appID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, cfg := range s.tenants {
		if cfg.Identifier.ConnectionURIDomain == connectionURIDomain && cfg.Identifier.AppID == appID {
			cfg.AppIDMarkedAsDeleted = true
			s.tenants[key] = cfg
		}
	}
	return nil
}

// MarkConnectionURIDomainAsDeleted soft-deletes every tenant under the
// given connection-URI-domain.
func (s *InMemoryCatalogStore) MarkConnectionURIDomainAsDeleted(ctx context.Context, connectionURIDomain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, cfg := range s.tenants {
		if cfg.Identifier.ConnectionURIDomain == connectionURIDomain {
			cfg.ConnectionURIDomainMarkedAsDeleted = true
			s.tenants[key] = cfg
		}
	}
	return nil
}

// InMemoryTenantStorage is a TenantStorage backed by guarded sets. It is
// used both by tests and as a lightweight single-process deployment
// option, the same role InMemoryCatalogStore plays for CatalogStore.
type InMemoryTenantStorage struct {
	mu sync.RWMutex

	// knownApps tracks which (connectionURIDomain, appID) pairs this
	// storage recognizes as hosting parents, so AddTenantIDInUserPool can
	// return ErrTenantOrAppNotFound for a deleted parent.
	knownApps map[string]bool
	members   map[string]bool
	users     map[uuid.UUID]bool
	roles     map[string]bool
}

// NewInMemoryTenantStorage creates an empty TenantStorage. While no app
// is registered, AddTenantIDInUserPool accepts every parent; once
// RegisterApp has been called, only registered apps are accepted.
func NewInMemoryTenantStorage() *InMemoryTenantStorage {
	return &InMemoryTenantStorage{
		knownApps: make(map[string]bool),
		members:   make(map[string]bool),
		users:     make(map[uuid.UUID]bool),
		roles:     make(map[string]bool),
	}
}

func appKey(connectionURIDomain, appID string) string {
	return connectionURIDomain + "|" + appID
}

// RegisterApp marks (connectionURIDomain, appID) as a known hierarchical
// parent, allowing AddTenantIDInUserPool to succeed for tenants under it.
func (s *InMemoryTenantStorage) RegisterApp(connectionURIDomain, appID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.knownApps[appKey(connectionURIDomain, appID)] = true
}

// ForgetApp removes (connectionURIDomain, appID) from the known parents,
// simulating a concurrent deletion of the hierarchical parent.
func (s *InMemoryTenantStorage) ForgetApp(connectionURIDomain, appID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.knownApps, appKey(connectionURIDomain, appID))
}

// RegisterUser marks a user ID as existing in this storage.
func (s *InMemoryTenantStorage) RegisterUser(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = true
}

// RegisterRole marks a role name as existing in this storage.
func (s *InMemoryTenantStorage) RegisterRole(role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[role] = true
}

func (s *InMemoryTenantStorage) AddTenantIDInUserPool(ctx context.Context, id TenantIdentifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.knownApps) > 0 && !s.knownApps[appKey(id.ConnectionURIDomain, id.AppID)] {
		return ErrTenantOrAppNotFound
	}
	s.members[id.String()] = true
	return nil
}

func (s *InMemoryTenantStorage) DeleteTenantIDInUserPool(ctx context.Context, id TenantIdentifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, id.String())
	return nil
}

func (s *InMemoryTenantStorage) AddUserIDToTenant(ctx context.Context, id TenantIdentifier, userID uuid.UUID) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.users[userID] {
		return ErrUnknownUserID
	}
	return nil
}

func (s *InMemoryTenantStorage) AddRoleToTenant(ctx context.Context, id TenantIdentifier, role string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.roles[role] {
		return ErrUnknownRole
	}
	return nil
}
