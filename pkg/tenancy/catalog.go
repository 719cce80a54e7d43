package tenancy

import (
	"context"

	"github.com/google/uuid"
)

// CatalogStore is the gateway to the shared (not tenant-scoped) database
// that stores every tenant's configuration row, including soft-deleted
// ones. All operations are synchronous and transactional only within this
// one store; cross-store atomicity with TenantStorage is not provided.
type CatalogStore interface {
	// ListAllTenants returns every row in the catalog, including rows
	// whose app or connection-URI-domain is marked as deleted.
	ListAllTenants(ctx context.Context) ([]TenantConfig, error)

	// CreateTenant inserts a new row. Returns ErrDuplicateTenant if the
	// identifier already exists.
	CreateTenant(ctx context.Context, cfg TenantConfig) error

	// OverwriteTenantConfig replaces an existing row. Returns
	// ErrUnknownTenant if the identifier is absent.
	OverwriteTenantConfig(ctx context.Context, cfg TenantConfig) error

	// DeleteTenant removes a row. Returns ErrUnknownTenant if absent.
	DeleteTenant(ctx context.Context, id TenantIdentifier) error

	// MarkAppIDAsDeleted soft-deletes every tenant under the given app.
	// Idempotent.
	MarkAppIDAsDeleted(ctx context.Context, connectionURIDomain, appID string) error

	// MarkConnectionURIDomainAsDeleted soft-deletes every tenant under
	// the given connection-URI-domain. Idempotent.
	MarkConnectionURIDomainAsDeleted(ctx context.Context, connectionURIDomain string) error
}

// TenantStorage is the gateway to the physical database hosting a
// tenant's user pool. Unlike CatalogStore, it is tenant-targeted: which
// instance of TenantStorage to use for a given identifier is a routing
// decision made by the caller (typically AdminAPI), based on the
// identifier's user-pool selector.
type TenantStorage interface {
	// AddTenantIDInUserPool records membership of a tenant inside the
	// physical DB that hosts its user pool. Returns
	// ErrTenantOrAppNotFound if the hosting DB no longer recognizes the
	// parent app/connection-URI-domain.
	AddTenantIDInUserPool(ctx context.Context, id TenantIdentifier) error

	// DeleteTenantIDInUserPool removes the membership record.
	DeleteTenantIDInUserPool(ctx context.Context, id TenantIdentifier) error

	// AddUserIDToTenant associates an existing user with a tenant.
	// Returns ErrUnknownUserID if the user does not exist in this
	// storage.
	AddUserIDToTenant(ctx context.Context, id TenantIdentifier, userID uuid.UUID) error

	// AddRoleToTenant associates an existing role with a tenant. Returns
	// ErrUnknownRole if the role does not exist in this storage.
	AddRoleToTenant(ctx context.Context, id TenantIdentifier, role string) error
}

// TenantStorageResolver routes a TenantIdentifier to the TenantStorage
// instance hosting its user pool. Implementations typically key off
// CoreConfig.UserPoolID(); the default one-pool-per-process deployment can
// ignore the identifier entirely and always return the same instance.
type TenantStorageResolver func(id TenantIdentifier) (TenantStorage, error)
