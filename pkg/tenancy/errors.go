package tenancy

import "errors"

// Catalog store errors.
var (
	// ErrDuplicateTenant is returned by CreateTenant when the identifier
	// already exists in the catalog.
	ErrDuplicateTenant = errors.New("tenancy: tenant already exists")

	// ErrUnknownTenant is returned when an operation references a tenant
	// identifier that is absent from the catalog.
	ErrUnknownTenant = errors.New("tenancy: unknown tenant")

	// ErrTenantOrAppNotFound is returned when a tenant-targeted storage
	// operation cannot find the hierarchical parent it needs (the app or
	// connection-URI-domain the tenant belongs to).
	ErrTenantOrAppNotFound = errors.New("tenancy: tenant or app not found")

	// ErrUnknownUserID is returned by AddUserIDToTenant when the user does
	// not exist in the hosting storage.
	ErrUnknownUserID = errors.New("tenancy: unknown user id")

	// ErrUnknownRole is returned by AddRoleToTenant when the role does not
	// exist in the hosting storage.
	ErrUnknownRole = errors.New("tenancy: unknown role")

	// ErrInvalidTenantConfig is returned by TenantConfig.Validate for
	// structurally invalid configs.
	ErrInvalidTenantConfig = errors.New("tenancy: invalid tenant config")
)

// Admin API errors.
var (
	// ErrCannotDeleteDefaultTenant is returned by DeleteTenant when asked
	// to delete the default tenant, which must always exist.
	ErrCannotDeleteDefaultTenant = errors.New("tenancy: cannot delete the default tenant")

	// ErrOperationRequiresDefaultTenant is returned by DeleteApp and
	// DeleteConnectionURIDomain when the caller's identifier does not have
	// its tenant (and, for the domain operation, app) component at the
	// default sentinel.
	ErrOperationRequiresDefaultTenant = errors.New("tenancy: operation requires the default tenant component")

	// ErrSameSourceAndTargetTenant is returned by AddUserIDToTenant and
	// AddRoleToTenant when the requested target tenant equals the source.
	ErrSameSourceAndTargetTenant = errors.New("tenancy: source and target tenant are identical")

	// ErrRetriesExhausted is returned by AddOrUpdate when the bounded
	// retry budget for recovering from a concurrent hierarchical deletion
	// is exhausted.
	ErrRetriesExhausted = errors.New("tenancy: addOrUpdate retries exhausted")
)

// Signing-key errors.
var (
	// ErrUnsupportedSigningAlgorithm is returned when a signing-key
	// manager is asked to operate with an algorithm it does not support.
	ErrUnsupportedSigningAlgorithm = errors.New("tenancy: unsupported signing algorithm")

	// ErrNoSigningKeys is returned when a signing-key manager has no keys
	// loaded yet (should not happen outside of construction races).
	ErrNoSigningKeys = errors.New("tenancy: no signing keys available")

	// ErrKeyDerivationFailed mirrors pkg/secrets.ErrKeyDerivationFailed
	// for the HKDF failures a SigningKeyManager can encounter.
	ErrKeyDerivationFailed = errors.New("tenancy: key derivation failed")
)

// Fleet/resolution errors.
var (
	// ErrTenantNotResolved is returned when a lookup against the resource
	// fleet finds no entry for the given identifier.
	ErrTenantNotResolved = errors.New("tenancy: tenant not resolved")
)
