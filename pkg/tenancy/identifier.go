package tenancy

import "strings"

// Default sentinel components of a TenantIdentifier. A nil/empty component
// supplied to NewTenantIdentifier normalizes to one of these.
const (
	DefaultConnectionURIDomain = ""
	DefaultAppID               = "public"
	DefaultTenantID            = "public"
)

// TenantIdentifier is the three-level hierarchy key of the multitenancy
// model: a connection-URI-domain owns apps, an app owns tenants. It is
// immutable and comparable by value.
type TenantIdentifier struct {
	ConnectionURIDomain string
	AppID               string
	TenantID            string
}

// NewTenantIdentifier builds a TenantIdentifier, normalizing empty strings
// to the default sentinel for each component.
func NewTenantIdentifier(connectionURIDomain, appID, tenantID string) TenantIdentifier {
	if appID == "" {
		appID = DefaultAppID
	}
	if tenantID == "" {
		tenantID = DefaultTenantID
	}
	return TenantIdentifier{
		ConnectionURIDomain: connectionURIDomain,
		AppID:               appID,
		TenantID:            tenantID,
	}
}

// DefaultTenantIdentifier is the identifier of the tenant that always
// exists and can never be soft-deleted.
func DefaultTenantIdentifier() TenantIdentifier {
	return NewTenantIdentifier(DefaultConnectionURIDomain, DefaultAppID, DefaultTenantID)
}

// IsDefaultConnectionURIDomain reports whether the identifier's domain
// component is the default sentinel.
func (id TenantIdentifier) IsDefaultConnectionURIDomain() bool {
	return id.ConnectionURIDomain == DefaultConnectionURIDomain
}

// IsDefaultApp reports whether the identifier's app component is the
// default sentinel.
func (id TenantIdentifier) IsDefaultApp() bool {
	return id.AppID == DefaultAppID
}

// IsDefaultTenant reports whether the identifier's tenant component is the
// default sentinel.
func (id TenantIdentifier) IsDefaultTenant() bool {
	return id.TenantID == DefaultTenantID
}

// IsDefault reports whether all three components are at their defaults.
func (id TenantIdentifier) IsDefault() bool {
	return id.IsDefaultConnectionURIDomain() && id.IsDefaultApp() && id.IsDefaultTenant()
}

// WithTenantID returns a copy of the identifier with the tenant component
// replaced, keeping the connection-URI-domain and app components.
func (id TenantIdentifier) WithTenantID(tenantID string) TenantIdentifier {
	return NewTenantIdentifier(id.ConnectionURIDomain, id.AppID, tenantID)
}

// SameAppAs reports whether id and other share the same connection-URI-domain
// and app, i.e. they would be routed to the same physical user-pool database.
func (id TenantIdentifier) SameAppAs(other TenantIdentifier) bool {
	return id.ConnectionURIDomain == other.ConnectionURIDomain && id.AppID == other.AppID
}

// String returns the stable tuple representation used as the fleet map key
// and as the catalog row's natural key.
func (id TenantIdentifier) String() string {
	var b strings.Builder
	b.WriteString(id.ConnectionURIDomain)
	b.WriteByte('|')
	b.WriteString(id.AppID)
	b.WriteByte('|')
	b.WriteString(id.TenantID)
	return b.String()
}
