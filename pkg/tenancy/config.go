package tenancy

import (
	"strconv"
	"time"
)

// ThirdPartyClientConfig is one OAuth client registered under a third-party
// provider (e.g. a web and a mobile client for the same Google provider).
type ThirdPartyClientConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret,omitempty"`
	Scope        []string `json:"scope,omitempty"`
}

// ThirdPartyProviderConfig describes one third-party login provider enabled
// for a tenant. The control plane treats its contents as opaque data owned
// by the third-party recipe engine; it only needs to round-trip them.
type ThirdPartyProviderConfig struct {
	ThirdPartyID string                   `json:"third_party_id"`
	Name         string                   `json:"name"`
	Clients      []ThirdPartyClientConfig `json:"clients,omitempty"`
}

// EmailPasswordConfig is the recipe-enablement flag for the email/password
// recipe engine. The control plane never inspects its fields beyond
// Enabled; everything else is opaque to it.
type EmailPasswordConfig struct {
	Enabled bool `json:"enabled"`
}

// ThirdPartyConfig is the recipe-enablement flag and provider list for the
// third-party login recipe engine.
type ThirdPartyConfig struct {
	Enabled   bool                       `json:"enabled"`
	Providers []ThirdPartyProviderConfig `json:"providers,omitempty"`
}

// PasswordlessConfig is the recipe-enablement flag for the passwordless
// recipe engine.
type PasswordlessConfig struct {
	Enabled bool `json:"enabled"`
}

// CoreConfig is the structured, key/value configuration consumed by the
// per-tenant config loader. It is opaque to the control plane except for a
// handful of well-known keys read by the signing-key managers and the
// storage loader (see the Load* helpers below).
type CoreConfig map[string]any

// Well-known CoreConfig keys.
const (
	CoreConfigAccessTokenKeyInterval  = "access_token_signing_key_update_interval"
	CoreConfigRefreshTokenKeyInterval = "refresh_token_signing_key_update_interval"
	CoreConfigJWTSigningKeyInterval   = "jwt_signing_key_update_interval"
	CoreConfigUserPoolID              = "user_pool_id"
)

// DefaultSigningKeyUpdateInterval is used when a tenant's CoreConfig does
// not specify one of the three *_signing_key_update_interval keys. It
// matches the default tenant's rotation cadence, so any tenant that opts
// into a longer interval gets a proportionally later key expiry.
const DefaultSigningKeyUpdateInterval = 24 * time.Hour

// LoadSigningKeyInterval reads one of the three signing-key update interval
// keys from CoreConfig, falling back to DefaultSigningKeyUpdateInterval.
// The value is stored as a number of hours.
func (c CoreConfig) LoadSigningKeyInterval(key string) time.Duration {
	raw, ok := c[key]
	if !ok {
		return DefaultSigningKeyUpdateInterval
	}

	switch v := raw.(type) {
	case time.Duration:
		return v
	case int:
		return time.Duration(v) * time.Hour
	case int64:
		return time.Duration(v) * time.Hour
	case float64:
		return time.Duration(v) * time.Hour
	default:
		return DefaultSigningKeyUpdateInterval
	}
}

// UserPoolID reads the user-pool selector that routes the tenant to a
// physical database. Tenants without an explicit selector share the
// default user pool, keyed by the empty string.
func (c CoreConfig) UserPoolID() string {
	raw, ok := c[CoreConfigUserPoolID]
	if !ok {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}

// TenantConfig bundles a tenant's identity, its recipe-enablement
// configuration, and the two soft-delete markers inherited from its
// parents in the hierarchy.
type TenantConfig struct {
	Identifier   TenantIdentifier     `json:"identifier"`
	EmailPassword EmailPasswordConfig `json:"email_password"`
	ThirdParty    ThirdPartyConfig    `json:"third_party"`
	Passwordless  PasswordlessConfig  `json:"passwordless"`
	CoreConfig    CoreConfig          `json:"core_config"`

	AppIDMarkedAsDeleted               bool `json:"app_id_marked_as_deleted"`
	ConnectionURIDomainMarkedAsDeleted bool `json:"connection_uri_domain_marked_as_deleted"`
}

// Visible reports whether the tenant is visible, i.e. neither of its
// parent soft-delete flags is set.
func (c TenantConfig) Visible() bool {
	return !c.AppIDMarkedAsDeleted && !c.ConnectionURIDomainMarkedAsDeleted
}

// Validate performs structural validation of a TenantConfig before it is
// handed to the catalog store.
func (c TenantConfig) Validate() error {
	if c.Identifier.AppID == "" || c.Identifier.TenantID == "" {
		return ErrInvalidTenantConfig
	}
	return nil
}
