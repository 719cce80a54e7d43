package tenancy

import (
	"context"
	"net/http"

	svctenant "github.com/dmitrymomot/saaskit/svc/tenant"
)

// RequestResolver extracts a raw tenant-id component from an incoming
// request. It is the svc/tenant.Resolver shape: an empty string means "no
// tenant signal present", not an error.
type RequestResolver = svctenant.Resolver

// contextKey scopes tenancy's context value away from svc/tenant's own
// contextKey{} (an identical but unexported type in a different package,
// so the two never collide on the same context).
type contextKey struct{}

// WithTenantConfig stores cfg on ctx for downstream handlers.
func WithTenantConfig(ctx context.Context, cfg TenantConfig) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// TenantConfigFromContext retrieves the TenantConfig installed by Middleware.
func TenantConfigFromContext(ctx context.Context) (TenantConfig, bool) {
	cfg, ok := ctx.Value(contextKey{}).(TenantConfig)
	return cfg, ok
}

// Middleware resolves the tenant component of a request's identifier via
// resolve, builds a TenantIdentifier fixed at the default connection-URI
// domain and app, and installs the matching TenantConfig (falling back to
// the default tenant's config for an unknown or absent tenant component)
// into the request context before calling next.
//
// It reuses svc/tenant's subdomain/header/path extraction mechanics for the
// raw tenant-id component, but resolves the rest of the identifier triple
// and the resulting resources against fleet - svc/tenant's own Tenant model
// is for a different, single-tenant-per-request domain and is not used
// here.
func Middleware(fleet *ResourceFleet, resolve RequestResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, err := resolve(r)
			if err != nil {
				http.Error(w, "invalid tenant identifier", http.StatusBadRequest)
				return
			}
			id := NewTenantIdentifier(DefaultConnectionURIDomain, DefaultAppID, tenantID)
			cfg := fleet.ResolveOrDefault(id)
			next.ServeHTTP(w, r.WithContext(WithTenantConfig(r.Context(), cfg)))
		})
	}
}
