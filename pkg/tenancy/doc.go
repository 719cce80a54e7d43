// Package tenancy implements the multitenancy control plane for the
// authentication core: a persisted catalog of tenant configurations
// reconciled against an in-memory fleet of per-tenant runtime resources
// (configuration, storage handles, signing-key managers).
//
// # Architecture
//
// The package is built from five cooperating pieces, leaves first:
//
//  1. TenantIdentifier / TenantConfig - value types and the catalog schema.
//  2. CatalogStore / TenantStorage - gateways over the shared catalog DB
//     and the per-tenant user-pool DB.
//  3. ResourceFleet - the in-memory registry of per-tenant resources,
//     exposing Resolve/VisibleIdentifiers/SigningKeyManagers.
//  4. Reconciler - detects catalog drift and reloads the fleet to match.
//  5. AdminAPI - create/update/delete tenant, app, connection URI domain,
//     and user/role attachment, orchestrating catalog writes with
//     recovery from partial failures.
//
// # Usage
//
//	store := tenancy.NewInMemoryCatalogStore()
//	fleet := tenancy.NewResourceFleet()
//	reconciler := tenancy.NewReconciler(store, fleet,
//		tenancy.WithFeatureFlags(flags),
//		tenancy.WithCronNotifier(cron),
//	)
//	admin := tenancy.NewAdminAPI(store, tenantStorageResolver, reconciler)
//
//	created, err := admin.AddOrUpdate(ctx, tenancy.TenantConfig{
//		Identifier: tenancy.NewTenantIdentifier("", "", "acme"),
//	})
//
// # Concurrency
//
// ResourceFleet reads take a snapshot under an RWMutex read lock;
// Reconciler.RefreshIfRequired holds the write lock for the full reload so
// observers never see a half-installed resource bundle. Admin operations
// never hold the fleet lock while talking to the catalog store.
package tenancy
