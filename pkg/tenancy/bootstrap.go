package tenancy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/saaskit/pkg/config"
	"github.com/dmitrymomot/saaskit/pkg/feature"
	"github.com/dmitrymomot/saaskit/pkg/pg"
)

// BootstrapConfig is the env-driven configuration for a control-plane
// process, loaded with pkg/config.Load the same way every other teacher
// package builds its Config from the environment.
type BootstrapConfig struct {
	Catalog pg.Config `envPrefix:"TENANCY_CATALOG_"`
}

// Bootstrap wires a PostgresCatalogStore, a ResourceFleet, a Reconciler
// and an AdminAPI from the environment: it loads BootstrapConfig,
// connects to and migrates the catalog database, then runs one
// synchronous reconcile so the fleet is populated before the caller
// serves traffic.
func Bootstrap(ctx context.Context, flags feature.Provider, storage TenantStorageResolver, opener StoragePoolOpener, logger *slog.Logger) (*AdminAPI, *ResourceFleet, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var cfg BootstrapConfig
	if err := config.Load(&cfg); err != nil {
		return nil, nil, fmt.Errorf("tenancy: load bootstrap config: %w", err)
	}
	cfg.Catalog.MigrationsPath = "pkg/tenancy/migrations"

	pool, err := pg.Connect(ctx, cfg.Catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("tenancy: connect to catalog database: %w", err)
	}

	if err := pg.Migrate(ctx, pool, cfg.Catalog, logger); err != nil {
		return nil, nil, fmt.Errorf("tenancy: migrate catalog database: %w", err)
	}

	catalog := NewPostgresCatalogStore(pool)
	fleet := NewResourceFleet()
	reconciler := NewReconciler(catalog, fleet,
		WithFeatureFlags(flags),
		WithLogger(logger),
		WithStoragePoolOpener(opener),
	)

	if err := reconciler.RefreshIfRequiredStrict(ctx); err != nil {
		return nil, nil, fmt.Errorf("tenancy: initial reconcile: %w", err)
	}

	admin := NewAdminAPI(catalog, storage, reconciler)
	return admin, fleet, nil
}
