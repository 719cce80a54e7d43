package tenancy

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint
// violation, the same constant pkg/pg.IsDuplicateKeyError checks.
const uniqueViolation = "23505"

// PostgresCatalogStore is a CatalogStore backed by a pgx/v5 connection
// pool. Schema is managed by the goose migration in the
// pkg/tenancy/migrations directory, which Bootstrap applies through
// pkg/pg.Migrate like every other saaskit migration set.
type PostgresCatalogStore struct {
	pool *pgxpool.Pool
}

// NewPostgresCatalogStore wraps an already-connected pool (typically
// produced by pkg/pg.Connect) as a CatalogStore.
func NewPostgresCatalogStore(pool *pgxpool.Pool) *PostgresCatalogStore {
	return &PostgresCatalogStore{pool: pool}
}

func (s *PostgresCatalogStore) ListAllTenants(ctx context.Context) ([]TenantConfig, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT connection_uri_domain, app_id, tenant_id,
		       email_password_enabled, third_party_enabled, third_party_providers,
		       passwordless_enabled, core_config,
		       app_id_marked_as_deleted, connection_uri_domain_marked_as_deleted
		FROM tenant_configs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TenantConfig
	for rows.Next() {
		cfg, err := scanTenantConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}

func scanTenantConfig(row pgx.Row) (TenantConfig, error) {
	var cfg TenantConfig
	var providersJSON, coreConfigJSON []byte

	err := row.Scan(
		&cfg.Identifier.ConnectionURIDomain, &cfg.Identifier.AppID, &cfg.Identifier.TenantID,
		&cfg.EmailPassword.Enabled, &cfg.ThirdParty.Enabled, &providersJSON,
		&cfg.Passwordless.Enabled, &coreConfigJSON,
		&cfg.AppIDMarkedAsDeleted, &cfg.ConnectionURIDomainMarkedAsDeleted,
	)
	if err != nil {
		return TenantConfig{}, err
	}

	if err := json.Unmarshal(providersJSON, &cfg.ThirdParty.Providers); err != nil {
		return TenantConfig{}, err
	}
	if err := json.Unmarshal(coreConfigJSON, &cfg.CoreConfig); err != nil {
		return TenantConfig{}, err
	}
	return cfg, nil
}

func (s *PostgresCatalogStore) CreateTenant(ctx context.Context, cfg TenantConfig) error {
	providersJSON, err := json.Marshal(cfg.ThirdParty.Providers)
	if err != nil {
		return err
	}
	coreConfigJSON, err := json.Marshal(cfg.CoreConfig)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO tenant_configs (
			connection_uri_domain, app_id, tenant_id,
			email_password_enabled, third_party_enabled, third_party_providers,
			passwordless_enabled, core_config,
			app_id_marked_as_deleted, connection_uri_domain_marked_as_deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		cfg.Identifier.ConnectionURIDomain, cfg.Identifier.AppID, cfg.Identifier.TenantID,
		cfg.EmailPassword.Enabled, cfg.ThirdParty.Enabled, providersJSON,
		cfg.Passwordless.Enabled, coreConfigJSON,
		cfg.AppIDMarkedAsDeleted, cfg.ConnectionURIDomainMarkedAsDeleted,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateTenant
	}
	return err
}

func (s *PostgresCatalogStore) OverwriteTenantConfig(ctx context.Context, cfg TenantConfig) error {
	providersJSON, err := json.Marshal(cfg.ThirdParty.Providers)
	if err != nil {
		return err
	}
	coreConfigJSON, err := json.Marshal(cfg.CoreConfig)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE tenant_configs SET
			email_password_enabled = $4,
			third_party_enabled = $5,
			third_party_providers = $6,
			passwordless_enabled = $7,
			core_config = $8,
			app_id_marked_as_deleted = $9,
			connection_uri_domain_marked_as_deleted = $10
		WHERE connection_uri_domain = $1 AND app_id = $2 AND tenant_id = $3`,
		cfg.Identifier.ConnectionURIDomain, cfg.Identifier.AppID, cfg.Identifier.TenantID,
		cfg.EmailPassword.Enabled, cfg.ThirdParty.Enabled, providersJSON,
		cfg.Passwordless.Enabled, coreConfigJSON,
		cfg.AppIDMarkedAsDeleted, cfg.ConnectionURIDomainMarkedAsDeleted,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUnknownTenant
	}
	return nil
}

func (s *PostgresCatalogStore) DeleteTenant(ctx context.Context, id TenantIdentifier) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM tenant_configs
		WHERE connection_uri_domain = $1 AND app_id = $2 AND tenant_id = $3`,
		id.ConnectionURIDomain, id.AppID, id.TenantID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUnknownTenant
	}
	return nil
}

func (s *PostgresCatalogStore) MarkAppIDAsDeleted(ctx context.Context, connectionURIDomain, appID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE tenant_configs SET app_id_marked_as_deleted = TRUE
		WHERE connection_uri_domain = $1 AND app_id = $2`,
		connectionURIDomain, appID,
	)
	return err
}

func (s *PostgresCatalogStore) MarkConnectionURIDomainAsDeleted(ctx context.Context, connectionURIDomain string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE tenant_configs SET connection_uri_domain_marked_as_deleted = TRUE
		WHERE connection_uri_domain = $1`,
		connectionURIDomain,
	)
	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// PostgresTenantStorage is a TenantStorage backed by a pgx/v5 connection
// pool, recording membership rows in tenant_user_pool_membership and
// delegating user/role existence checks to the host application's own
// users/roles tables (injected via the queries below so this package
// never assumes a schema it does not own).
type PostgresTenantStorage struct {
	pool *pgxpool.Pool

	// UserExists and RoleExists let the host application wire its own
	// user/role tables without this package depending on their schema.
	UserExists func(ctx context.Context, pool *pgxpool.Pool, userID uuid.UUID) (bool, error)
	RoleExists func(ctx context.Context, pool *pgxpool.Pool, role string) (bool, error)
}

// NewPostgresTenantStorage wraps pool as a TenantStorage. UserExists and
// RoleExists must be set by the caller before AddUserIDToTenant /
// AddRoleToTenant are used; AddTenantIDInUserPool and
// DeleteTenantIDInUserPool work without them.
func NewPostgresTenantStorage(pool *pgxpool.Pool) *PostgresTenantStorage {
	return &PostgresTenantStorage{pool: pool}
}

func (s *PostgresTenantStorage) AddTenantIDInUserPool(ctx context.Context, id TenantIdentifier) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tenant_user_pool_membership (connection_uri_domain, app_id, tenant_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (connection_uri_domain, app_id, tenant_id) DO NOTHING`,
		id.ConnectionURIDomain, id.AppID, id.TenantID,
	)
	if isForeignKeyViolation(err) {
		return ErrTenantOrAppNotFound
	}
	return err
}

func (s *PostgresTenantStorage) DeleteTenantIDInUserPool(ctx context.Context, id TenantIdentifier) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM tenant_user_pool_membership
		WHERE connection_uri_domain = $1 AND app_id = $2 AND tenant_id = $3`,
		id.ConnectionURIDomain, id.AppID, id.TenantID,
	)
	return err
}

func (s *PostgresTenantStorage) AddUserIDToTenant(ctx context.Context, id TenantIdentifier, userID uuid.UUID) error {
	if s.UserExists == nil {
		return ErrUnknownUserID
	}
	ok, err := s.UserExists(ctx, s.pool, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownUserID
	}
	return nil
}

func (s *PostgresTenantStorage) AddRoleToTenant(ctx context.Context, id TenantIdentifier, role string) error {
	if s.RoleExists == nil {
		return ErrUnknownRole
	}
	ok, err := s.RoleExists(ctx, s.pool, role)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownRole
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
