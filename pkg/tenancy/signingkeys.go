package tenancy

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sync"
	"time"

	"golang.org/x/crypto/hkdf"
)

// SigningKeyAlgorithm identifies the cryptographic algorithm a
// SigningKeyManager mints keys for.
type SigningKeyAlgorithm string

// Supported signing-key algorithms.
const (
	SigningKeyAlgorithmHS256 SigningKeyAlgorithm = "HS256"
)

// SigningKeySize is the size, in bytes, of every key minted by a
// SigningKeyManager - 256 bits, matching pkg/secrets.KeySize.
const SigningKeySize = 32

// SigningKey is one cryptographic key minted by a SigningKeyManager,
// together with its validity window.
type SigningKey struct {
	// ID is a stable, non-secret identifier for this key, derived from
	// its value so two managers that happen to mint the same value (never
	// expected in practice, since Value is random) would agree on ID.
	ID string

	Value          []byte
	CreatedAtTime  time.Time
	ExpiresAtTime  time.Time
}

// SigningKeyManager mints and rotates one class of tenant-scoped
// cryptographic key (access-token, refresh-token, or JWT signing). A
// fresh manager starts with exactly one key; GetAllKeys can return more
// than one during a rotation window where an old key is kept around only
// to validate tokens minted before the rotation.
type SigningKeyManager interface {
	// GetAllKeys returns every key still valid for verification, newest
	// first.
	GetAllKeys(ctx context.Context) ([]SigningKey, error)

	// CurrentKey returns the key that should be used to mint new tokens.
	CurrentKey(ctx context.Context) (SigningKey, error)

	// RotateIfDue mints a new key if the current one has passed its
	// update interval, keeping the previous key around until it expires.
	RotateIfDue(ctx context.Context) error
}

// hkdfSigningKeyManager is the default SigningKeyManager implementation.
// Keys are derived with HKDF-SHA256 from a random seed the same way
// pkg/secrets.deriveKey compounds an app key and a workspace key - here
// the "workspace" half of the derivation is the tenant identifier itself,
// giving every tenant cryptographically distinct key material even when
// manager instances are constructed with the same process-wide seed.
type hkdfSigningKeyManager struct {
	mu       sync.Mutex
	seed     []byte
	salt     string
	interval time.Duration
	keys     []SigningKey
}

// newHKDFSigningKeyManager builds a manager seeded with fresh random
// material and an immediate first key.
func newHKDFSigningKeyManager(salt string, interval time.Duration) (*hkdfSigningKeyManager, error) {
	seed := make([]byte, SigningKeySize)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}

	m := &hkdfSigningKeyManager{
		seed:     seed,
		salt:     salt,
		interval: interval,
	}

	key, err := m.deriveKey(time.Now())
	if err != nil {
		return nil, err
	}
	m.keys = []SigningKey{key}
	return m, nil
}

func (m *hkdfSigningKeyManager) deriveKey(createdAt time.Time) (SigningKey, error) {
	info := m.salt + "|" + createdAt.UTC().Format(time.RFC3339Nano)
	reader := hkdf.New(sha256.New, m.seed, nil, []byte(info))

	value := make([]byte, SigningKeySize)
	if _, err := io.ReadFull(reader, value); err != nil {
		return SigningKey{}, ErrKeyDerivationFailed
	}

	sum := sha256.Sum256(value)
	return SigningKey{
		ID:            hex.EncodeToString(sum[:8]),
		Value:         value,
		CreatedAtTime: createdAt,
		ExpiresAtTime: createdAt.Add(m.interval),
	}, nil
}

func (m *hkdfSigningKeyManager) GetAllKeys(ctx context.Context) ([]SigningKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SigningKey, len(m.keys))
	copy(out, m.keys)
	return out, nil
}

func (m *hkdfSigningKeyManager) CurrentKey(ctx context.Context) (SigningKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.keys) == 0 {
		return SigningKey{}, ErrNoSigningKeys
	}
	return m.keys[0], nil
}

func (m *hkdfSigningKeyManager) RotateIfDue(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if len(m.keys) > 0 && now.Before(m.keys[0].ExpiresAtTime) {
		return nil
	}

	newKey, err := m.deriveKey(now)
	if err != nil {
		return err
	}

	// Keep the previous key only while it is still within its own
	// validity window, so in-flight tokens it signed keep verifying.
	kept := make([]SigningKey, 0, len(m.keys)+1)
	kept = append(kept, newKey)
	for _, k := range m.keys {
		if now.Before(k.ExpiresAtTime) {
			kept = append(kept, k)
		}
	}
	m.keys = kept
	return nil
}

// SigningKeyManagerFactory constructs the three per-tenant signing-key
// managers. The default factory derives independent key material for
// each of access-token, refresh-token and JWT signing even for the same
// tenant, and independent material across tenants, by salting the HKDF
// derivation with both the tenant identifier and the key class.
type SigningKeyManagerFactory func(id TenantIdentifier, cfg TenantConfig) (access, refresh, jwtMgr SigningKeyManager, err error)

// DefaultSigningKeyManagerFactory is the SigningKeyManagerFactory used by
// Reconciler when none is supplied via WithSigningKeyManagerFactory.
func DefaultSigningKeyManagerFactory(id TenantIdentifier, cfg TenantConfig) (SigningKeyManager, SigningKeyManager, SigningKeyManager, error) {
	salt := id.String()

	access, err := newHKDFSigningKeyManager(salt+"|access",
		cfg.CoreConfig.LoadSigningKeyInterval(CoreConfigAccessTokenKeyInterval))
	if err != nil {
		return nil, nil, nil, err
	}

	refresh, err := newHKDFSigningKeyManager(salt+"|refresh",
		cfg.CoreConfig.LoadSigningKeyInterval(CoreConfigRefreshTokenKeyInterval))
	if err != nil {
		return nil, nil, nil, err
	}

	jwtMgr, err := newHKDFSigningKeyManager(salt+"|jwt",
		cfg.CoreConfig.LoadSigningKeyInterval(CoreConfigJWTSigningKeyInterval))
	if err != nil {
		return nil, nil, nil, err
	}

	return access, refresh, jwtMgr, nil
}
