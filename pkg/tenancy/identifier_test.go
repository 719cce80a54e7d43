package tenancy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/saaskit/pkg/tenancy"
)

func TestDefaultTenantIdentifier(t *testing.T) {
	id := tenancy.DefaultTenantIdentifier()

	assert.True(t, id.IsDefaultConnectionURIDomain())
	assert.True(t, id.IsDefaultApp())
	assert.True(t, id.IsDefaultTenant())
	assert.True(t, id.IsDefault())
}

func TestTenantIdentifier_IsDefault(t *testing.T) {
	tests := []struct {
		name string
		id   tenancy.TenantIdentifier
		want bool
	}{
		{"all default", tenancy.DefaultTenantIdentifier(), true},
		{"custom tenant", tenancy.NewTenantIdentifier("", "public", "acme"), false},
		{"custom app", tenancy.NewTenantIdentifier("", "shop", "public"), false},
		{"custom domain", tenancy.NewTenantIdentifier("example.com", "public", "public"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.IsDefault())
		})
	}
}

func TestTenantIdentifier_WithTenantID(t *testing.T) {
	id := tenancy.NewTenantIdentifier("example.com", "shop", "public")
	moved := id.WithTenantID("acme")

	assert.Equal(t, "acme", moved.TenantID)
	assert.Equal(t, id.ConnectionURIDomain, moved.ConnectionURIDomain)
	assert.Equal(t, id.AppID, moved.AppID)
	assert.Equal(t, "public", id.TenantID, "original identifier must be unmodified")
}

func TestTenantIdentifier_SameAppAs(t *testing.T) {
	a := tenancy.NewTenantIdentifier("example.com", "shop", "acme")
	b := tenancy.NewTenantIdentifier("example.com", "shop", "other")
	c := tenancy.NewTenantIdentifier("example.com", "other-app", "acme")

	assert.True(t, a.SameAppAs(b))
	assert.False(t, a.SameAppAs(c))
}

func TestTenantIdentifier_String(t *testing.T) {
	id := tenancy.NewTenantIdentifier("example.com", "shop", "acme")
	assert.Equal(t, "example.com|shop|acme", id.String())
}
