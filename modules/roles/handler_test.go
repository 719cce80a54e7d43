package roles_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/saaskit/modules/roles"
	"github.com/dmitrymomot/saaskit/pkg/rbac"
)

type permissionsResponseBody struct {
	Status      string   `json:"status"`
	Permissions []string `json:"permissions,omitempty"`
}

func newTestAuthorizer(t *testing.T) rbac.Authorizer {
	t.Helper()
	source := rbac.NewInMemRoleSource(map[string]rbac.Role{
		"admin": {Permissions: []string{"users.read", "users.write"}},
	})
	authorizer, err := rbac.NewAuthorizer(context.Background(), source)
	require.NoError(t, err)
	return authorizer
}

// TestRolesHandler_Permissions covers spec scenario 6.
func TestRolesHandler_Permissions(t *testing.T) {
	svc := roles.NewService(newTestAuthorizer(t))
	server := httptest.NewServer(svc.Handle())
	defer server.Close()

	t.Run("existing role", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/permissions?role=admin")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body permissionsResponseBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "OK", body.Status)
		assert.ElementsMatch(t, []string{"users.read", "users.write"}, body.Permissions)
	})

	t.Run("unknown role", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/permissions?role=ghost")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body permissionsResponseBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "UNKNOWN_ROLE_ERROR", body.Status)
		assert.Empty(t, body.Permissions)
	})

	t.Run("blank role", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/permissions?role=")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("whitespace-only role", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/permissions?role=%20%20")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
