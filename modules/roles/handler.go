package roles

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/saaskit/handler"
	"github.com/dmitrymomot/saaskit/pkg/rbac"
)

// PermissionsRequest binds the ?role= query parameter.
type PermissionsRequest struct {
	Role string `query:"role"`
}

// permissionsBody is the wire format consumed by recipe engines: a flat
// status field instead of the generic data/error envelope, so existing
// third-party-recipe clients built against it keep working verbatim.
type permissionsBody struct {
	Status      string   `json:"status"`
	Permissions []string `json:"permissions,omitempty"`
}

type permissionsResponse struct {
	status int
	body   permissionsBody
}

func (p permissionsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(p.status)
	return json.NewEncoder(w).Encode(p.body)
}

func (s *Service) permissions(ctx handler.Context, req PermissionsRequest) handler.Response {
	role := strings.TrimSpace(req.Role)
	if role == "" {
		return permissionsResponse{
			status: http.StatusBadRequest,
			body:   permissionsBody{Status: "BAD_INPUT_ERROR"},
		}
	}

	permissions, err := s.authorizer.Permissions(role)
	switch {
	case err == nil:
		return permissionsResponse{
			status: http.StatusOK,
			body:   permissionsBody{Status: "OK", Permissions: permissions},
		}
	case errors.Is(err, rbac.ErrInvalidRole):
		return permissionsResponse{
			status: http.StatusOK,
			body:   permissionsBody{Status: "UNKNOWN_ROLE_ERROR"},
		}
	default:
		return permissionsResponse{
			status: http.StatusInternalServerError,
			body:   permissionsBody{Status: "GENERAL_ERROR"},
		}
	}
}
