// Package roles mounts the role/permissions lookup endpoint consumed by
// recipe engines: GET /recipe/role/permissions?role=<string>.
package roles

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/saaskit/binder"
	"github.com/dmitrymomot/saaskit/handler"
	"github.com/dmitrymomot/saaskit/pkg/rbac"
)

// Service answers role/permissions lookups against an Authorizer.
type Service struct {
	authorizer rbac.Authorizer
}

// NewService builds a Service over authorizer.
func NewService(authorizer rbac.Authorizer) *Service {
	return &Service{authorizer: authorizer}
}

// Handle mounts the recipe role/permissions endpoint.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/recipe/role", roles.NewService(authorizer).Handle())
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/permissions", handler.Wrap(s.permissions,
		handler.WithBinders[handler.Context, PermissionsRequest](
			binder.BindQuery(),
		),
	))

	return r
}
