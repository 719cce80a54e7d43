package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the request-scoped tenant record installed into context by a
// caller after resolving an identifier with a Resolver.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Subdomain string    `json:"subdomain"`
	Name      string    `json:"name"`
	Logo      string    `json:"logo_url"`
	PlanID    string    `json:"plan_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
