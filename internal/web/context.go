package web

import (
	"net/http"

	"github.com/brightbay/salestrack/internal/domain"
)

// actorFromRequest resolves the acting user from request headers for audit
// logging. Authentication proper is handled upstream; these headers are set
// by the front end after login.
func actorFromRequest(r *http.Request) domain.Actor {
	actor := domain.Actor{
		ID:    r.Header.Get("X-User-Id"),
		Email: r.Header.Get("X-User-Email"),
		Name:  r.Header.Get("X-User-Name"),
	}
	if actor.ID == "" && actor.Email == "" && actor.Name == "" {
		actor.Name = "unknown"
	}
	return actor
}
