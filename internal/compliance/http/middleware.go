// Package http provides HTTP handlers for the compliance API: document
// signing and verification, retention registration, forced backups and
// integrity checks, and ledger statistics.
package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/healplus/compliance/internal/errors"
	"github.com/healplus/compliance/internal/httputil"
)

// Roles accepted by the compliance API. Authentication happens upstream (API
// gateway); the verified actor identity arrives in trusted headers.
const (
	RoleAdmin     = "admin"
	RoleClinician = "clinician"
)

// Header names carrying the upstream-verified actor identity.
const (
	ActorIDHeader   = "X-Actor-Id"
	ActorRoleHeader = "X-Actor-Role"
)

// Actor is the authenticated caller as asserted by the upstream gateway.
type Actor struct {
	ID   string
	Role string
}

// actorKey is the context key for the authenticated actor.
type actorKey struct{}

// GetActor retrieves the authenticated actor from the context.
func GetActor(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(*Actor)
	return actor, ok
}

// ActorMiddleware extracts the actor identity headers and stores the actor in
// the request context. Requests without both headers are rejected with 401.
func ActorMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := &Actor{
			ID:   c.GetHeader(ActorIDHeader),
			Role: c.GetHeader(ActorRoleHeader),
		}
		if actor.ID == "" || actor.Role == "" {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := context.WithValue(c.Request.Context(), actorKey{}, actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole allows only actors holding one of the given roles.
// Must be used after ActorMiddleware.
func RequireRole(logger *slog.Logger, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		actor, ok := GetActor(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}
		if _, ok := allowed[actor.Role]; !ok {
			logger.Warn("actor role not allowed",
				slog.String("actor_id", actor.ID),
				slog.String("role", actor.Role),
				slog.String("path", c.FullPath()),
			)
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}
