package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"separation-engine/internal/domain/actor"
)

const actorContextKey = "separation.actor"

// ActorMiddleware resolves Ax-Actor-Id through the directory and stores the
// actor on the echo context. Unknown or malformed ids are rejected with 401.
func ActorMiddleware(dir actor.Directory, logger *zap.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(HeaderActorID))
			if id == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderActorID})
			}
			if !validActorID(id) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid " + HeaderActorID})
			}
			a, err := dir.Resolve(c.Request().Context(), id)
			switch {
			case errors.Is(err, actor.ErrUnknownAccount):
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown actor"})
			case err != nil:
				logger.Error("failed to resolve actor", zap.String("actor_id", id), zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "account directory unavailable"})
			}
			c.Set(actorContextKey, *a)
			return next(c)
		}
	}
}

// ActorFrom returns the actor stored by ActorMiddleware.
func ActorFrom(c echo.Context) (actor.Actor, bool) {
	a, ok := c.Get(actorContextKey).(actor.Actor)
	return a, ok
}

// WithActor stores a on the context. Handler tests use it in place of the middleware.
func WithActor(c echo.Context, a actor.Actor) { c.Set(actorContextKey, a) }
