package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/access"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

const ContextActor = "actor"

// Authenticator verifies tokens and loads the caller behind them.
type Authenticator interface {
	ParseToken(token string) (uuid.UUID, error)
	ResolveActor(ctx context.Context, accountID uuid.UUID) (*access.Actor, error)
}

type AuthMiddleware struct {
	auth   Authenticator
	actors *cache.Cache
}

// NewAuthMiddleware caches resolved actors per account for ttl. A zero ttl
// reloads the account on every request.
func NewAuthMiddleware(auth Authenticator, ttl time.Duration) *AuthMiddleware {
	m := &AuthMiddleware{auth: auth}
	if ttl > 0 {
		m.actors = cache.New(ttl, 2*ttl)
	}
	return m
}

// Authenticate verifies the bearer token and stores the caller in the context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			httputil.RespondWithError(c, apperrors.Unauthorized("Access token required", nil))
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			httputil.RespondWithError(c, apperrors.Unauthorized("Invalid authorization format", nil))
			return
		}

		accountID, err := m.auth.ParseToken(strings.TrimSpace(token))
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}

		actor, err := m.resolve(c.Request.Context(), accountID)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}

		c.Set(ContextActor, *actor)
		c.Next()
	}
}

func (m *AuthMiddleware) resolve(ctx context.Context, accountID uuid.UUID) (*access.Actor, error) {
	key := accountID.String()
	if m.actors != nil {
		if cached, ok := m.actors.Get(key); ok {
			return cached.(*access.Actor), nil
		}
	}

	actor, err := m.auth.ResolveActor(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if m.actors != nil {
		m.actors.SetDefault(key, actor)
	}
	return actor, nil
}

// Forget drops the cached actor for an account, e.g. after an admin edit.
func (m *AuthMiddleware) Forget(accountID uuid.UUID) {
	if m.actors != nil {
		m.actors.Delete(accountID.String())
	}
}

// RequireRole rejects callers whose role is not listed. It must run after
// Authenticate.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			httputil.RespondWithError(c, apperrors.Unauthorized("Access token required", nil))
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		httputil.RespondWithError(c, apperrors.Forbidden("Insufficient permissions"))
	}
}

// CurrentActor returns the caller set by Authenticate.
func CurrentActor(c *gin.Context) (access.Actor, bool) {
	v, ok := c.Get(ContextActor)
	if !ok {
		return access.Actor{}, false
	}
	actor, ok := v.(access.Actor)
	return actor, ok
}
