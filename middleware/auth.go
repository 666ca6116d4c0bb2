package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"reviewhub-api/helper"
	"reviewhub-api/models"
	"reviewhub-api/permissions"
	"reviewhub-api/repositories"
	"reviewhub-api/services"
)

var HTTPHelper = helper.NewHTTPHelper()

const (
	actorKey = "actor"
	userKey  = "current_user"
)

// Identify resolves an optional bearer token into an actor. Requests
// without an Authorization header proceed as anonymous; a header that is
// present but does not resolve to a live user is rejected. The user
// record is re-read on every request so role changes take effect without
// reissuing tokens.
func Identify(tokens services.TokenService, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(actorKey, permissions.Anonymous())
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			HTTPHelper.SendUnauthorizedError(c, "Bearer token required", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		userID, err := tokens.Resolve(tokenString)
		if err != nil {
			HTTPHelper.SendUnauthorizedError(c, models.ErrInvalidToken.Error(), HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		user, err := users.GetByID(userID)
		if err != nil {
			HTTPHelper.SendUnauthorizedError(c, models.ErrInvalidToken.Error(), HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		c.Set(actorKey, permissions.FromUser(user))
		c.Set(userKey, user)

		c.Next()
	}
}

// RequireAuth aborts anonymous requests. Run it after Identify on routes
// that have no meaning without an identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentActor(c).Authenticated {
			HTTPHelper.SendUnauthorizedError(c, "authentication required", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentActor returns the request's actor, anonymous when unset.
func CurrentActor(c *gin.Context) permissions.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(permissions.Actor); ok {
			return actor
		}
	}
	return permissions.Anonymous()
}

// CurrentUser returns the authenticated user record, nil for anonymous
// requests.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
