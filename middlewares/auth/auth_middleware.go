package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/models/user_models"
	"github.com/joy095/gowafly/utils"
	"github.com/joy095/gowafly/utils/jwt_parse"
)

// UserFinder loads the account behind a token. *user_models.Repository implements it.
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user_models.User, error)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "code": utils.KindUnauthorized, "error": message})
}

// AuthMiddleware validates the bearer token, loads its user and rejects tokens whose
// version no longer matches the account (e.g. after a password change).
func AuthMiddleware(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !jwt_parse.Authenticate(c) {
			return
		}

		actor, err := utils.GetActorFromContext(c)
		if err != nil {
			abortUnauthorized(c, "Unauthorized: missing user identification from token.")
			return
		}

		tokenVersion, ok := tokenVersionFromContext(c)
		if !ok {
			logger.ErrorLogger.Errorf("Invalid token version type in JWT: %T", c.Value("token_version"))
			abortUnauthorized(c, "Invalid token version format.")
			return
		}

		user, err := users.GetByID(c.Request.Context(), actor.ID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				logger.WarnLogger.Warnf("User %s from token no longer exists", actor.ID)
				abortUnauthorized(c, "User associated with token not found.")
				return
			}
			utils.RespondError(c, err)
			c.Abort()
			return
		}

		if tokenVersion != user.TokenVersion {
			logger.WarnLogger.Warnf("Token version mismatch for user %s: JWT(%d) vs DB(%d)", user.ID, tokenVersion, user.TokenVersion)
			abortUnauthorized(c, "Token has been revoked. Please log in again.")
			return
		}

		// the stored role wins over the one baked into the token
		c.Set(utils.ContextUserID, user.ID)
		c.Set(utils.ContextRole, user.Role)
		c.Next()
	}
}

// AdminMiddleware requires an authenticated admin. Mount it after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := utils.GetActorFromContext(c)
		if err != nil {
			abortUnauthorized(c, "Unauthorized")
			return
		}
		if !actor.IsAdmin() {
			logger.WarnLogger.Warnf("User %s attempted admin route %s", actor.ID, c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "code": utils.KindForbidden, "error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func tokenVersionFromContext(c *gin.Context) (int, bool) {
	raw, exists := c.Get("token_version")
	if !exists {
		return 0, true
	}
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}
