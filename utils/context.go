// utils/context.go
package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/gowafly/logger"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Context keys set by the auth middleware.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Actor is the caller identity every core operation receives.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Owns reports whether the actor is the given owner.
func (a Actor) Owns(ownerID uuid.UUID) bool { return a.ID != uuid.Nil && a.ID == ownerID }

// GetActorFromContext extracts the caller identity placed on the context by the auth middleware.
func GetActorFromContext(c *gin.Context) (Actor, error) {
	raw, exists := c.Get(ContextUserID)
	if !exists {
		logger.ErrorLogger.Error("User ID not found in context.")
		return Actor{}, ErrUnauthorized
	}

	var id uuid.UUID
	switch v := raw.(type) {
	case uuid.UUID:
		id = v
	case string:
		parsed, err := uuid.Parse(v)
		if err != nil {
			logger.ErrorLogger.Errorf("Failed to parse user ID string '%s' to UUID: %v", v, err)
			return Actor{}, NewError(KindUnauthorized, "invalid user identity", err)
		}
		id = parsed
	default:
		logger.ErrorLogger.Errorf("User ID in context has unexpected type %T", raw)
		return Actor{}, NewError(KindUnauthorized, "invalid user identity", nil)
	}

	role := c.GetString(ContextRole)
	if role == "" {
		role = RoleUser
	}
	return Actor{ID: id, Role: role}, nil
}
