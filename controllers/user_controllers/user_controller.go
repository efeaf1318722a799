package user_controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/models/shared_models"
	"github.com/joy095/gowafly/models/user_models"
	"github.com/joy095/gowafly/utils"
	"github.com/joy095/gowafly/utils/validation"
)

// UserStore is the persistence the account endpoints need. *user_models.Repository implements it.
type UserStore interface {
	Create(ctx context.Context, u *user_models.User) (*user_models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user_models.User, error)
	GetByEmail(ctx context.Context, email string) (*user_models.User, error)
	List(ctx context.Context) ([]user_models.User, error)
	Count(ctx context.Context) (int, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) (*user_models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserController handles registration, login and the caller's own profile.
type UserController struct {
	users    UserStore
	tokenTTL time.Duration
}

// NewUserController creates a new UserController. A zero tokenTTL uses the default expiry.
func NewUserController(users UserStore, tokenTTL time.Duration) *UserController {
	if tokenTTL <= 0 {
		tokenTTL = shared_models.ACCESS_TOKEN_EXPIRY
	}
	return &UserController{users: users, tokenTTL: tokenTTL}
}

type registerRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phoneNumber"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user account and returns an access token for it.
func (uc *UserController) Register(c *gin.Context) {
	logger.InfoLogger.Info("Register controller called")

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, validation.Error(err))
		return
	}

	ctx := c.Request.Context()
	if _, err := uc.users.GetByEmail(ctx, req.Email); err == nil {
		utils.RespondError(c, utils.NewError(utils.KindConflict, "email is already registered", nil))
		return
	} else if !errors.Is(err, utils.ErrNotFound) {
		utils.RespondError(c, err)
		return
	}

	hash, err := user_models.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	user, err := uc.users.Create(ctx, &user_models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        req.Email,
		PasswordHash: hash,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Role:         utils.RoleUser,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	token, err := shared_models.GenerateAccessToken(user.ID, user.Role, user.TokenVersion, uc.tokenTTL)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	logger.InfoLogger.Infof("User registered: %s", user.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "user": user})
}

// Login verifies credentials and issues an access token.
func (uc *UserController) Login(c *gin.Context) {
	logger.InfoLogger.Info("Login controller called")

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, validation.Error(err))
		return
	}

	invalid := utils.NewError(utils.KindUnauthorized, "invalid email or password", nil)

	user, err := uc.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.RespondError(c, invalid)
			return
		}
		utils.RespondError(c, err)
		return
	}

	ok, err := user_models.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		logger.WarnLogger.Warnf("Failed login for user %s", user.ID)
		utils.RespondError(c, invalid)
		return
	}

	token, err := shared_models.GenerateAccessToken(user.ID, user.Role, user.TokenVersion, uc.tokenTTL)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}

// GetMyProfile returns the authenticated user.
func (uc *UserController) GetMyProfile(c *gin.Context) {
	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	user, err := uc.users.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

type updateProfileRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber"`
}

func (r updateProfileRequest) updates(current *user_models.User) map[string]any {
	updates := make(map[string]any)
	set := func(column string, value *string, existing string) {
		if value == nil {
			return
		}
		v := strings.TrimSpace(*value)
		if v != "" && v != existing {
			updates[column] = v
		}
	}
	set("first_name", r.FirstName, current.FirstName)
	set("last_name", r.LastName, current.LastName)
	set("phone_number", r.PhoneNumber, current.PhoneNumber)
	if r.Email != nil {
		if email := user_models.NormalizeEmail(*r.Email); email != "" && email != current.Email {
			updates["email"] = email
		}
	}
	return updates
}

// UpdateProfile handles user profile updates
func (uc *UserController) UpdateProfile(c *gin.Context) {
	logger.InfoLogger.Info("UpdateProfile function called")

	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, validation.Error(err))
		return
	}

	ctx := c.Request.Context()
	current, err := uc.users.GetByID(ctx, actor.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	updates := req.updates(current)
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "No changes detected for profile update", "data": current})
		return
	}

	updated, err := uc.users.UpdateFields(ctx, actor.ID, updates)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	logger.InfoLogger.Infof("User profile updated for ID: %s", actor.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully", "data": updated})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// ChangePassword verifies the current password and stores the new one. Existing tokens are revoked.
func (uc *UserController) ChangePassword(c *gin.Context) {
	actor, err := utils.GetActorFromContext(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, validation.Error(err))
		return
	}

	ctx := c.Request.Context()
	user, err := uc.users.GetByID(ctx, actor.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	ok, err := user_models.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil || !ok {
		utils.RespondError(c, utils.NewError(utils.KindUnauthorized, "current password is incorrect", err))
		return
	}

	hash, err := user_models.HashPassword(req.NewPassword)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := uc.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		utils.RespondError(c, err)
		return
	}

	// token_version moved on, so hand back a token that matches it
	token, err := shared_models.GenerateAccessToken(user.ID, user.Role, user.TokenVersion+1, uc.tokenTTL)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	logger.InfoLogger.Infof("Password changed for user %s", user.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully", "token": token})
}
