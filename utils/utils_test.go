package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{ErrUnauthorized, http.StatusUnauthorized},
		{Missing("passengers"), http.StatusBadRequest},
		{ErrInvalidPassengerComposition, http.StatusBadRequest},
		{ErrMalformedProviderData, http.StatusBadRequest},
		{Invalid("bad cabin %q", "deluxe"), http.StatusBadRequest},
		{ErrAlreadyCancelled, http.StatusConflict},
		{ErrStaleStatus, http.StatusConflict},
		{ErrIllegalTransition, http.StatusConflict},
		{ErrConflict, http.StatusConflict},
		{ErrProviderUnavailable, http.StatusBadGateway},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "%v", tt.err)
	}
}

func TestAppErrorMatchesKind(t *testing.T) {
	cause := errors.New("no rows")
	err := fmt.Errorf("loading booking: %w", NewError(KindNotFound, "booking not found", cause))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "booking not found", MessageOf(err))

	assert.Equal(t, KindInternal, KindOf(cause))
	assert.Equal(t, "internal server error", MessageOf(cause))
	assert.Equal(t, "email is required", Missing("email").Message)
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/bookings/1", nil)

	RespondError(c, NewError(KindStaleStatus, "booking was modified concurrently, please retry", errors.New("version 3 != 4")))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"success":false,"code":"StaleStatus","error":"booking was modified concurrently, please retry"}`, w.Body.String())
}

func TestGetActorFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.Must(uuid.NewV7())

	t.Run("uuid and role", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(ContextUserID, id)
		c.Set(ContextRole, RoleAdmin)

		actor, err := GetActorFromContext(c)
		require.NoError(t, err)
		assert.Equal(t, id, actor.ID)
		assert.True(t, actor.IsAdmin())
	})

	t.Run("string id defaults to user role", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(ContextUserID, id.String())

		actor, err := GetActorFromContext(c)
		require.NoError(t, err)
		assert.Equal(t, RoleUser, actor.Role)
		assert.True(t, actor.Owns(id))
		assert.False(t, actor.Owns(uuid.Nil))
	})

	t.Run("missing", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		_, err := GetActorFromContext(c)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("malformed", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(ContextUserID, "not-a-uuid")
		_, err := GetActorFromContext(c)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestGenerateBookingReference(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		ref, err := GenerateBookingReference()
		require.NoError(t, err)
		assert.True(t, IsBookingReference(ref), ref)
		seen[ref] = true
	}
	assert.Greater(t, len(seen), 190)

	assert.False(t, IsBookingReference("abc123"))
	assert.False(t, IsBookingReference("ABC12"))
	assert.False(t, IsBookingReference("ABC-12"))
}

func TestSetJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	defer SetJWTSecret("")

	assert.Equal(t, []byte("from-env"), GetJWTSecret())

	SetJWTSecret("from-config")
	assert.Equal(t, []byte("from-config"), GetJWTSecret())

	SetJWTSecret("")
	assert.Equal(t, []byte("from-env"), GetJWTSecret())
}
