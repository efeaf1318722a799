package jwt_parse

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joy095/gowafly/models/shared_models"
	"github.com/joy095/gowafly/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClaimsRoundTrip(t *testing.T) {
	id := uuid.New()
	token, err := shared_models.GenerateAccessToken(id, utils.RoleAdmin, 3, time.Hour)
	require.NoError(t, err)

	claims, err := ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims["sub"])
	assert.Equal(t, utils.RoleAdmin, claims["role"])
	assert.Equal(t, float64(3), claims["token_version"])
}

func TestParseClaimsRejectsOtherAlgorithms(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": uuid.NewString()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseClaims(unsigned)
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.New()
	token, err := shared_models.GenerateAccessToken(id, utils.RoleUser, 0, time.Hour)
	require.NoError(t, err)

	for _, tc := range []struct {
		header string
		ok     bool
	}{
		{"Bearer " + token, true},
		{"bearer " + token, true},
		{token, false},
		{"", false},
		{"Bearer not.a.token", false},
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("Authorization", tc.header)

		assert.Equal(t, tc.ok, Authenticate(c), tc.header)
		if tc.ok {
			actor, err := utils.GetActorFromContext(c)
			require.NoError(t, err)
			assert.Equal(t, id, actor.ID)
			assert.False(t, c.IsAborted())
		} else {
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.True(t, c.IsAborted())
		}
	}
}
