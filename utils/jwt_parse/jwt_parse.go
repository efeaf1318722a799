package jwt_parse

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/utils"
)

// Authenticate parses and validates the bearer token, setting user_id, role and token_version
// in context. It does not continue the chain, so the caller can run further checks first.
// On failure it aborts the request and returns false.
func Authenticate(c *gin.Context) bool {
	tokenString, err := bearerToken(c.GetHeader("Authorization"))
	if err != nil {
		logger.ErrorLogger.Error(err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "code": utils.KindUnauthorized, "error": err.Error()})
		return false
	}

	claims, err := ParseClaims(tokenString)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to parse JWT token: %v", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "code": utils.KindUnauthorized, "error": "Invalid token"})
		return false
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		logger.ErrorLogger.Error("No user identifier found in token")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "code": utils.KindUnauthorized, "error": "Invalid token claims"})
		return false
	}
	c.Set(utils.ContextUserID, sub)

	if role, ok := claims["role"].(string); ok {
		c.Set(utils.ContextRole, role)
	}
	if tokenVersion, exists := claims["token_version"]; exists {
		c.Set("token_version", tokenVersion)
	} else {
		logger.WarnLogger.Warn("Token version not found in JWT claims")
	}
	return true
}

// ParseClaims validates an HS256 token signed with the JWT secret and returns its claims.
func ParseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return utils.GetJWTSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("no authorization token")
	}
	if len(header) > 7 && strings.ToLower(header[:7]) == "bearer " {
		return header[7:], nil
	}
	return "", errors.New("invalid authorization format")
}
