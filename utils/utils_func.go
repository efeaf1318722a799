package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"

	"github.com/joy095/gowafly/config"
	"github.com/joy095/gowafly/logger"
)

func init() {
	config.LoadEnv()
}

// BookingReferenceAlphabet is the character set of public booking references.
const BookingReferenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// BookingReferenceLength is the length of a booking reference.
const BookingReferenceLength = 6

var jwtSecret []byte

// SetJWTSecret installs the signing secret from configuration. It must be called before
// serving requests; an empty secret keeps the JWT_SECRET lookup.
func SetJWTSecret(secret string) {
	if secret == "" {
		jwtSecret = nil
		return
	}
	jwtSecret = []byte(secret)
}

func GetJWTSecret() []byte {
	if jwtSecret != nil {
		return jwtSecret
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.WarnLogger.Warn("JWT_SECRET environment variable not set.")
		return []byte("default-insecure-secret-only-for-development")
	}
	return []byte(secret)
}

// GenerateBookingReference returns a random uppercase alphanumeric code of BookingReferenceLength.
func GenerateBookingReference() (string, error) {
	result := make([]byte, BookingReferenceLength)
	max := big.NewInt(int64(len(BookingReferenceAlphabet)))
	for i := range result {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			logger.ErrorLogger.Errorf("Failed to generate random number: %v", err)
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = BookingReferenceAlphabet[num.Int64()]
	}
	return string(result), nil
}

// IsBookingReference reports whether s has the shape of a booking reference.
func IsBookingReference(s string) bool {
	if len(s) != BookingReferenceLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
