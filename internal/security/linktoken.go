package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidLinkToken is returned when a completion-link token fails
// verification or has expired.
var ErrInvalidLinkToken = errors.New("invalid or expired completion token")

// completionClaims is the payload of a one-click review completion link
type completionClaims struct {
	ScheduleID int64 `json:"schedule_id"`
	jwt.RegisteredClaims
}

// MintCompletionToken signs a short-lived token that authorises completing
// one review schedule. Reminder emails embed these so a review can be
// checked off without logging in.
func MintCompletionToken(secret string, scheduleID int64, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("token secret not configured")
	}

	now := time.Now()
	claims := completionClaims{
		ScheduleID: scheduleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.FormatInt(scheduleID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign completion token: %w", err)
	}
	return signed, nil
}

// ParseCompletionToken verifies a completion token and returns the
// schedule id it authorises.
func ParseCompletionToken(secret, tokenString string) (int64, error) {
	if secret == "" {
		return 0, ErrInvalidLinkToken
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))

	claims := &completionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidLinkToken
	}

	if claims.ScheduleID <= 0 {
		return 0, ErrInvalidLinkToken
	}
	return claims.ScheduleID, nil
}
