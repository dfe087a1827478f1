package storage

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionTTL bounds how long a persisted login survives between launches.
const sessionTTL = 30 * 24 * time.Hour

// sessionCodec mints and validates the signed token the current-user
// pointer persists as.
type sessionCodec struct {
	secret []byte
}

func newSessionCodec(secret string) *sessionCodec {
	return &sessionCodec{secret: []byte(secret)}
}

// Mint returns a signed token identifying userID.
func (c *sessionCodec) Mint(userID int) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("storage: sign session: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns the user id it identifies.
func (c *sessionCodec) Parse(token string) (int, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("storage: unexpected signing method %v", t.Header["alg"])
			}
			return c.secret, nil
		})
	if err != nil {
		return 0, fmt.Errorf("storage: parse session: %w", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return 0, fmt.Errorf("storage: invalid session token")
	}
	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, fmt.Errorf("storage: bad session subject %q", claims.Subject)
	}
	return id, nil
}
