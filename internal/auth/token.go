// Package auth issues and verifies the service's bearer tokens and hashes
// credentials. It is the in-process stand-in for a credential service:
// authenticate/issue/verify with no other coupling to the domain.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/docvault/docvault/internal/models"
)

// bcryptCost matches the legacy service so existing hashes keep verifying.
const bcryptCost = 12

// Claims is the token payload: principal id plus role, so the middleware
// knows which principal table to resolve against.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is returned for any token that fails to parse, verify,
// or carry a usable principal.
var ErrInvalidToken = errors.New("invalid or expired token")

// IssueToken signs a token for the given principal id and role.
func IssueToken(secret []byte, principalID string, role models.Role, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyToken parses and validates a signed token, returning its claims.
func VerifyToken(secret []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against its hash
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
