// Package auth issues and verifies the HS256 tokens used for sessions and
// password resets, and carries the authenticated user through a request.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose is stored in the "typ" claim so a token minted for one flow cannot be
// replayed against another.
type Purpose string

const (
	PurposeAccess Purpose = "access"
	PurposeReset  Purpose = "reset"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type TokenIssuer struct {
	secret    []byte
	accessTTL time.Duration
	resetTTL  time.Duration
	now       func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, resetTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		resetTTL:  resetTTL,
		now:       time.Now,
	}
}

func (t *TokenIssuer) ttl(purpose Purpose) time.Duration {
	if purpose == PurposeReset {
		return t.resetTTL
	}
	return t.accessTTL
}

func (t *TokenIssuer) Issue(userID uuid.UUID, purpose Purpose) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"typ": string(purpose),
		"iat": now.Unix(),
		"exp": now.Add(t.ttl(purpose)).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks signature, expiry and purpose, and returns the subject.
func (t *TokenIssuer) Verify(raw string, purpose Purpose) (uuid.UUID, error) {
	token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return Subject(token, purpose)
}

// Subject extracts the user ID from an already validated token, rejecting
// tokens minted for a different purpose.
func Subject(token *jwt.Token, purpose Purpose) (uuid.UUID, error) {
	if token == nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != string(purpose) {
		return uuid.Nil, ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
