// Package session carries the caller identity explicitly through request
// contexts and realtime connections.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Session struct {
	Username  string
	RequestID string
}

type sessionKey struct{}

func With(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// From returns the session attached to ctx, or nil.
func From(ctx context.Context) *Session {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// Username is a nil-safe shortcut for From(ctx).Username.
func Username(ctx context.Context) string {
	if s := From(ctx); s != nil {
		return s.Username
	}
	return ""
}

type Claims struct {
	jwt.RegisteredClaims
}

func IssueToken(secret, username string, ttl time.Duration) (string, error) {
	username = strings.TrimSpace(username)
	if secret == "" {
		return "", fmt.Errorf("missing signing secret")
	}
	if username == "" {
		return "", fmt.Errorf("missing username")
	}
	now := time.Now().UTC()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies an HS256 token and returns its subject.
func ParseToken(secret, token string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("token sessions are not configured")
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}
