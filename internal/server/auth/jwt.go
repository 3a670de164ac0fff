// Package auth signs and verifies the two bearer token types. Access and
// refresh tokens use distinct HMAC secrets so a leaked short-lived access
// token can never mint new sessions.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gowear/gowear/internal/common"
	"github.com/gowear/gowear/internal/server/models"
)

// AccessClaims is embedded in access tokens: user id plus role, so the role
// gate does not need a database read on every request.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID string      `json:"uid"`
	Role   models.Role `json:"role"`
}

// RefreshClaims is embedded in refresh tokens: user id only.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// Issuer mints and parses both token types.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
}

func NewIssuer(accessSecret, refreshSecret []byte, accessTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
	}
}

// IssueAccessToken signs a short-lived token carrying the user id and role.
func (i *Issuer) IssueAccessToken(userID string, role models.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
		UserID: userID,
		Role:   role,
	})
	return token.SignedString(i.accessSecret)
}

// IssueRefreshToken signs a token carrying the user id only, with the
// caller-supplied lifetime (12h or 7d depending on "keep me logged in").
func (i *Issuer) IssueRefreshToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	})
	return token.SignedString(i.refreshSecret)
}

// ParseAccessToken verifies signature and expiry and returns the embedded
// user id and role. Failures map to common.ErrTokenExpired or
// common.ErrInvalidToken; callers must treat either as "unauthenticated".
func (i *Issuer) ParseAccessToken(tokenString string) (string, models.Role, error) {
	claims := &AccessClaims{}
	if err := parse(tokenString, claims, i.accessSecret); err != nil {
		return "", "", err
	}
	return claims.UserID, claims.Role, nil
}

// ParseRefreshToken verifies signature and expiry and returns the embedded
// user id.
func (i *Issuer) ParseRefreshToken(tokenString string) (string, error) {
	claims := &RefreshClaims{}
	if err := parse(tokenString, claims, i.refreshSecret); err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func parse(tokenString string, claims jwt.Claims, secret []byte) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return common.ErrInvalidToken
	}
	if !token.Valid {
		return common.ErrInvalidToken
	}
	return nil
}
