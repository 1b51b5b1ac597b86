// Package token implements the bearer-token codec: an HMAC-signed encoding
// of a (user id, version) pair. Forgery requires the signing secret, and
// invalidation is purely version-based, so no token state is kept anywhere.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

const defaultTTL = 90 * 24 * time.Hour

// Codec issues and verifies HS256-signed tokens.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret []byte, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Codec{secret: secret, ttl: ttl}
}

type versionClaims struct {
	UserID  string `json:"uid"`
	Version int    `json:"ver"`
	jwt.RegisteredClaims
}

// Issue signs a token binding userID to the given version snapshot.
func (c *Codec) Issue(userID string, version int) (string, error) {
	now := time.Now()
	claims := versionClaims{
		UserID:  userID,
		Version: version,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks authenticity and expiry and returns the embedded pair.
// All failure modes collapse to ErrInvalidToken.
func (c *Codec) Verify(token string) (string, int, error) {
	claims := &versionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || claims.UserID == "" {
		return "", 0, ErrInvalidToken
	}
	return claims.UserID, claims.Version, nil
}
