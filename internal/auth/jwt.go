// Package auth covers session token issuance and credential hashing.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// IssueToken signs a session token for the given user. The token carries
// only the user id and timestamps; nothing is persisted server-side.
func IssueToken(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(secret)
}

// VerifyToken validates signature and expiry, returning the encoded user id
// and the issue time. Fails closed: any parse problem is an error.
func VerifyToken(tokenString string, secret []byte) (uuid.UUID, time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, time.Time{}, err
	}
	if !token.Valid {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}
	if claims.IssuedAt == nil {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}
	return userID, claims.IssuedAt.Time, nil
}
