// Package auth issues and verifies bearer tokens and gates per-user routes.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Status is the outcome of Verify.
type Status int

const (
	StatusValid Status = iota
	StatusInvalid
	StatusAbsent
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusAbsent:
		return "absent"
	default:
		return "invalid"
	}
}

// Claims carries the registered claims plus the user key the token is bound to.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

var errEmptyUserID = errors.New("empty user id")

// TokenService signs and checks HS256 tokens with a process-wide secret.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokenService(secret []byte, validity time.Duration) *TokenService {
	return &TokenService{secret: secret, validity: validity, now: time.Now}
}

// Issue returns a signed token for userID with iat and exp set.
func (s *TokenService) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errEmptyUserID
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		UserID: userID,
	})

	return token.SignedString(s.secret)
}

// Verify never returns an error: an empty token is StatusAbsent, anything
// that does not parse, is not HS256, fails the signature, is expired or
// has no UserID is StatusInvalid.
func (s *TokenService) Verify(tokenString string) (string, Status) {
	if tokenString == "" {
		return "", StatusAbsent
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", StatusInvalid
	}

	return claims.UserID, StatusValid
}
