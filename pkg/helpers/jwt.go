package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// PurposeConfirm tags tokens that prove control of an email address.
const PurposeConfirm = "confirm"

// JWTManager issues and verifies HS256 identity tokens. The secret is loaded
// once at startup and shared by every instance of the service.
type JWTManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewJWTManager(secret, issuer string) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt: empty signing secret")
	}
	return &JWTManager{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// WithClock returns a copy of m reading time from now.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	c := *m
	c.now = now
	return &c
}

type Claims struct {
	UserID  string `json:"uid"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a token for subject valid for ttl.
func (m *JWTManager) Issue(subject, purpose string, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("jwt: empty subject")
	}
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("jwt: non-positive ttl %s", ttl)
	}
	now := m.now()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID:  subject,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

// Verify checks signature and expiry and returns the decoded claims.
// It fails with ErrExpiredToken past expiry and ErrInvalidToken otherwise.
func (m *JWTManager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(m.issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.Subject == "" || claims.UserID != claims.Subject {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
