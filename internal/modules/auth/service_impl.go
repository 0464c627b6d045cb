package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongIssuer  = errors.New("token issued by an unknown issuer")
)

type service struct {
	key    []byte
	issuer string
	ttl    time.Duration
}

// NewService creates a new auth service.
func NewService(cfg Config) Service {
	return &service{key: []byte(cfg.Secret), issuer: cfg.Issuer, ttl: cfg.TTL}
}

func (s *service) IssueToken(principal ledger.Address) (string, error) {
	now := time.Now()
	claims := &jwt.StandardClaims{
		Subject:   principal.String(),
		Issuer:    s.issuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *service) Authenticate(tokenString string) (ledger.Address, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Issuer != s.issuer {
		return "", ErrWrongIssuer
	}

	principal, err := ledger.ParseAddress(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return principal, nil
}
