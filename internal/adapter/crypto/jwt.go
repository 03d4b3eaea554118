package crypto

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/fcv-2025.net/grader/internal/config"
	"gitlab.com/fcv-2025.net/grader/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

var _ primary.JWTService = (*JWTServiceImpl)(nil)

var (
	ErrInvalidToken = fmt.Errorf("invalid token")
)

type claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type JWTServiceImpl struct {
	HMACSecretKey string
	Issuer        string
	TokenTTL      time.Duration
}

func NewJWTService(jwtConfig *config.JwtConfig) *JWTServiceImpl {
	return &JWTServiceImpl{
		HMACSecretKey: jwtConfig.Secret,
		Issuer:        jwtConfig.Issuer,
		TokenTTL:      jwtConfig.TokenTTL,
	}
}

func (J JWTServiceImpl) GenerateTokenHMAC(ctx context.Context, payload domain.AuthPayload) (string, error) {
	if J.HMACSecretKey == "" {
		return "", fmt.Errorf("no signing secret configured")
	}
	ttl := J.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Roles: payload.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.Subject,
			Issuer:    J.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return tok.SignedString([]byte(J.HMACSecretKey))
}

func (J JWTServiceImpl) VerifyTokenHMAC(ctx context.Context, token string) (domain.AuthPayload, error) {
	var c claims
	parsedToken, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(J.HMACSecretKey), nil
	}, jwt.WithIssuer(J.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return domain.AuthPayload{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsedToken.Valid {
		return domain.AuthPayload{}, ErrInvalidToken
	}

	return domain.AuthPayload{Subject: c.Subject, Roles: c.Roles}, nil
}
