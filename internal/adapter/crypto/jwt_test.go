package crypto_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fcv-2025.net/grader/internal/adapter/crypto"
	"gitlab.com/fcv-2025.net/grader/internal/config"
	"gitlab.com/fcv-2025.net/grader/internal/domain"
)

func newService() *crypto.JWTServiceImpl {
	return crypto.NewJWTService(&config.JwtConfig{Secret: "s3cret", Issuer: "fcv-grader", TokenTTL: time.Minute})
}

func TestGenerateAndVerify(t *testing.T) {
	svc := newService()

	token, err := svc.GenerateTokenHMAC(context.Background(), domain.AuthPayload{Subject: "ci-runner", Roles: []string{"grader"}})
	require.NoError(t, err)

	payload, err := svc.VerifyTokenHMAC(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "ci-runner", payload.Subject)
	assert.Equal(t, []string{"grader"}, payload.Roles)
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	svc := newService()
	other := crypto.NewJWTService(&config.JwtConfig{Secret: "other", Issuer: "fcv-grader", TokenTTL: time.Minute})
	foreign, err := other.GenerateTokenHMAC(context.Background(), domain.AuthPayload{Subject: "x"})
	require.NoError(t, err)

	_, err = svc.VerifyTokenHMAC(context.Background(), foreign)
	require.ErrorIs(t, err, crypto.ErrInvalidToken)

	_, err = svc.VerifyTokenHMAC(context.Background(), "not.a.token")
	require.ErrorIs(t, err, crypto.ErrInvalidToken)
}

func TestVerifyRejectsExpiredAndWrongIssuer(t *testing.T) {
	svc := newService()
	sign := func(c jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("s3cret"))
		require.NoError(t, err)
		return s
	}

	expired := sign(jwt.MapClaims{"sub": "a", "iss": "fcv-grader", "exp": time.Now().Add(-time.Minute).Unix()})
	_, err := svc.VerifyTokenHMAC(context.Background(), expired)
	require.ErrorIs(t, err, crypto.ErrInvalidToken)

	wrongIssuer := sign(jwt.MapClaims{"sub": "a", "iss": "someone-else", "exp": time.Now().Add(time.Minute).Unix()})
	_, err = svc.VerifyTokenHMAC(context.Background(), wrongIssuer)
	require.ErrorIs(t, err, crypto.ErrInvalidToken)

	noExpiry := sign(jwt.MapClaims{"sub": "a", "iss": "fcv-grader"})
	_, err = svc.VerifyTokenHMAC(context.Background(), noExpiry)
	require.ErrorIs(t, err, crypto.ErrInvalidToken)
}

func TestGenerateRequiresSecret(t *testing.T) {
	svc := crypto.NewJWTService(&config.JwtConfig{})
	_, err := svc.GenerateTokenHMAC(context.Background(), domain.AuthPayload{Subject: "x"})
	require.Error(t, err)
}
