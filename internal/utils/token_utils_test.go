package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("etl-service", "secret", time.Hour, "finance_pipeline")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "etl-service", claims.Subject)
	assert.Equal(t, "finance_pipeline", claims.Issuer)
}

func TestParseAndValidateJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT("etl-service", "secret", time.Hour, "finance_pipeline")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "other")
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestParseAndValidateJWT_Expired(t *testing.T) {
	token, err := GenerateJWT("etl-service", "secret", -time.Minute, "finance_pipeline")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
