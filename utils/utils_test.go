package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPasswordWithCost("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong horse", hash))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ann@example.com"))
	assert.False(t, IsValidEmail("ann"))
	assert.False(t, IsValidEmail("Ann <ann@example.com>"))
	assert.False(t, IsValidEmail(""))
}

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("secret")
	token, err := GenerateJWT(secret, 42, "organizer", "ann", time.Now())
	require.NoError(t, err)

	claims, err := ParseJWT(secret, token)
	require.NoError(t, err)
	assert.Equal(t, float64(42), claims[ClaimUserID])
	assert.Equal(t, "organizer", claims[ClaimRole])

	_, err = ParseJWT([]byte("other"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseJWT_Expired(t *testing.T) {
	secret := []byte("secret")
	token, err := GenerateJWT(secret, 1, "player", "", time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	_, err = ParseJWT(secret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseJWT_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{ClaimUserID: 1})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseJWT([]byte("secret"), signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
