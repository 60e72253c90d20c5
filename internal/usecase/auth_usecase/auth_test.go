package auth_test

import (
	"testing"
	"time"

	auth "ecoshop/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHashAndVerify(t *testing.T) {
	hasher := auth.NewBcryptPasswordHasher(4)
	verifier := auth.NewBcryptPasswordVerifier()

	hashed, err := hasher.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hashed)

	assert.True(t, verifier.Verify("correct horse", hashed))
	assert.False(t, verifier.Verify("wrong horse", hashed))
}

func TestJWTIssuer_Issue(t *testing.T) {
	issuer, err := auth.NewJWTIssuer("secret", time.Hour)
	require.NoError(t, err)

	now := time.Now().Truncate(time.Second)
	signed, exp, err := issuer.Issue(42, 3, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	tok, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, "42", claims[auth.ClaimSubject])
	assert.Equal(t, float64(3), claims[auth.ClaimTokenVersion])
	assert.Equal(t, float64(exp.Unix()), claims["exp"])
}

func TestNewJWTIssuer_Invalid(t *testing.T) {
	_, err := auth.NewJWTIssuer("", time.Hour)
	assert.EqualError(t, err, "jwt secret is empty")

	_, err = auth.NewJWTIssuer("secret", 0)
	assert.EqualError(t, err, "access ttl must be positive")
}
