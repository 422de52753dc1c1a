package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("test-secret", time.Hour)

	token, err := svc.GenerateToken(7, 3, "staff")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, int64(3), claims.CenterID)
	assert.Equal(t, "staff", claims.Role)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := New("test-secret", time.Hour)
	other := New("other-secret", time.Hour)
	expired := New("test-secret", -time.Minute)

	foreign, err := other.GenerateToken(7, 3, "staff")
	require.NoError(t, err)
	old, err := expired.GenerateToken(7, 3, "staff")
	require.NoError(t, err)
	noCenter, err := svc.GenerateToken(7, 0, "staff")
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      old,
		"no center":    noCenter,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
