package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocc/videocc/internal/shared/authorization"
	"github.com/videocc/videocc/internal/shared/biztime"
)

func TestJWTService_GenerateAndVerify(t *testing.T) {
	clock := biztime.NewManualClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	svc := NewJWTService("secret", "videocc", 15, clock)

	token, err := svc.Generate(42, authorization.RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.MemberID)
	assert.Equal(t, authorization.RoleAdmin, claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestJWTService_Rejects(t *testing.T) {
	clock := biztime.NewManualClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	svc := NewJWTService("secret", "videocc", 15, clock)

	token, err := svc.Generate(7, authorization.RoleMember)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		clock.Advance(16 * time.Minute)
		defer clock.Advance(-16 * time.Minute)
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService("other", "videocc", 15, clock)
		_, err := other.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService("secret", "someone-else", 15, clock)
		_, err := other.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{MemberID: 7}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Verify(none)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
