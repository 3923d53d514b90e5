package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "linkboard/internal/errors"
)

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, issued, err := svc.Issue(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, issued.ID)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Equal(t, issued.ID, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.TTL().Seconds(), 5)
}

func TestJWTService_IssueUsesUniqueTokenIDs(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	_, first, err := svc.Issue(userID)
	require.NoError(t, err)
	_, second, err := svc.Issue(userID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestJWTService_VerifyFailures(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	expired, _, err := NewJWTService("test-secret", -time.Minute).Issue(userID)
	require.NoError(t, err)

	foreign, _, err := NewJWTService("other-secret", time.Hour).Issue(userID)
	require.NoError(t, err)

	foreignExpired, _, err := NewJWTService("other-secret", -time.Minute).Issue(userID)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"expired", expired, apperrors.ErrTokenExpired},
		{"wrong secret", foreign, apperrors.ErrTokenSignature},
		{"wrong secret and expired", foreignExpired, apperrors.ErrTokenSignature},
		{"unexpected algorithm", noneAlg, apperrors.ErrTokenSignature},
		{"garbage", "not-a-token", apperrors.ErrTokenMalformed},
		{"empty", "", apperrors.ErrTokenMalformed},
		{"missing subject", noSubject, apperrors.ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}
