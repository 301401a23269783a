package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_ValidCredentials(t *testing.T) {
	assert := assert.New(t)

	svc := NewAuthService()

	resp, err := svc.Login("admin", "password123")
	require.NoError(t, err)
	assert.NotEmpty(resp.Token)
	assert.NotEmpty(resp.HostID)

	claims, err := svc.ValidateHostToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(resp.HostID, claims.HostID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := NewAuthService()

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPlayerToken_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	svc := NewAuthService()

	token, err := svc.GeneratePlayerToken("ABC123", "p_42")
	require.NoError(t, err)

	claims, err := svc.ValidatePlayerToken(token)
	require.NoError(t, err)
	assert.Equal("ABC123", claims.RoomCode)
	assert.Equal("p_42", claims.PlayerID)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewAuthService()

	_, err := svc.ValidateHostToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidatePlayerToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
