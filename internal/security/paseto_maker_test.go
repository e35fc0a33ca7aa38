package security

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSymmetricKey = "12345678901234567890123456789012"

func TestNewPasetoMaker(t *testing.T) {
	maker, err := NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)
	require.NotNil(t, maker)

	_, err = NewPasetoMaker("too-short")
	require.Error(t, err)
}

func TestPasetoMaker_CreateAndVerify(t *testing.T) {
	maker, err := NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)

	userID := uuid.New()
	version := time.Now().UnixNano()

	token, payload, err := maker.CreateToken(userID, time.Minute, version, TokenScopeAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotNil(t, payload)

	verified, err := maker.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, verified.UserID)
	assert.Equal(t, version, verified.Version)
	assert.Equal(t, TokenScopeAccess, verified.Scope)
	assert.NotEqual(t, uuid.Nil, verified.ID)
	assert.WithinDuration(t, time.Now().Add(time.Minute), verified.ExpiredAt, time.Second)
}

func TestPasetoMaker_ExpiredToken(t *testing.T) {
	maker, err := NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)

	token, _, err := maker.CreateToken(uuid.New(), -time.Minute, 0, TokenScopeAccess)
	require.NoError(t, err)

	payload, err := maker.VerifyToken(token)
	require.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, payload)
}

func TestPasetoMaker_InvalidToken(t *testing.T) {
	maker, err := NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)

	payload, err := maker.VerifyToken("v2.local.not-a-real-token")
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, payload)

	// Token minted with a different key must not verify
	otherMaker, err := NewPasetoMaker("abcdefghijklmnopqrstuvwxyzabcdef")
	require.NoError(t, err)

	token, _, err := otherMaker.CreateToken(uuid.New(), time.Minute, 0, TokenScopeAccess)
	require.NoError(t, err)

	payload, err = maker.VerifyToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, payload)
}
