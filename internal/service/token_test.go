package service

import (
	"testing"
	"time"

	"VidTube/internal/apperror"
	"VidTube/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	user := &model.User{Username: "alice"}
	user.ID = 42

	token, err := generateToken(user, EnvAccessSecret, time.Hour)
	require.NoError(t, err)

	userID, err := ParseToken(token, EnvAccessSecret)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
}

// access和refresh用不同密钥签发，互相不能混用
func TestParseToken_WrongSecret(t *testing.T) {
	user := &model.User{Username: "alice"}
	user.ID = 42

	token, err := generateToken(user, EnvAccessSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, EnvRefreshSecret)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("definitely.not.ajwt", EnvAccessSecret)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestParseToken_Expired(t *testing.T) {
	user := &model.User{Username: "alice"}
	user.ID = 42

	token, err := generateToken(user, EnvAccessSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, EnvAccessSecret)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
