package service

import (
	"context"
	"testing"

	"VidTube/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendCode(t *testing.T) {
	env := newTestEnv()
	svc := NewOtpService(env.otpRepo, env.sender)

	require.NoError(t, svc.SendCode(context.Background(), "alice@example.com", OtpPurposeRegister))
	assert.Len(t, env.sender.sent, 1)

	code, purpose, err := env.otpRepo.GetCode(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Equal(t, OtpPurposeRegister, purpose)

	err = svc.SendCode(context.Background(), "alice@example.com", "hack")
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

// 一码一用：验证通过后同一个码立即失效
func TestVerifyCode_SingleUse(t *testing.T) {
	env := newTestEnv()
	svc := NewOtpService(env.otpRepo, env.sender)

	code := sendAndFetchCode(t, env, "alice@example.com", OtpPurposeRegister)
	require.NoError(t, svc.VerifyCode(context.Background(), "alice@example.com", code, OtpPurposeRegister))

	err := svc.VerifyCode(context.Background(), "alice@example.com", code, OtpPurposeRegister)
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

// 码对但用途不对也不放行，重置码不能拿去注册
func TestVerifyCode_PurposeMismatch(t *testing.T) {
	env := newTestEnv()
	svc := NewOtpService(env.otpRepo, env.sender)

	code := sendAndFetchCode(t, env, "alice@example.com", OtpPurposeReset)
	err := svc.VerifyCode(context.Background(), "alice@example.com", code, OtpPurposeRegister)
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	// 用途对了才能过
	require.NoError(t, svc.VerifyCode(context.Background(), "alice@example.com", code, OtpPurposeReset))
}

// 同一邮箱每天限量，超出后限流
func TestSendCode_DailyQuota(t *testing.T) {
	env := newTestEnv()
	svc := NewOtpService(env.otpRepo, env.sender)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.SendCode(context.Background(), "alice@example.com", OtpPurposeRegister))
	}
	err := svc.SendCode(context.Background(), "alice@example.com", OtpPurposeRegister)
	assert.ErrorIs(t, err, apperror.ErrRateLimited)

	// 别的邮箱不受影响
	require.NoError(t, svc.SendCode(context.Background(), "bob@example.com", OtpPurposeRegister))
}

// 重发覆盖旧码，旧码作废
func TestSendCode_ResendOverwrites(t *testing.T) {
	env := newTestEnv()
	svc := NewOtpService(env.otpRepo, env.sender)

	first := sendAndFetchCode(t, env, "alice@example.com", OtpPurposeRegister)
	second := sendAndFetchCode(t, env, "alice@example.com", OtpPurposeRegister)

	if first != second {
		err := svc.VerifyCode(context.Background(), "alice@example.com", first, OtpPurposeRegister)
		assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	}
	require.NoError(t, svc.VerifyCode(context.Background(), "alice@example.com", second, OtpPurposeRegister))
}
