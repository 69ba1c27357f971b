package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"VidTube/internal/apperror"
	"VidTube/internal/repository"
	"VidTube/pkg/email"
	"VidTube/pkg/logger"
)

const (
	OtpPurposeRegister = "register"
	OtpPurposeReset    = "reset"
)

// 验证码服务：发码走邮件，码和每日配额都存Redis
type OtpService interface {
	SendCode(ctx context.Context, toEmail, purpose string) error
	// VerifyCode 校验通过后立即销毁验证码，一码一用
	VerifyCode(ctx context.Context, toEmail, code, purpose string) error
}

type otpService struct {
	otpRepo repository.OtpRepository
	sender  email.Sender
}

func NewOtpService(otpRepo repository.OtpRepository, sender email.Sender) OtpService {
	return &otpService{otpRepo: otpRepo, sender: sender}
}

// 发送验证码：1、检查每日配额 2、生成6位数字码 3、覆盖写入Redis 4、发送邮件
func (s *otpService) SendCode(ctx context.Context, toEmail, purpose string) error {
	if purpose != OtpPurposeRegister && purpose != OtpPurposeReset {
		return apperror.InvalidArgument("不支持的验证码用途")
	}

	count, quota, err := s.otpRepo.IncrRequestCount(ctx, toEmail)
	if err != nil {
		return err
	}
	if count > quota {
		return apperror.RateLimited("验证码发送太频繁，请明天再试")
	}

	code, err := generateCode()
	if err != nil {
		return apperror.Internal("验证码生成失败")
	}
	if err := s.otpRepo.SaveCode(ctx, toEmail, code, purpose); err != nil {
		return err
	}

	var subject, body string
	if purpose == OtpPurposeReset {
		subject = "VidTube 密码重置验证码"
		body = email.RenderTemplate(email.PasswordResetTemplate, toEmail, code)
	} else {
		subject = "VidTube 邮箱验证码"
		body = email.RenderTemplate(email.VerificationEmailTemplate, toEmail, code)
	}
	if err := s.sender.Send(toEmail, subject, body); err != nil {
		logger.Log.WithError(err).WithField("email", toEmail).Error("验证码邮件发送失败")
		return apperror.Internal("邮件发送失败，请稍后重试")
	}
	return nil
}

// 验证码是安全凭证，用密码学随机源生成6位数字
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// 校验验证码：码不对、过期、用途不符都按同一个错误返回，不给枚举者提示
func (s *otpService) VerifyCode(ctx context.Context, toEmail, code, purpose string) error {
	storedCode, storedPurpose, err := s.otpRepo.GetCode(ctx, toEmail)
	if err != nil {
		return err
	}
	if storedCode == "" || storedCode != code || storedPurpose != purpose {
		return apperror.InvalidArgument("验证码错误或已过期")
	}
	// 一码一用，验证通过立即删除
	return s.otpRepo.DeleteCode(ctx, toEmail)
}
