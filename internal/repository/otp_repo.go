package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// 验证码有效期
	otpCodeTTL = 10 * time.Minute
	// 单邮箱每日发送配额
	otpDailyQuota = 5
)

// OtpRepository 验证码只存Redis，带TTL自动过期，不落库
type OtpRepository interface {
	// SaveCode 存验证码和用途(register/reset)，覆盖旧码
	SaveCode(ctx context.Context, email, code, purpose string) error
	// GetCode 返回(code, purpose)，不存在或已过期时code为空串
	GetCode(ctx context.Context, email string) (string, string, error)
	DeleteCode(ctx context.Context, email string) error
	// IncrRequestCount 自增当日发送计数，返回自增后的值和配额上限
	IncrRequestCount(ctx context.Context, email string) (int64, int64, error)
}

type otpRepository struct {
	rdb *redis.Client
}

func NewOtpRepository(rdb *redis.Client) OtpRepository {
	return &otpRepository{rdb: rdb}
}

func (r *otpRepository) keyCode(email string) string {
	return fmt.Sprintf("otp:code:%s", email)
}

func (r *otpRepository) keyQuota(email string) string {
	return fmt.Sprintf("otp:quota:%s", email)
}

func (r *otpRepository) SaveCode(ctx context.Context, email, code, purpose string) error {
	key := r.keyCode(email)
	// HSet加Expire打包成pipeline，减少一次往返
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key, "code", code, "purpose", purpose)
	pipe.Expire(ctx, key, otpCodeTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *otpRepository) GetCode(ctx context.Context, email string) (string, string, error) {
	fields, err := r.rdb.HGetAll(ctx, r.keyCode(email)).Result()
	if err != nil {
		return "", "", err
	}
	return fields["code"], fields["purpose"], nil
}

func (r *otpRepository) DeleteCode(ctx context.Context, email string) error {
	return r.rdb.Del(ctx, r.keyCode(email)).Err()
}

func (r *otpRepository) IncrRequestCount(ctx context.Context, email string) (int64, int64, error) {
	key := r.keyQuota(email)
	count, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	// 第一次计数时设24小时过期，滚动窗口
	if count == 1 {
		if err := r.rdb.Expire(ctx, key, 24*time.Hour).Err(); err != nil {
			return 0, 0, err
		}
	}
	return count, otpDailyQuota, nil
}
