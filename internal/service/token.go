package service

import (
	"os"
	"time"

	"VidTube/internal/apperror"
	"VidTube/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// access token短期有效，refresh token长期有效且落库可吊销
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 10 * 24 * time.Hour

	EnvAccessSecret  = "JWT_SECRET_KEY"
	EnvRefreshSecret = "JWT_REFRESH_SECRET_KEY"
)

// 生成一个签名的JWT。Payload不加密，绝不能放密码
func generateToken(user *model.User, secretEnv string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(ttl).Unix(), // 过期时间
		"iat":      time.Now().Unix(),          // 签发时间
	}
	// Header带上算法信息HS256，对称加密
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv(secretEnv)))
}

// ParseToken 校验签名和过期时间，返回token里的user_id
func ParseToken(tokenString, secretEnv string) (uint64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.Unauthorized("非法的令牌签名算法")
		}
		return []byte(os.Getenv(secretEnv)), nil
	})
	if err != nil || !token.Valid {
		return 0, apperror.Unauthorized("令牌无效或已过期")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, apperror.Unauthorized("令牌无效或已过期")
	}
	// JSON数字解出来是float64
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, apperror.Unauthorized("令牌无效或已过期")
	}
	return uint64(userID), nil
}
