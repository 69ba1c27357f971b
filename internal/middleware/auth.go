package middleware

import (
	"net/http"
	"strings"

	"VidTube/internal/model"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

const viewerKey = "viewer"

// ViewerFrom 从context里取出观察者身份，没走过中间件就是匿名
func ViewerFrom(c *gin.Context) model.Viewer {
	value, exists := c.Get(viewerKey)
	if !exists {
		return model.Anonymous
	}
	viewer, ok := value.(model.Viewer)
	if !ok {
		return model.Anonymous
	}
	return viewer
}

func parseBearer(c *gin.Context) (uint64, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return 0, false
	}
	// 通常Token的格式是 "Bearer [token]"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}
	userID, err := service.ParseToken(parts[1], service.EnvAccessSecret)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// RequireAuth 必须带有效令牌，否则直接401拦下
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseBearer(c)
		if !ok {
			// 立刻Abort，阻止后续的任何处理器被执行
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请求未包含有效的授权令牌"})
			return
		}
		c.Set(viewerKey, model.Viewer{ID: userID, Authenticated: true})
		c.Next()
	}
}

// OptionalAuth 带令牌就解析出身份，不带就按匿名放行。
// 公共读接口用它，让"是否点赞/是否订阅"这类字段对登录用户生效。
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := parseBearer(c); ok {
			c.Set(viewerKey, model.Viewer{ID: userID, Authenticated: true})
		}
		c.Next()
	}
}
