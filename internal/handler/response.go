package handler

import (
	"errors"
	"net/http"

	"VidTube/internal/apperror"
	"VidTube/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Envelope 所有接口统一的响应外壳，成功和失败长得一样
type Envelope struct {
	Status  int         `json:"status"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

func sendResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Status: status, Data: data, Message: message})
}

// 查询类接口的简写
func sendData(c *gin.Context, data interface{}) {
	sendResponse(c, http.StatusOK, "OK", data)
}

// sendErrorResponse 错误时data为null，消息照常给
func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Envelope{Status: code, Message: message})
}

// handleServiceError 把service层的业务错误翻译成HTTP状态码。
// service层只认apperror里的哨兵，永远不直接认识HTTP。
func handleServiceError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	message := "服务器内部错误"
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch {
	case errors.Is(err, apperror.ErrInvalidArgument):
		sendErrorResponse(c, http.StatusBadRequest, message)
	case errors.Is(err, apperror.ErrUnauthorized):
		sendErrorResponse(c, http.StatusUnauthorized, message)
	case errors.Is(err, apperror.ErrForbidden):
		sendErrorResponse(c, http.StatusForbidden, message)
	case errors.Is(err, apperror.ErrNotFound):
		sendErrorResponse(c, http.StatusNotFound, message)
	case errors.Is(err, apperror.ErrConflict):
		sendErrorResponse(c, http.StatusConflict, message)
	case errors.Is(err, apperror.ErrRateLimited):
		sendErrorResponse(c, http.StatusTooManyRequests, message)
	default:
		// 没分类过的错误按500处理，细节只进日志不出网
		logger.Log.WithError(err).WithField("path", c.FullPath()).Error("未分类的业务错误")
		sendErrorResponse(c, http.StatusInternalServerError, "服务器内部错误")
	}
}
