package handler

import (
	"net/http"

	"VidTube/internal/service"
	"VidTube/pkg/logger"

	"github.com/gin-gonic/gin"
)

type OtpHandler interface {
	SendCode(c *gin.Context)
}

type otpHandler struct {
	OtpService service.OtpService
}

func NewOtpHandler(otpService service.OtpService) OtpHandler {
	return &otpHandler{OtpService: otpService}
}

type SendOtpRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"required,oneof=register reset"`
}

// 发送验证码：配额超了回429，邮箱是否注册过不在这里暴露
func (h *otpHandler) SendCode(c *gin.Context) {
	var req SendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	logCtx := logger.Log.WithField("purpose", req.Purpose)
	if err := h.OtpService.SendCode(c.Request.Context(), req.Email, req.Purpose); err != nil {
		logCtx.WithError(err).Warn("验证码发送失败")
		handleServiceError(c, err)
		return
	}
	logCtx.Info("验证码已发送")
	sendResponse(c, http.StatusOK, "验证码已发送，请查收邮件", nil)
}
