package handler

import (
	"context"
	"net/http"
	"os"

	"VidTube/internal/dto"
	"VidTube/internal/middleware"
	"VidTube/internal/model"
	"VidTube/internal/service"
	"VidTube/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	RefreshTokens(c *gin.Context)
	ChangePassword(c *gin.Context)
	ResetPassword(c *gin.Context)

	GetCurrentUser(c *gin.Context)
	UpdateAccount(c *gin.Context)
	UpdateAvatar(c *gin.Context)
	UpdateCover(c *gin.Context)

	GetChannelProfile(c *gin.Context)
	SearchChannels(c *gin.Context)
	CheckUsername(c *gin.Context)
	CheckEmail(c *gin.Context)

	UpdateSocials(c *gin.Context)
	GetSocials(c *gin.Context)
}

type userHandler struct {
	UserService service.UserService
}

func NewUserHandler(userService service.UserService) UserHandler {
	return &userHandler{UserService: userService}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	OtpCode  string `json:"otp_code" binding:"required,len=6"`
}

// 注册：1、绑定参数 2、service层校验验证码并创建用户 3、返回脱敏后的用户信息
func (h *userHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("注册参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	logCtx := logger.Log.WithField("username", req.Username)
	logCtx.Info("开始处理注册请求")

	user, err := h.UserService.Register(c.Request.Context(), req.Username, req.Email, req.FullName, req.Password, req.OtpCode)
	if err != nil {
		logCtx.WithError(err).Warn("注册失败")
		handleServiceError(c, err)
		return
	}
	logCtx.WithField("user_id", user.ID).Info("注册成功")
	sendResponse(c, http.StatusCreated, "注册成功", dto.ToUserResponse(user))
}

type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

func (h *userHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	auth, err := h.UserService.Login(req.UsernameOrEmail, req.Password)
	if err != nil {
		// 登录失败不写用户名进日志级别更高的字段，避免撞库时刷屏
		logger.Log.WithField("ip", c.ClientIP()).Warn("登录失败")
		handleServiceError(c, err)
		return
	}
	logger.Log.WithField("user_id", auth.User.ID).Info("登录成功")
	sendResponse(c, http.StatusOK, "登录成功", auth)
}

func (h *userHandler) Logout(c *gin.Context) {
	viewer := middleware.ViewerFrom(c)
	if err := h.UserService.Logout(viewer.ID); err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "已退出登录", nil)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *userHandler) RefreshTokens(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	auth, err := h.UserService.RefreshTokens(req.RefreshToken)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "令牌已刷新", auth)
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h *userHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	viewer := middleware.ViewerFrom(c)
	if err := h.UserService.ChangePassword(viewer.ID, req.OldPassword, req.NewPassword); err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "密码已修改，请重新登录", nil)
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OtpCode     string `json:"otp_code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h *userHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	if err := h.UserService.ResetPassword(c.Request.Context(), req.Email, req.OtpCode, req.NewPassword); err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "密码已重置，请重新登录", nil)
}

func (h *userHandler) GetCurrentUser(c *gin.Context) {
	viewer := middleware.ViewerFrom(c)
	user, err := h.UserService.GetCurrentUser(viewer.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, dto.ToUserResponse(user))
}

type UpdateAccountRequest struct {
	FullName string `json:"full_name"`
	Bio      string `json:"bio" binding:"max=500"`
}

func (h *userHandler) UpdateAccount(c *gin.Context) {
	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	viewer := middleware.ViewerFrom(c)
	user, err := h.UserService.UpdateAccount(viewer.ID, req.FullName, req.Bio)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "资料已更新", dto.ToUserResponse(user))
}

// 图片类上传的统一大小上限
const maxImageSize = 1 << 20 // 1MB

func (h *userHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", h.UserService.UpdateAvatar)
}

func (h *userHandler) UpdateCover(c *gin.Context) {
	h.updateImage(c, "cover", h.UserService.UpdateCover)
}

func (h *userHandler) updateImage(c *gin.Context, field string, update func(ctx context.Context, userID uint64, localPath string) (*model.User, error)) {
	file, err := c.FormFile(field)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "缺少"+field+"文件")
		return
	}
	if file.Size > maxImageSize {
		sendErrorResponse(c, http.StatusBadRequest, "图片不能超过1MB")
		return
	}
	localPath, err := saveUpload(c, file)
	if err != nil {
		sendErrorResponse(c, http.StatusInternalServerError, "文件保存失败")
		return
	}
	defer os.Remove(localPath)

	viewer := middleware.ViewerFrom(c)
	user, err := update(c.Request.Context(), viewer.ID, localPath)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "上传成功", dto.ToUserResponse(user))
}

func (h *userHandler) GetChannelProfile(c *gin.Context) {
	username := c.Param("username")
	viewer := middleware.ViewerFrom(c)
	profile, err := h.UserService.GetChannelProfile(viewer, username)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, profile)
}

func (h *userHandler) SearchChannels(c *gin.Context) {
	viewer := middleware.ViewerFrom(c)
	channels, err := h.UserService.SearchChannels(viewer, c.Query("query"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, channels)
}

func (h *userHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		sendErrorResponse(c, http.StatusBadRequest, "缺少username参数")
		return
	}
	available, err := h.UserService.CheckUsernameAvailable(username)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, gin.H{"available": available})
}

func (h *userHandler) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		sendErrorResponse(c, http.StatusBadRequest, "缺少email参数")
		return
	}
	available, err := h.UserService.CheckEmailAvailable(email)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, gin.H{"available": available})
}

type SocialsRequest struct {
	Facebook  string `json:"facebook"`
	X         string `json:"x"`
	Instagram string `json:"instagram"`
	Linkedin  string `json:"linkedin"`
	Github    string `json:"github"`
	Website   string `json:"website"`
}

func (h *userHandler) UpdateSocials(c *gin.Context) {
	var req SocialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	viewer := middleware.ViewerFrom(c)
	social, err := h.UserService.UpdateSocials(viewer.ID, &model.Social{
		Facebook:  req.Facebook,
		X:         req.X,
		Instagram: req.Instagram,
		Linkedin:  req.Linkedin,
		Github:    req.Github,
		Website:   req.Website,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "社交链接已更新", dto.ToSocialResponse(social))
}

func (h *userHandler) GetSocials(c *gin.Context) {
	social, err := h.UserService.GetSocials(c.Param("username"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, dto.ToSocialResponse(social))
}
