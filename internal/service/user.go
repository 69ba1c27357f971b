package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"VidTube/internal/apperror"
	"VidTube/internal/dto"
	"VidTube/internal/model"
	"VidTube/internal/repository"
	"VidTube/pkg/storage"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 用户服务：注册登录、令牌轮转、资料维护、频道主页聚合
type UserService interface {
	Register(ctx context.Context, username, email, fullName, password, otpCode string) (*model.User, error)
	Login(usernameOrEmail, password string) (*dto.AuthResponse, error)
	Logout(userID uint64) error
	// RefreshTokens 校验并轮转refresh token，旧token随即失效
	RefreshTokens(refreshToken string) (*dto.AuthResponse, error)
	ChangePassword(userID uint64, oldPassword, newPassword string) error
	ResetPassword(ctx context.Context, email, otpCode, newPassword string) error

	GetCurrentUser(userID uint64) (*model.User, error)
	UpdateAccount(userID uint64, fullName, bio string) (*model.User, error)
	UpdateAvatar(ctx context.Context, userID uint64, localPath string) (*model.User, error)
	UpdateCover(ctx context.Context, userID uint64, localPath string) (*model.User, error)

	GetChannelProfile(viewer model.Viewer, username string) (*dto.ChannelProfileResponse, error)
	SearchChannels(viewer model.Viewer, keyword string) ([]dto.OwnerInfo, error)
	CheckUsernameAvailable(username string) (bool, error)
	CheckEmailAvailable(email string) (bool, error)

	UpdateSocials(userID uint64, social *model.Social) (*model.Social, error)
	GetSocials(username string) (*model.Social, error)
}

type userService struct {
	userRepo repository.UserRepository
	subRepo  repository.SubscriptionRepository
	resolver RelationResolver
	otp      OtpService
	store    storage.Storage
}

func NewUserService(
	userRepo repository.UserRepository,
	subRepo repository.SubscriptionRepository,
	resolver RelationResolver,
	otp OtpService,
	store storage.Storage,
) UserService {
	return &userService{
		userRepo: userRepo,
		subRepo:  subRepo,
		resolver: resolver,
		otp:      otp,
		store:    store,
	}
}

// 注册逻辑：1、校验邮箱验证码 2、检查用户名/邮箱是否被占用 3、密码加密存储 4、创建用户
func (s *userService) Register(ctx context.Context, username, email, fullName, password, otpCode string) (*model.User, error) {
	if err := s.otp.VerifyCode(ctx, email, otpCode, OtpPurposeRegister); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsernameOrEmail(username, email); err == nil {
		return nil, apperror.Conflict("用户名或邮箱已被占用")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser := &model.User{
		Username: username,
		Email:    email,
		FullName: fullName,
		Password: string(hashedPassword),
		// 走过验证码的邮箱直接置为已验证
		Verified: true,
	}
	if err := s.userRepo.Create(newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}

// 登录逻辑：1、按用户名或邮箱找人 2、比对密码 3、签发一对令牌并落库refresh token
func (s *userService) Login(usernameOrEmail, password string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByUsernameOrEmail(usernameOrEmail, usernameOrEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("用户名或密码错误")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.Unauthorized("用户名或密码错误")
	}
	return s.issueTokens(user)
}

func (s *userService) issueTokens(user *model.User) (*dto.AuthResponse, error) {
	accessToken, err := generateToken(user, EnvAccessSecret, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := generateToken(user, EnvRefreshSecret, RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	// refresh token落库，退出登录/轮转时靠它吊销
	if err := s.userRepo.UpdateRefreshToken(user.ID, refreshToken); err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		User:         dto.ToUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *userService) Logout(userID uint64) error {
	// 清空落库的refresh token，已签发的refresh token全部失效
	return s.userRepo.UpdateRefreshToken(userID, "")
}

// 刷新令牌：1、验签 2、和库里存的refresh token比对（防重放） 3、轮转出新的一对
func (s *userService) RefreshTokens(refreshToken string) (*dto.AuthResponse, error) {
	userID, err := ParseToken(refreshToken, EnvRefreshSecret)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("令牌无效或已过期")
		}
		return nil, err
	}
	// 只认最近一次签发的refresh token
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, apperror.Unauthorized("令牌已被使用或吊销")
	}
	return s.issueTokens(user)
}

func (s *userService) ChangePassword(userID uint64, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperror.InvalidArgument("原密码错误")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	// 改密码同时吊销refresh token，其他设备需要重新登录
	user.RefreshToken = ""
	return s.userRepo.Save(user)
}

// 忘记密码：凭邮箱验证码直接改密
func (s *userService) ResetPassword(ctx context.Context, email, otpCode, newPassword string) error {
	if err := s.otp.VerifyCode(ctx, email, otpCode, OtpPurposeReset); err != nil {
		return err
	}
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("用户")
		}
		return err
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	user.RefreshToken = ""
	return s.userRepo.Save(user)
}

func (s *userService) GetCurrentUser(userID uint64) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("用户")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateAccount(userID uint64, fullName, bio string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if fullName != "" {
		user.FullName = fullName
	}
	user.Bio = bio
	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// 上传头像：1、传MinIO 2、更新用户行 3、尽力删除旧文件
func (s *userService) UpdateAvatar(ctx context.Context, userID uint64, localPath string) (*model.User, error) {
	return s.updateImage(ctx, userID, localPath, "avatars", func(user *model.User, url string) string {
		old := user.AvatarURL
		user.AvatarURL = url
		return old
	})
}

func (s *userService) UpdateCover(ctx context.Context, userID uint64, localPath string) (*model.User, error) {
	return s.updateImage(ctx, userID, localPath, "covers", func(user *model.User, url string) string {
		old := user.CoverURL
		user.CoverURL = url
		return old
	})
}

func (s *userService) updateImage(ctx context.Context, userID uint64, localPath, prefix string, swap func(*model.User, string) string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	objectName := fmt.Sprintf("%s/%d_%d.jpg", prefix, userID, time.Now().UnixNano())
	url, err := s.store.Upload(ctx, objectName, localPath, "image/jpeg")
	if err != nil {
		return nil, apperror.Internal("文件上传失败")
	}
	oldURL := swap(user, url)
	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	if oldURL != "" {
		// 旧文件删不掉不影响主流程
		_ = s.store.Delete(ctx, oldURL)
	}
	return user, nil
}

// 频道主页：基础资料 + 订阅数 + 我订阅了他没有 + 他订阅了多少人
func (s *userService) GetChannelProfile(viewer model.Viewer, username string) (*dto.ChannelProfileResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("频道")
		}
		return nil, err
	}
	rel, err := s.resolver.ForChannels(viewer, []uint64{user.ID})
	if err != nil {
		return nil, err
	}
	subscribedTo, err := s.subRepo.CountSubscribedTo(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.ChannelProfileResponse{
		ID:                user.ID,
		Username:          user.Username,
		FullName:          user.FullName,
		AvatarURL:         user.AvatarURL,
		CoverURL:          user.CoverURL,
		Bio:               user.Bio,
		SubscribersCount:  rel.SubscriberCounts[user.ID],
		SubscribedToCount: subscribedTo,
		IsSubscribed:      rel.SubscribedSet[user.ID],
	}, nil
}

func (s *userService) SearchChannels(viewer model.Viewer, keyword string) ([]dto.OwnerInfo, error) {
	if keyword == "" {
		return []dto.OwnerInfo{}, nil
	}
	users, err := s.userRepo.SearchChannels(keyword, 20)
	if err != nil {
		return nil, err
	}
	channelIDs := make([]uint64, 0, len(users))
	for _, u := range users {
		channelIDs = append(channelIDs, u.ID)
	}
	rel, err := s.resolver.ForChannels(viewer, channelIDs)
	if err != nil {
		return nil, err
	}
	result := make([]dto.OwnerInfo, 0, len(users))
	for i := range users {
		u := &users[i]
		result = append(result, dto.ToOwnerInfo(u, rel.SubscriberCounts[u.ID], rel.SubscribedSet[u.ID]))
	}
	return result, nil
}

func (s *userService) CheckUsernameAvailable(username string) (bool, error) {
	_, err := s.userRepo.FindByUsername(username)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	return false, err
}

func (s *userService) CheckEmailAvailable(email string) (bool, error) {
	_, err := s.userRepo.FindByEmail(email)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	return false, err
}

func (s *userService) UpdateSocials(userID uint64, social *model.Social) (*model.Social, error) {
	social.UserID = userID
	if err := s.userRepo.UpsertSocial(social); err != nil {
		return nil, err
	}
	return s.userRepo.FindSocial(userID)
}

func (s *userService) GetSocials(username string) (*model.Social, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("频道")
		}
		return nil, err
	}
	social, err := s.userRepo.FindSocial(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 没填过社交链接不算错误，返回空对象
			return nil, nil
		}
		return nil, err
	}
	return social, nil
}
