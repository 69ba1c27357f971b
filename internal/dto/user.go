package dto

import (
	"time"

	"VidTube/internal/model"
)

// UserInfo 是在DTO中使用的、简化的用户信息
type UserInfo struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

func ToUserInfo(user *model.User) UserInfo {
	return UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
	}
}

// OwnerInfo 在UserInfo的基础上附带观察者视角的订阅关系
type OwnerInfo struct {
	UserInfo
	SubscribersCount int64 `json:"subscribers_count"`
	IsSubscribed     bool  `json:"is_subscribed"`
}

func ToOwnerInfo(user *model.User, subscribersCount int64, isSubscribed bool) OwnerInfo {
	return OwnerInfo{
		UserInfo:         ToUserInfo(user),
		SubscribersCount: subscribersCount,
		IsSubscribed:     isSubscribed,
	}
}

// UserResponse 是当前登录用户的完整信息
type UserResponse struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	CoverURL  string    `json:"cover_url"`
	Bio       string    `json:"bio"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		CoverURL:  user.CoverURL,
		Bio:       user.Bio,
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt,
	}
}

// AuthResponse 登录/刷新成功后的响应
type AuthResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
}

// ChannelProfileResponse 频道主页聚合信息
type ChannelProfileResponse struct {
	ID                uint64 `json:"id"`
	Username          string `json:"username"`
	FullName          string `json:"full_name"`
	AvatarURL         string `json:"avatar_url"`
	CoverURL          string `json:"cover_url"`
	Bio               string `json:"bio"`
	SubscribersCount  int64  `json:"subscribers_count"`
	SubscribedToCount int64  `json:"subscribed_to_count"`
	IsSubscribed      bool   `json:"is_subscribed"`
}

// SocialResponse 用户的社交链接
type SocialResponse struct {
	Facebook  string `json:"facebook"`
	X         string `json:"x"`
	Instagram string `json:"instagram"`
	Linkedin  string `json:"linkedin"`
	Github    string `json:"github"`
	Website   string `json:"website"`
}

func ToSocialResponse(social *model.Social) *SocialResponse {
	if social == nil {
		return &SocialResponse{}
	}
	return &SocialResponse{
		Facebook:  social.Facebook,
		X:         social.X,
		Instagram: social.Instagram,
		Linkedin:  social.Linkedin,
		Github:    social.Github,
		Website:   social.Website,
	}
}
