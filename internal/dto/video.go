package dto

import (
	"time"

	"VidTube/internal/model"
)

type VideoResponse struct {
	ID           uint64    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Duration     uint64    `json:"duration"`
	Views        uint64    `json:"views"`
	IsPublished  bool      `json:"is_published"`
	LikesCount   int64     `json:"likes_count"`
	IsLiked      bool      `json:"is_liked"`
	Owner        OwnerInfo `json:"owner"`
}

// ToVideoResponse 把DB模型转换为API响应模型。
// 点赞数/是否点赞/订阅关系不在video行上，由调用方聚合后传入。
func ToVideoResponse(video *model.Video, likesCount int64, isLiked bool, subscribersCount int64, isSubscribed bool) *VideoResponse {
	resp := &VideoResponse{
		ID:           video.ID,
		CreatedAt:    video.CreatedAt,
		Title:        video.Title,
		Description:  video.Description,
		Tags:         video.Tags,
		VideoURL:     video.VideoURL,
		ThumbnailURL: video.ThumbnailURL,
		Duration:     video.Duration,
		Views:        video.Views,
		IsPublished:  video.IsPublished,
		LikesCount:   likesCount,
		IsLiked:      isLiked,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	// 检查Owner是否被成功preload
	if video.Owner.ID != 0 {
		resp.Owner = ToOwnerInfo(&video.Owner, subscribersCount, isSubscribed)
	} else {
		resp.Owner.ID = video.OwnerID
	}
	return resp
}
