package dto

import (
	"time"

	"VidTube/internal/model"
)

// LikeResponse 点上时返回的点赞记录，三个目标ID里只有一个非空
type LikeResponse struct {
	ID        uint64    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LikedByID uint64    `json:"liked_by_id"`
	VideoID   *uint64   `json:"video_id,omitempty"`
	CommentID *uint64   `json:"comment_id,omitempty"`
	TweetID   *uint64   `json:"tweet_id,omitempty"`
}

func ToLikeResponse(like *model.Like) *LikeResponse {
	return &LikeResponse{
		ID:        like.ID,
		CreatedAt: like.CreatedAt,
		LikedByID: like.LikedByID,
		VideoID:   like.VideoID,
		CommentID: like.CommentID,
		TweetID:   like.TweetID,
	}
}

// SubscriptionResponse 订阅成功时返回的订阅记录
type SubscriptionResponse struct {
	ID           uint64    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	SubscriberID uint64    `json:"subscriber_id"`
	ChannelID    uint64    `json:"channel_id"`
}

func ToSubscriptionResponse(sub *model.Subscription) *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:           sub.ID,
		CreatedAt:    sub.CreatedAt,
		SubscriberID: sub.SubscriberID,
		ChannelID:    sub.ChannelID,
	}
}
