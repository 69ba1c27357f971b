package dto

import (
	"time"

	"VidTube/internal/model"
)

type TweetResponse struct {
	ID            uint64    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	TextContent   string    `json:"text_content"`
	Images        []string  `json:"images"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	IsLiked       bool      `json:"is_liked"`
	Owner         OwnerInfo `json:"owner"`
}

func ToTweetResponse(tweet *model.Tweet, likesCount, commentsCount int64, isLiked bool, subscribersCount int64, isSubscribed bool) *TweetResponse {
	resp := &TweetResponse{
		ID:            tweet.ID,
		CreatedAt:     tweet.CreatedAt,
		TextContent:   tweet.TextContent,
		Images:        tweet.Images,
		LikesCount:    likesCount,
		CommentsCount: commentsCount,
		IsLiked:       isLiked,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if tweet.Owner.ID != 0 {
		resp.Owner = ToOwnerInfo(&tweet.Owner, subscribersCount, isSubscribed)
	} else {
		resp.Owner.ID = tweet.OwnerID
	}
	return resp
}
