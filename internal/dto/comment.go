package dto

import (
	"time"

	"VidTube/internal/model"
)

// CommentResponse 顶层评论的响应结构，回复列表单独分页获取
type CommentResponse struct {
	ID           uint64    `json:"id"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	IsEdited     bool      `json:"is_edited"`
	LikesCount   int64     `json:"likes_count"`
	RepliesCount int64     `json:"replies_count"`
	IsLiked      bool      `json:"is_liked"`
	// 观察者视角的身份标记，前端据此决定编辑/删除按钮
	IsCommentOwner bool      `json:"is_comment_owner"`
	IsTargetOwner  bool      `json:"is_target_owner"`
	Owner          OwnerInfo `json:"owner"`
}

// ReplyResponse 回复的响应结构，额外带ReplyingTo指明回复给了谁
type ReplyResponse struct {
	CommentResponse
	ReplyingTo *UserInfo `json:"replying_to,omitempty"`
}

// CommentRelations 转换时需要的、与观察者有关的聚合数据
type CommentRelations struct {
	LikesCount     int64
	RepliesCount   int64
	IsLiked        bool
	IsCommentOwner bool
	// 观察者是否是评论所挂载的视频/动态的主人
	IsTargetOwner    bool
	SubscribersCount int64
	IsSubscribed     bool
}

func ToCommentResponse(comment *model.Comment, rel CommentRelations) *CommentResponse {
	resp := &CommentResponse{
		ID:             comment.ID,
		Content:        comment.Content,
		CreatedAt:      comment.CreatedAt,
		IsEdited:       comment.IsEdited,
		LikesCount:     rel.LikesCount,
		RepliesCount:   rel.RepliesCount,
		IsLiked:        rel.IsLiked,
		IsCommentOwner: rel.IsCommentOwner,
		IsTargetOwner:  rel.IsTargetOwner,
	}
	if comment.Owner.ID != 0 {
		resp.Owner = ToOwnerInfo(&comment.Owner, rel.SubscribersCount, rel.IsSubscribed)
	} else {
		resp.Owner.ID = comment.OwnerID
	}
	return resp
}

func ToReplyResponse(comment *model.Comment, rel CommentRelations) *ReplyResponse {
	resp := &ReplyResponse{CommentResponse: *ToCommentResponse(comment, rel)}
	if comment.ReplyingTo != nil && comment.ReplyingTo.Owner.ID != 0 {
		info := ToUserInfo(&comment.ReplyingTo.Owner)
		resp.ReplyingTo = &info
	}
	return resp
}
