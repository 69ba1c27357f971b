package model

// 点赞是观看者和{视频|评论|推文}三选一之间的关联记录。
// 每种目标各一条联合唯一索引，利用的是MySQL的“自动查重”能力：
// 并发双击也只会留下一条记录，重复插入报1062由上层吸收
type Like struct {
	JoinModel
	LikedByID uint64  `gorm:"not null;uniqueIndex:idx_like_video;uniqueIndex:idx_like_comment;uniqueIndex:idx_like_tweet"`
	VideoID   *uint64 `gorm:"uniqueIndex:idx_like_video"`
	CommentID *uint64 `gorm:"uniqueIndex:idx_like_comment"`
	TweetID   *uint64 `gorm:"uniqueIndex:idx_like_tweet"`
}

func (Like) TableName() string {
	return "likes"
}
