package model

// 评论挂在视频或推文二者之一上；二级评论通过ParentID挂在一级评论上，
// ReplyingToID记录这条回复具体@的是楼中哪条评论（多级回复时和ParentID可以不同）
type Comment struct {
	BaseModel
	OwnerID uint64 `gorm:"not null;index"`
	// TEXT专门用于存储很长的字符串，最大长度可达65,535个字符
	Content  string `gorm:"type:text;not null"`
	IsEdited bool   `gorm:"default:false"`
	// 指针的零值是nil，这样就能区分目标是视频还是推文、是一级还是二级评论
	VideoID      *uint64 `gorm:"index"`
	TweetID      *uint64 `gorm:"index"`
	ParentID     *uint64 `gorm:"index"`
	ReplyingToID *uint64

	Owner      User     `gorm:"foreignKey:OwnerID"`
	ReplyingTo *Comment `gorm:"foreignKey:ReplyingToID"`
}

func (Comment) TableName() string {
	return "comments"
}
