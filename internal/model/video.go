package model

// Video结构，视频都要有什么？up主（作者），标题，简介，媒体地址，发布开关
type Video struct {
	BaseModel
	OwnerID     uint64 `gorm:"not null;index"`
	Title       string `gorm:"size:256;not null"`
	Description string `gorm:"type:text"`
	// serializer:json让gorm把切片存成一列JSON，省掉一张标签表
	Tags         []string `gorm:"serializer:json"`
	VideoURL     string   `gorm:"not null"`
	ThumbnailURL string   `gorm:"not null"`
	// 时长（秒），由存储层在上传时探测出来
	Duration    uint64 `gorm:"default:0"`
	Views       uint64 `gorm:"default:0"`
	IsPublished bool   `gorm:"not null;index"`

	Owner User `gorm:"foreignKey:OwnerID;references:ID"`
}
