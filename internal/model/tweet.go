package model

// 推文：纯文字、纯图（最多4张）或图文都行
type Tweet struct {
	BaseModel
	OwnerID     uint64   `gorm:"not null;index"`
	TextContent string   `gorm:"type:text"`
	Images      []string `gorm:"serializer:json"`

	Owner User `gorm:"foreignKey:OwnerID"`
}
