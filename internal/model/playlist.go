package model

type Playlist struct {
	BaseModel
	OwnerID     uint64 `gorm:"not null;index"`
	Name        string `gorm:"size:256;not null"`
	Description string `gorm:"type:text"`
	// 私有播放列表只有所有者可见
	IsPublic bool `gorm:"default:true"`

	Owner User `gorm:"foreignKey:OwnerID"`
}

// PlaylistVideo 播放列表里的一个条目，Position维持手工排序
type PlaylistVideo struct {
	JoinModel
	PlaylistID uint64 `gorm:"not null;uniqueIndex:idx_playlist_video"`
	VideoID    uint64 `gorm:"not null;uniqueIndex:idx_playlist_video"`
	Position   uint64 `gorm:"not null"`

	Video Video `gorm:"foreignKey:VideoID"`
}

func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}
