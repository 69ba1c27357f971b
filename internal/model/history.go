package model

// WatchHistory 观看记录，同一观看者同一视频在“观看者本地的同一天”内只留最新一条。
// LocalDate在写入时按观看者时区算好存起来（YYYY-MM-DD），
// 读取分组直接按这一列分，避免写入按本地日、读取按UTC日的两套口径
type WatchHistory struct {
	JoinModel
	VideoID     uint64 `gorm:"not null;index"`
	WatchedByID uint64 `gorm:"not null;index"`
	LocalDate   string `gorm:"size:10;not null;index"`

	Video Video `gorm:"foreignKey:VideoID"`
}

func (WatchHistory) TableName() string {
	return "watch_histories"
}
