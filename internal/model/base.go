package model

import (
	"time"

	"gorm.io/gorm"
)

// 由于gorm的基本结构中ID是uint类型，我想都统一成uint64，所以自己搞了个base结构体
type BaseModel struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// 关联记录（点赞、订阅、播放列表条目、观看历史）不走软删除：
// 软删除残留的行会让联合唯一索引失效，而“存在即状态”的开关语义要求索引是真的
type JoinModel struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
}
