package model

// 订阅者 → 频道 的关联关系，联合唯一索引确保一对订阅只有一条记录
type Subscription struct {
	JoinModel
	SubscriberID uint64 `gorm:"not null;uniqueIndex:idx_sub_channel"`
	ChannelID    uint64 `gorm:"not null;uniqueIndex:idx_sub_channel;index"`

	Subscriber User `gorm:"foreignKey:SubscriberID"`
	Channel    User `gorm:"foreignKey:ChannelID"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
