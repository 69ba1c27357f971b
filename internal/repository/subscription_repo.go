package repository

import (
	"VidTube/internal/model"
	"VidTube/internal/pagination"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Create(subscription *model.Subscription) error
	DeleteByID(subscriptionID uint64) error
	// Find 查订阅关系，不存在返回gorm.ErrRecordNotFound
	Find(subscriberID, channelID uint64) (*model.Subscription, error)

	// CountForChannels 批量统计各频道的订阅者数
	CountForChannels(channelIDs []uint64) (map[uint64]int64, error)
	// SubscribedSet 返回userID在给定频道集合中已订阅的那部分
	SubscribedSet(userID uint64, channelIDs []uint64) (map[uint64]bool, error)
	// CountSubscribedTo 用户自己订阅了多少个频道
	CountSubscribedTo(subscriberID uint64) (int64, error)

	// ListSubscribers 订阅了channelID的用户
	ListSubscribers(channelID uint64, p pagination.Params) ([]model.User, int64, error)
	// ListSubscribed subscriberID订阅的频道
	ListSubscribed(subscriberID uint64, p pagination.Params) ([]model.User, int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(subscription *model.Subscription) error {
	return r.db.Create(subscription).Error
}

func (r *subscriptionRepository) DeleteByID(subscriptionID uint64) error {
	return r.db.Delete(&model.Subscription{}, subscriptionID).Error
}

func (r *subscriptionRepository) Find(subscriberID, channelID uint64) (*model.Subscription, error) {
	var subscription model.Subscription
	err := r.db.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		First(&subscription).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *subscriptionRepository) CountForChannels(channelIDs []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64, len(channelIDs))
	if len(channelIDs) == 0 {
		return result, nil
	}
	type row struct {
		Key   uint64
		Count int64
	}
	var rows []row
	err := r.db.Model(&model.Subscription{}).
		Select("channel_id as `key`, COUNT(*) as count").
		Where("channel_id IN (?)", channelIDs).
		Group("channel_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, item := range rows {
		result[item.Key] = item.Count
	}
	return result, nil
}

func (r *subscriptionRepository) SubscribedSet(userID uint64, channelIDs []uint64) (map[uint64]bool, error) {
	result := make(map[uint64]bool, len(channelIDs))
	if len(channelIDs) == 0 {
		return result, nil
	}
	var subscribedIDs []uint64
	err := r.db.Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id IN (?)", userID, channelIDs).
		Pluck("channel_id", &subscribedIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range subscribedIDs {
		result[id] = true
	}
	return result, nil
}

func (r *subscriptionRepository) CountSubscribedTo(subscriberID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	return count, err
}

// 订阅列表用JOIN一次取出用户行，避免先取ID再回表
func (r *subscriptionRepository) listUsers(matchColumn, pluckColumn string, id uint64, p pagination.Params) ([]model.User, int64, error) {
	countQuery := r.db.Model(&model.Subscription{}).Where(matchColumn+" = ?", id)
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := r.db.Model(&model.User{}).
		Joins("JOIN subscriptions ON subscriptions."+pluckColumn+" = users.id").
		Where("subscriptions."+matchColumn+" = ?", id).
		Order("subscriptions.created_at desc").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *subscriptionRepository) ListSubscribers(channelID uint64, p pagination.Params) ([]model.User, int64, error) {
	return r.listUsers("channel_id", "subscriber_id", channelID, p)
}

func (r *subscriptionRepository) ListSubscribed(subscriberID uint64, p pagination.Params) ([]model.User, int64, error) {
	return r.listUsers("subscriber_id", "channel_id", subscriberID, p)
}
