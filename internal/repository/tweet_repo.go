package repository

import (
	"VidTube/internal/model"
	"VidTube/internal/pagination"

	"gorm.io/gorm"
)

type TweetRepository interface {
	Create(tweet *model.Tweet) error
	FindByID(tweetID uint64) (*model.Tweet, error)
	Save(tweet *model.Tweet) error
	Delete(tweetID uint64) error
	ListByOwner(ownerID uint64, p pagination.Params) ([]model.Tweet, int64, error)

	WithTx(tx *gorm.DB) TweetRepository
}

type tweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) WithTx(tx *gorm.DB) TweetRepository {
	return &tweetRepository{db: tx}
}

func (r *tweetRepository) Create(tweet *model.Tweet) error {
	return r.db.Create(tweet).Error
}

func (r *tweetRepository) FindByID(tweetID uint64) (*model.Tweet, error) {
	var tweet model.Tweet
	err := r.db.Preload("Owner").First(&tweet, tweetID).Error
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *tweetRepository) Save(tweet *model.Tweet) error {
	return r.db.Save(tweet).Error
}

func (r *tweetRepository) Delete(tweetID uint64) error {
	return r.db.Delete(&model.Tweet{}, tweetID).Error
}

func (r *tweetRepository) ListByOwner(ownerID uint64, p pagination.Params) ([]model.Tweet, int64, error) {
	query := r.db.Model(&model.Tweet{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var tweets []model.Tweet
	err := query.
		Preload("Owner").
		Order(p.OrderClause()).
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&tweets).Error
	if err != nil {
		return nil, 0, err
	}
	return tweets, total, nil
}
