package repository

import (
	"VidTube/internal/model"

	"gorm.io/gorm"
)

type HistoryRepository interface {
	Create(entry *model.WatchHistory) error
	// DeleteForDate 删除用户在某个本地日期内对某视频的旧记录，同日重看只留最新一条
	DeleteForDate(userID, videoID uint64, localDate string) error

	// DistinctDates 用户有观看记录的本地日期，新的在前，按"天"分页
	DistinctDates(userID uint64, offset, limit int) ([]string, error)
	CountDistinctDates(userID uint64) (int64, error)
	// ListByDates 给定日期集合内的记录，已删除/未发布的视频整条跳过
	ListByDates(userID uint64, dates []string) ([]model.WatchHistory, error)

	ClearForUser(userID uint64) error
	DeleteForVideo(videoID uint64) error

	WithTx(tx *gorm.DB) HistoryRepository
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) WithTx(tx *gorm.DB) HistoryRepository {
	return &historyRepository{db: tx}
}

func (r *historyRepository) Create(entry *model.WatchHistory) error {
	return r.db.Create(entry).Error
}

func (r *historyRepository) DeleteForDate(userID, videoID uint64, localDate string) error {
	return r.db.Where("watched_by_id = ? AND video_id = ? AND local_date = ?", userID, videoID, localDate).
		Delete(&model.WatchHistory{}).Error
}

func (r *historyRepository) DistinctDates(userID uint64, offset, limit int) ([]string, error) {
	var dates []string
	err := r.db.Model(&model.WatchHistory{}).
		Distinct("local_date").
		Where("watched_by_id = ?", userID).
		Order("local_date desc").
		Offset(offset).
		Limit(limit).
		Pluck("local_date", &dates).Error
	return dates, err
}

func (r *historyRepository) CountDistinctDates(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.WatchHistory{}).
		Distinct("local_date").
		Where("watched_by_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *historyRepository) ListByDates(userID uint64, dates []string) ([]model.WatchHistory, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	var entries []model.WatchHistory
	err := r.db.Preload("Video").Preload("Video.Owner").
		Joins("JOIN videos ON videos.id = watch_histories.video_id AND videos.is_published = ? AND videos.deleted_at IS NULL", true).
		Where("watch_histories.watched_by_id = ? AND watch_histories.local_date IN (?)", userID, dates).
		Order("watch_histories.created_at desc").
		Find(&entries).Error
	return entries, err
}

func (r *historyRepository) ClearForUser(userID uint64) error {
	return r.db.Where("watched_by_id = ?", userID).Delete(&model.WatchHistory{}).Error
}

func (r *historyRepository) DeleteForVideo(videoID uint64) error {
	return r.db.Where("video_id = ?", videoID).Delete(&model.WatchHistory{}).Error
}
