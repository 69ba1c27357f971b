package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"VidTube/internal/model"
	"VidTube/internal/pagination"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// VideoListFilter 视频列表的过滤条件，零值字段不参与过滤
type VideoListFilter struct {
	OwnerID       uint64
	Search        string
	PublishedOnly bool
}

type VideoRepository interface {
	Create(video *model.Video) error
	FindByID(videoID uint64) (*model.Video, error)
	Save(video *model.Video) error
	Delete(videoID uint64) error
	// List 返回一页视频和同一口径下的总数
	List(filter VideoListFilter, p pagination.Params) ([]model.Video, int64, error)
	FindByIDs(videoIDs []uint64) ([]model.Video, error)
	// ListByOwner 创作者后台用：含未发布，按时间倒序
	ListByOwner(ownerID uint64) ([]model.Video, error)
	// OwnerStats 创作者的总播放量和视频数
	OwnerStats(ownerID uint64) (totalViews int64, totalVideos int64, err error)
	IncrementViews(videoID uint64) error

	GetVideoCache(videoID uint64) (*model.Video, error)
	SetVideoCache(video *model.Video) error
	DropVideoCache(videoID uint64) error

	WithTx(tx *gorm.DB) VideoRepository
}

type videoRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewVideoRepository(db *gorm.DB, rdb *redis.Client) VideoRepository {
	return &videoRepository{db: db, rdb: rdb}
}

// WithTx 返回一个新的、绑定事务的实例。事务里不碰Redis
func (r *videoRepository) WithTx(tx *gorm.DB) VideoRepository {
	return &videoRepository{db: tx}
}

func (r *videoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

// 利用videoID找视频，preload其中的Owner结构
func (r *videoRepository) FindByID(videoID uint64) (*model.Video, error) {
	var video model.Video
	err := r.db.Preload("Owner").First(&video, videoID).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) Save(video *model.Video) error {
	return r.db.Save(video).Error
}

func (r *videoRepository) Delete(videoID uint64) error {
	return r.db.Delete(&model.Video{}, videoID).Error
}

func (r *videoRepository) List(filter VideoListFilter, p pagination.Params) ([]model.Video, int64, error) {
	query := r.db.Model(&model.Video{})
	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR tags LIKE ?", pattern, pattern, pattern)
	}

	// 总数和取数用同一组where条件，totalPages才不会和内容打架
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var videos []model.Video
	err := query.
		Preload("Owner").
		Order(p.OrderClause()).
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

func (r *videoRepository) FindByIDs(videoIDs []uint64) ([]model.Video, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	var videos []model.Video
	err := r.db.Preload("Owner").Where("id IN (?)", videoIDs).Find(&videos).Error
	return videos, err
}

func (r *videoRepository) ListByOwner(ownerID uint64) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at desc").Find(&videos).Error
	return videos, err
}

func (r *videoRepository) OwnerStats(ownerID uint64) (int64, int64, error) {
	type row struct {
		TotalViews  int64
		TotalVideos int64
	}
	var result row
	err := r.db.Model(&model.Video{}).
		Select("COALESCE(SUM(views),0) as total_views, COUNT(*) as total_videos").
		Where("owner_id = ?", ownerID).
		Scan(&result).Error
	return result.TotalViews, result.TotalVideos, err
}

// 原子更新：UPDATE `videos` SET `views` = `views` + 1 WHERE id = ?
func (r *videoRepository) IncrementViews(videoID uint64) error {
	return r.db.Model(&model.Video{}).Where("id = ?", videoID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *videoRepository) keyVideoInfo(videoID uint64) string {
	return fmt.Sprintf("video:info:%d", videoID)
}

// 从Redis缓存中获取单个Video信息，缓存不存在返回(nil, nil)
func (r *videoRepository) GetVideoCache(videoID uint64) (*model.Video, error) {
	if r.rdb == nil {
		return nil, nil
	}
	videoJSON, err := r.rdb.Get(context.Background(), r.keyVideoInfo(videoID)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var video model.Video
	if err := json.Unmarshal([]byte(videoJSON), &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// 将单个视频信息存入Redis缓存，过期时间加随机抖动防止缓存雪崩
func (r *videoRepository) SetVideoCache(video *model.Video) error {
	if r.rdb == nil {
		return nil
	}
	videoJSON, err := json.Marshal(video)
	if err != nil {
		return err
	}
	expiration := time.Minute*5 + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(context.Background(), r.keyVideoInfo(video.ID), videoJSON, expiration).Err()
}

// DropVideoCache 视频被编辑/删除/改发布状态后主动失效缓存
func (r *videoRepository) DropVideoCache(videoID uint64) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(context.Background(), r.keyVideoInfo(videoID)).Err()
}
