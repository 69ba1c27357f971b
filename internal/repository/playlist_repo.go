package repository

import (
	"VidTube/internal/model"

	"gorm.io/gorm"
)

type PlaylistRepository interface {
	Create(playlist *model.Playlist) error
	FindByID(playlistID uint64) (*model.Playlist, error)
	Save(playlist *model.Playlist) error
	Delete(playlistID uint64) error
	// ListByOwner includePrivate为false时只返回公开播放列表
	ListByOwner(ownerID uint64, includePrivate bool) ([]model.Playlist, error)

	// HasVideo 播放列表中是否已收录该视频
	HasVideo(playlistID, videoID uint64) (bool, error)
	AddVideo(entry *model.PlaylistVideo) error
	RemoveVideo(playlistID, videoID uint64) error
	// MaxPosition 当前最大位置序号，空列表返回0
	MaxPosition(playlistID uint64) (int, error)
	// ListVideos 按收录顺序返回已发布的视频条目
	ListVideos(playlistID uint64) ([]model.PlaylistVideo, error)
	// CountVideos 批量统计各播放列表收录的已发布视频数
	CountVideos(playlistIDs []uint64) (map[uint64]int64, error)
	RemoveVideoEverywhere(videoID uint64) error

	WithTx(tx *gorm.DB) PlaylistRepository
}

type playlistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) WithTx(tx *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: tx}
}

func (r *playlistRepository) Create(playlist *model.Playlist) error {
	return r.db.Create(playlist).Error
}

func (r *playlistRepository) FindByID(playlistID uint64) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.First(&playlist, playlistID).Error
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *playlistRepository) Save(playlist *model.Playlist) error {
	return r.db.Save(playlist).Error
}

// 删除播放列表时连同收录关系一起清掉
func (r *playlistRepository) Delete(playlistID uint64) error {
	if err := r.db.Where("playlist_id = ?", playlistID).Delete(&model.PlaylistVideo{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Playlist{}, playlistID).Error
}

func (r *playlistRepository) ListByOwner(ownerID uint64, includePrivate bool) ([]model.Playlist, error) {
	query := r.db.Where("owner_id = ?", ownerID)
	if !includePrivate {
		query = query.Where("is_public = ?", true)
	}
	var playlists []model.Playlist
	err := query.Order("created_at desc").Find(&playlists).Error
	return playlists, err
}

func (r *playlistRepository) HasVideo(playlistID, videoID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&model.PlaylistVideo{}).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Count(&count).Error
	return count > 0, err
}

func (r *playlistRepository) AddVideo(entry *model.PlaylistVideo) error {
	return r.db.Create(entry).Error
}

func (r *playlistRepository) RemoveVideo(playlistID, videoID uint64) error {
	return r.db.Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&model.PlaylistVideo{}).Error
}

func (r *playlistRepository) MaxPosition(playlistID uint64) (int, error) {
	var max int
	err := r.db.Model(&model.PlaylistVideo{}).
		Where("playlist_id = ?", playlistID).
		Select("COALESCE(MAX(position),0)").
		Scan(&max).Error
	return max, err
}

func (r *playlistRepository) ListVideos(playlistID uint64) ([]model.PlaylistVideo, error) {
	var entries []model.PlaylistVideo
	// 下架的视频不从列表里摘除，读的时候过滤
	err := r.db.Preload("Video").Preload("Video.Owner").
		Joins("JOIN videos ON videos.id = playlist_videos.video_id AND videos.is_published = ? AND videos.deleted_at IS NULL", true).
		Where("playlist_videos.playlist_id = ?", playlistID).
		Order("playlist_videos.position asc").
		Find(&entries).Error
	return entries, err
}

func (r *playlistRepository) CountVideos(playlistIDs []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64, len(playlistIDs))
	if len(playlistIDs) == 0 {
		return result, nil
	}
	type row struct {
		Key   uint64
		Count int64
	}
	var rows []row
	err := r.db.Model(&model.PlaylistVideo{}).
		Select("playlist_videos.playlist_id as `key`, COUNT(*) as count").
		Joins("JOIN videos ON videos.id = playlist_videos.video_id AND videos.is_published = ? AND videos.deleted_at IS NULL", true).
		Where("playlist_videos.playlist_id IN (?)", playlistIDs).
		Group("playlist_videos.playlist_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, item := range rows {
		result[item.Key] = item.Count
	}
	return result, nil
}

// RemoveVideoEverywhere 视频被删除时从所有播放列表中摘除
func (r *playlistRepository) RemoveVideoEverywhere(videoID uint64) error {
	return r.db.Where("video_id = ?", videoID).Delete(&model.PlaylistVideo{}).Error
}
