package repository

import (
	"VidTube/internal/model"
	"VidTube/internal/pagination"

	"gorm.io/gorm"
)

type LikeRepository interface {
	Create(like *model.Like) error
	DeleteByID(likeID uint64) error

	// Find*Like 查"我是否点过赞"，没点过返回gorm.ErrRecordNotFound
	FindVideoLike(userID, videoID uint64) (*model.Like, error)
	FindCommentLike(userID, commentID uint64) (*model.Like, error)
	FindTweetLike(userID, tweetID uint64) (*model.Like, error)

	// Count* 批量统计每个目标的点赞数
	CountForVideos(videoIDs []uint64) (map[uint64]int64, error)
	CountForComments(commentIDs []uint64) (map[uint64]int64, error)
	CountForTweets(tweetIDs []uint64) (map[uint64]int64, error)

	// *Set 返回userID在给定集合中点过赞的那部分目标ID
	LikedVideoSet(userID uint64, videoIDs []uint64) (map[uint64]bool, error)
	LikedCommentSet(userID uint64, commentIDs []uint64) (map[uint64]bool, error)
	LikedTweetSet(userID uint64, tweetIDs []uint64) (map[uint64]bool, error)

	// ListLikedVideoIDs 用户点过赞的视频ID，按点赞时间倒序分页
	ListLikedVideoIDs(userID uint64, p pagination.Params) ([]uint64, int64, error)

	DeleteForVideo(videoID uint64) error
	DeleteForComments(commentIDs []uint64) error
	DeleteForTweet(tweetID uint64) error

	WithTx(tx *gorm.DB) LikeRepository
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) WithTx(tx *gorm.DB) LikeRepository {
	return &likeRepository{db: tx}
}

func (r *likeRepository) Create(like *model.Like) error {
	return r.db.Create(like).Error
}

func (r *likeRepository) DeleteByID(likeID uint64) error {
	return r.db.Delete(&model.Like{}, likeID).Error
}

func (r *likeRepository) findLike(column string, userID, targetID uint64) (*model.Like, error) {
	var like model.Like
	err := r.db.Where("liked_by_id = ? AND "+column+" = ?", userID, targetID).First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) FindVideoLike(userID, videoID uint64) (*model.Like, error) {
	return r.findLike("video_id", userID, videoID)
}

func (r *likeRepository) FindCommentLike(userID, commentID uint64) (*model.Like, error) {
	return r.findLike("comment_id", userID, commentID)
}

func (r *likeRepository) FindTweetLike(userID, tweetID uint64) (*model.Like, error) {
	return r.findLike("tweet_id", userID, tweetID)
}

func (r *likeRepository) countBy(column string, ids []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	type row struct {
		Key   uint64
		Count int64
	}
	var rows []row
	err := r.db.Model(&model.Like{}).
		Select(column+" as `key`, COUNT(*) as count").
		Where(column+" IN (?)", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, item := range rows {
		result[item.Key] = item.Count
	}
	return result, nil
}

func (r *likeRepository) CountForVideos(videoIDs []uint64) (map[uint64]int64, error) {
	return r.countBy("video_id", videoIDs)
}

func (r *likeRepository) CountForComments(commentIDs []uint64) (map[uint64]int64, error) {
	return r.countBy("comment_id", commentIDs)
}

func (r *likeRepository) CountForTweets(tweetIDs []uint64) (map[uint64]int64, error) {
	return r.countBy("tweet_id", tweetIDs)
}

func (r *likeRepository) likedSet(column string, userID uint64, ids []uint64) (map[uint64]bool, error) {
	result := make(map[uint64]bool, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var likedIDs []uint64
	err := r.db.Model(&model.Like{}).
		Where("liked_by_id = ? AND "+column+" IN (?)", userID, ids).
		Pluck(column, &likedIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range likedIDs {
		result[id] = true
	}
	return result, nil
}

func (r *likeRepository) LikedVideoSet(userID uint64, videoIDs []uint64) (map[uint64]bool, error) {
	return r.likedSet("video_id", userID, videoIDs)
}

func (r *likeRepository) LikedCommentSet(userID uint64, commentIDs []uint64) (map[uint64]bool, error) {
	return r.likedSet("comment_id", userID, commentIDs)
}

func (r *likeRepository) LikedTweetSet(userID uint64, tweetIDs []uint64) (map[uint64]bool, error) {
	return r.likedSet("tweet_id", userID, tweetIDs)
}

func (r *likeRepository) ListLikedVideoIDs(userID uint64, p pagination.Params) ([]uint64, int64, error) {
	query := r.db.Model(&model.Like{}).
		Where("liked_by_id = ? AND video_id IS NOT NULL", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ids []uint64
	err := query.
		Order("created_at desc").
		Offset(p.Offset()).
		Limit(p.Limit).
		Pluck("video_id", &ids).Error
	if err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}

func (r *likeRepository) DeleteForVideo(videoID uint64) error {
	return r.db.Where("video_id = ?", videoID).Delete(&model.Like{}).Error
}

func (r *likeRepository) DeleteForComments(commentIDs []uint64) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return r.db.Where("comment_id IN (?)", commentIDs).Delete(&model.Like{}).Error
}

func (r *likeRepository) DeleteForTweet(tweetID uint64) error {
	return r.db.Where("tweet_id = ?", tweetID).Delete(&model.Like{}).Error
}
