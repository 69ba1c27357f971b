package repository

import (
	"VidTube/internal/model"
	"VidTube/internal/pagination"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(commentID uint64) (*model.Comment, error)
	Save(comment *model.Comment) error
	Delete(commentID uint64) error
	DeleteByIDs(commentIDs []uint64) error

	// ListForVideo 只返回顶层评论，回复走ListReplies
	ListForVideo(videoID uint64, p pagination.Params) ([]model.Comment, int64, error)
	ListForTweet(tweetID uint64, p pagination.Params) ([]model.Comment, int64, error)
	// ListReplies 回复固定按创建时间升序，对话按发生顺序读
	ListReplies(parentID uint64, p pagination.Params) ([]model.Comment, int64, error)

	// ReplyIDs 某条评论的直接回复ID，级联删除用
	ReplyIDs(parentID uint64) ([]uint64, error)
	IDsForVideo(videoID uint64) ([]uint64, error)
	IDsForTweet(tweetID uint64) ([]uint64, error)

	// CountReplies 批量统计一组顶层评论各自的直接回复数
	CountReplies(commentIDs []uint64) (map[uint64]int64, error)
	CountForTweets(tweetIDs []uint64) (map[uint64]int64, error)

	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) FindByID(commentID uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("Owner").Preload("ReplyingTo").Preload("ReplyingTo.Owner").
		First(&comment, commentID).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Save(comment *model.Comment) error {
	return r.db.Save(comment).Error
}

func (r *commentRepository) Delete(commentID uint64) error {
	return r.db.Delete(&model.Comment{}, commentID).Error
}

func (r *commentRepository) DeleteByIDs(commentIDs []uint64) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return r.db.Delete(&model.Comment{}, commentIDs).Error
}

func (r *commentRepository) ListForVideo(videoID uint64, p pagination.Params) ([]model.Comment, int64, error) {
	query := r.db.Model(&model.Comment{}).
		Where("video_id = ? AND parent_id IS NULL", videoID)
	return r.listPage(query, p.OrderClause(), p)
}

func (r *commentRepository) ListForTweet(tweetID uint64, p pagination.Params) ([]model.Comment, int64, error) {
	query := r.db.Model(&model.Comment{}).
		Where("tweet_id = ? AND parent_id IS NULL", tweetID)
	return r.listPage(query, p.OrderClause(), p)
}

func (r *commentRepository) ListReplies(parentID uint64, p pagination.Params) ([]model.Comment, int64, error) {
	query := r.db.Model(&model.Comment{}).Where("parent_id = ?", parentID)
	// 无视外部传入的排序，回复始终升序
	return r.listPage(query, "created_at asc", p)
}

func (r *commentRepository) listPage(query *gorm.DB, order string, p pagination.Params) ([]model.Comment, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var comments []model.Comment
	err := query.
		Preload("Owner").Preload("ReplyingTo").Preload("ReplyingTo.Owner").
		Order(order).
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentRepository) ReplyIDs(parentID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&model.Comment{}).Where("parent_id = ?", parentID).Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) IDsForVideo(videoID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&model.Comment{}).Where("video_id = ?", videoID).Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) IDsForTweet(tweetID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&model.Comment{}).Where("tweet_id = ?", tweetID).Pluck("id", &ids).Error
	return ids, err
}

// countBy 按某一列GROUP BY计数，结果装进map，没出现的key调用方按0处理
func (r *commentRepository) countBy(column string, ids []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	type row struct {
		Key   uint64
		Count int64
	}
	var rows []row
	err := r.db.Model(&model.Comment{}).
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

func (r *commentRepository) CountReplies(commentIDs []uint64) (map[uint64]int64, error) {
	return r.countBy("parent_id", commentIDs)
}

func (r *commentRepository) CountForTweets(tweetIDs []uint64) (map[uint64]int64, error) {
	return r.countBy("tweet_id", tweetIDs)
}
