package service

import (
	"errors"

	"VidTube/internal/apperror"
	"VidTube/internal/dto"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/repository"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// 点赞服务：点赞是"有或没有"的开关，重复点按取消处理。
// 唯一索引兜底并发，撞索引按"已点过"收场而不是报错。
// toggle类方法点上时返回新建的点赞记录，取消时返回nil
type LikeService interface {
	ToggleVideoLike(viewer model.Viewer, videoID uint64) (*dto.LikeResponse, error)
	ToggleCommentLike(viewer model.Viewer, commentID uint64) (*dto.LikeResponse, error)
	ToggleTweetLike(viewer model.Viewer, tweetID uint64) (*dto.LikeResponse, error)
	// ListLikedVideos 我点过赞的视频，按点赞时间倒序
	ListLikedVideos(viewer model.Viewer, p pagination.Params) (*dto.Page[*dto.VideoResponse], error)
}

type likeService struct {
	likeRepo    repository.LikeRepository
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository
	resolver    RelationResolver
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	tweetRepo repository.TweetRepository,
	resolver RelationResolver,
) LikeService {
	return &likeService{
		likeRepo:    likeRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
		resolver:    resolver,
	}
}

// MySQL错误1062：唯一索引冲突
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// toggle 开关逻辑：1、查现有记录 2、有就删掉(取消) 3、没有就插入(点上)
// 并发下两个请求同时走到插入，后到的撞唯一索引，按"已点上"处理
func (s *likeService) toggle(
	find func() (*model.Like, error),
	newLike func() *model.Like,
) (*dto.LikeResponse, error) {
	existing, err := find()
	if err == nil {
		if err := s.likeRepo.DeleteByID(existing.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	like := newLike()
	if err := s.likeRepo.Create(like); err != nil {
		if isDuplicateKey(err) {
			// 并发下别人抢先点上了，把落库的那条查回来
			if winner, findErr := find(); findErr == nil {
				return dto.ToLikeResponse(winner), nil
			}
			return dto.ToLikeResponse(like), nil
		}
		return nil, err
	}
	return dto.ToLikeResponse(like), nil
}

func (s *likeService) ToggleVideoLike(viewer model.Viewer, videoID uint64) (*dto.LikeResponse, error) {
	video, err := s.videoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("视频")
		}
		return nil, err
	}
	if !video.IsPublished && !viewer.Is(video.OwnerID) {
		return nil, apperror.NotFound("视频")
	}
	return s.toggle(
		func() (*model.Like, error) { return s.likeRepo.FindVideoLike(viewer.ID, videoID) },
		func() *model.Like { return &model.Like{LikedByID: viewer.ID, VideoID: &videoID} },
	)
}

func (s *likeService) ToggleCommentLike(viewer model.Viewer, commentID uint64) (*dto.LikeResponse, error) {
	if _, err := s.commentRepo.FindByID(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("评论")
		}
		return nil, err
	}
	return s.toggle(
		func() (*model.Like, error) { return s.likeRepo.FindCommentLike(viewer.ID, commentID) },
		func() *model.Like { return &model.Like{LikedByID: viewer.ID, CommentID: &commentID} },
	)
}

func (s *likeService) ToggleTweetLike(viewer model.Viewer, tweetID uint64) (*dto.LikeResponse, error) {
	if _, err := s.tweetRepo.FindByID(tweetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("动态")
		}
		return nil, err
	}
	return s.toggle(
		func() (*model.Like, error) { return s.likeRepo.FindTweetLike(viewer.ID, tweetID) },
		func() *model.Like { return &model.Like{LikedByID: viewer.ID, TweetID: &tweetID} },
	)
}

func (s *likeService) ListLikedVideos(viewer model.Viewer, p pagination.Params) (*dto.Page[*dto.VideoResponse], error) {
	videoIDs, total, err := s.likeRepo.ListLikedVideoIDs(viewer.ID, p)
	if err != nil {
		return nil, err
	}
	videos, err := s.videoRepo.FindByIDs(videoIDs)
	if err != nil {
		return nil, err
	}
	// IN查询不保证顺序，按点赞时间重排
	byID := make(map[uint64]*model.Video, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
	}
	ordered := make([]model.Video, 0, len(videoIDs))
	for _, id := range videoIDs {
		if v, ok := byID[id]; ok && v.IsPublished {
			ordered = append(ordered, *v)
		}
	}

	rel, err := s.resolver.ForVideos(viewer, ordered)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.VideoResponse, 0, len(ordered))
	for i := range ordered {
		v := &ordered[i]
		items = append(items, dto.ToVideoResponse(v,
			rel.LikeCounts[v.ID], rel.LikedSet[v.ID],
			rel.SubscriberCounts[v.OwnerID], rel.SubscribedSet[v.OwnerID]))
	}
	return dto.NewPage(items, p.Page, p.Limit, total, p.TotalPages(total)), nil
}
