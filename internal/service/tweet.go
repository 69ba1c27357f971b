package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"VidTube/internal/apperror"
	"VidTube/internal/data"
	"VidTube/internal/dto"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/repository"
	"VidTube/pkg/logger"
	"VidTube/pkg/storage"

	"gorm.io/gorm"
)

const MaxTweetImages = 4

// UpdateTweetInput 编辑动态的材料：改文字、留图、换图一把交
type UpdateTweetInput struct {
	Text string
	// KeepImages 要保留的已有配图URL，不在列表里的视为弃用并从对象存储删除
	KeepImages []string
	// NewImagePaths 新增配图的本地临时路径
	NewImagePaths []string
}

// 动态服务：纯文字加最多四张配图的小短文
type TweetService interface {
	CreateTweet(ctx context.Context, viewer model.Viewer, text string, imagePaths []string) (*dto.TweetResponse, error)
	GetTweet(viewer model.Viewer, tweetID uint64) (*dto.TweetResponse, error)
	UpdateTweet(ctx context.Context, viewer model.Viewer, tweetID uint64, input UpdateTweetInput) (*dto.TweetResponse, error)
	// DeleteTweet 连同动态下的评论和所有相关的赞一起清掉
	DeleteTweet(ctx context.Context, viewer model.Viewer, tweetID uint64) error
	ListUserTweets(viewer model.Viewer, userID uint64, p pagination.Params) (*dto.Page[*dto.TweetResponse], error)
}

type tweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
	uow       data.UnitOfWork
	resolver  RelationResolver
	store     storage.Storage
}

func NewTweetService(
	tweetRepo repository.TweetRepository,
	userRepo repository.UserRepository,
	uow data.UnitOfWork,
	resolver RelationResolver,
	store storage.Storage,
) TweetService {
	return &tweetService{
		tweetRepo: tweetRepo,
		userRepo:  userRepo,
		uow:       uow,
		resolver:  resolver,
		store:     store,
	}
}

// 发动态：1、校验文字和配图数量 2、配图逐张传MinIO 3、落库
func (s *tweetService) CreateTweet(ctx context.Context, viewer model.Viewer, text string, imagePaths []string) (*dto.TweetResponse, error) {
	if text == "" {
		return nil, apperror.InvalidArgument("动态内容不能为空")
	}
	if len(imagePaths) > MaxTweetImages {
		return nil, apperror.InvalidArgument(fmt.Sprintf("配图最多%d张", MaxTweetImages))
	}

	images := make([]string, 0, len(imagePaths))
	for i, path := range imagePaths {
		objectName := fmt.Sprintf("tweets/%d_%d_%d.jpg", viewer.ID, time.Now().UnixNano(), i)
		url, err := s.store.Upload(ctx, objectName, path, "image/jpeg")
		if err != nil {
			// 传一半失败，把已传的回收掉
			for _, uploaded := range images {
				_ = s.store.Delete(ctx, uploaded)
			}
			return nil, apperror.Internal("配图上传失败")
		}
		images = append(images, url)
	}

	tweet := &model.Tweet{
		OwnerID:     viewer.ID,
		TextContent: text,
		Images:      images,
	}
	if err := s.tweetRepo.Create(tweet); err != nil {
		return nil, err
	}
	created, err := s.tweetRepo.FindByID(tweet.ID)
	if err != nil {
		return nil, err
	}
	return dto.ToTweetResponse(created, 0, 0, false, 0, false), nil
}

func (s *tweetService) GetTweet(viewer model.Viewer, tweetID uint64) (*dto.TweetResponse, error) {
	tweet, err := s.tweetRepo.FindByID(tweetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("动态")
		}
		return nil, err
	}
	rel, err := s.resolver.ForTweets(viewer, []model.Tweet{*tweet})
	if err != nil {
		return nil, err
	}
	return dto.ToTweetResponse(tweet,
		rel.LikeCounts[tweet.ID], rel.CommentCounts[tweet.ID], rel.LikedSet[tweet.ID],
		rel.SubscriberCounts[tweet.OwnerID], rel.SubscribedSet[tweet.OwnerID]), nil
}

// 编辑动态：1、校验文字和图片总数 2、留下KeepImages里的旧图 3、新图传MinIO
// 4、落库后把弃用的旧图从对象存储删掉(尽力而为)
func (s *tweetService) UpdateTweet(ctx context.Context, viewer model.Viewer, tweetID uint64, input UpdateTweetInput) (*dto.TweetResponse, error) {
	if input.Text == "" {
		return nil, apperror.InvalidArgument("动态内容不能为空")
	}
	tweet, err := s.tweetRepo.FindByID(tweetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("动态")
		}
		return nil, err
	}
	if !viewer.Is(tweet.OwnerID) {
		return nil, apperror.Forbidden("只有动态主人可以编辑")
	}

	// 只认这条动态自己的图，别人的URL混进来直接无视
	keepSet := make(map[string]bool, len(input.KeepImages))
	for _, url := range input.KeepImages {
		keepSet[url] = true
	}
	kept := make([]string, 0, len(tweet.Images))
	dropped := make([]string, 0, len(tweet.Images))
	for _, url := range tweet.Images {
		if keepSet[url] {
			kept = append(kept, url)
		} else {
			dropped = append(dropped, url)
		}
	}
	if len(kept)+len(input.NewImagePaths) > MaxTweetImages {
		return nil, apperror.InvalidArgument(fmt.Sprintf("配图最多%d张", MaxTweetImages))
	}

	keptOld := len(kept)
	for i, path := range input.NewImagePaths {
		objectName := fmt.Sprintf("tweets/%d_%d_%d.jpg", viewer.ID, time.Now().UnixNano(), i)
		url, err := s.store.Upload(ctx, objectName, path, "image/jpeg")
		if err != nil {
			// 传一半失败，把这次新传的回收掉，旧图原样不动
			for _, uploaded := range kept[keptOld:] {
				_ = s.store.Delete(ctx, uploaded)
			}
			return nil, apperror.Internal("配图上传失败")
		}
		kept = append(kept, url)
	}

	tweet.TextContent = input.Text
	tweet.Images = kept
	if err := s.tweetRepo.Save(tweet); err != nil {
		return nil, err
	}
	for _, url := range dropped {
		_ = s.store.Delete(ctx, url)
	}
	rel, err := s.resolver.ForTweets(viewer, []model.Tweet{*tweet})
	if err != nil {
		return nil, err
	}
	return dto.ToTweetResponse(tweet,
		rel.LikeCounts[tweet.ID], rel.CommentCounts[tweet.ID], rel.LikedSet[tweet.ID],
		rel.SubscriberCounts[tweet.OwnerID], rel.SubscribedSet[tweet.OwnerID]), nil
}

func (s *tweetService) DeleteTweet(ctx context.Context, viewer model.Viewer, tweetID uint64) error {
	tweet, err := s.tweetRepo.FindByID(tweetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("动态")
		}
		return err
	}
	if !viewer.Is(tweet.OwnerID) {
		return apperror.Forbidden("只有动态主人可以删除")
	}

	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		commentIDs, err := repos.CommentRepo.IDsForTweet(tweetID)
		if err != nil {
			return err
		}
		if err := repos.LikeRepo.DeleteForComments(commentIDs); err != nil {
			return err
		}
		if err := repos.CommentRepo.DeleteByIDs(commentIDs); err != nil {
			return err
		}
		if err := repos.LikeRepo.DeleteForTweet(tweetID); err != nil {
			return err
		}
		return repos.TweetRepo.Delete(tweetID)
	})
	if err != nil {
		return err
	}

	for _, image := range tweet.Images {
		if err := s.store.Delete(ctx, image); err != nil {
			logger.Log.WithError(err).WithField("tweet_id", tweetID).Warn("配图回收失败")
		}
	}
	return nil
}

func (s *tweetService) ListUserTweets(viewer model.Viewer, userID uint64, p pagination.Params) (*dto.Page[*dto.TweetResponse], error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("用户")
		}
		return nil, err
	}
	tweets, total, err := s.tweetRepo.ListByOwner(userID, p)
	if err != nil {
		return nil, err
	}
	rel, err := s.resolver.ForTweets(viewer, tweets)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.TweetResponse, 0, len(tweets))
	for i := range tweets {
		t := &tweets[i]
		items = append(items, dto.ToTweetResponse(t,
			rel.LikeCounts[t.ID], rel.CommentCounts[t.ID], rel.LikedSet[t.ID],
			rel.SubscriberCounts[t.OwnerID], rel.SubscribedSet[t.OwnerID]))
	}
	return dto.NewPage(items, p.Page, p.Limit, total, p.TotalPages(total)), nil
}
