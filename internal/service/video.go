package service

import (
	"context"
	"encoding/json"
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

	"github.com/streadway/amqp"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	// 遵循：项目名.业务领域.实体/功能
	QueueVideoViews = "vidtube.video.views"
)

// ViewMessage 观看事件，写库的活交给后台consumer慢慢干
type ViewMessage struct {
	VideoID uint64 `json:"video_id"`
	// 匿名观看时为0，只计播放量不记历史
	ViewerID  uint64 `json:"viewer_id"`
	LocalDate string `json:"local_date"`
	WatchedAt int64  `json:"watched_at"`
}

// PublishVideoInput 发布视频需要的全部材料，文件是已落盘的临时路径
type PublishVideoInput struct {
	OwnerID       uint64
	Title         string
	Description   string
	Tags          []string
	VideoPath     string
	ThumbnailPath string
	IsPublished   bool
}

type UpdateVideoInput struct {
	Title       *string
	Description *string
	Tags        []string
	// 为空表示不换封面
	ThumbnailPath string
}

type VideoService interface {
	PublishVideo(ctx context.Context, input PublishVideoInput) (*dto.VideoResponse, error)
	// GetVideo 任何人能看已发布的，未发布的只有主人能看，其他人一律404。
	// tzOffsetMinutes是观看者相对UTC的分钟偏移，用于按观看者的"今天"记历史。
	GetVideo(viewer model.Viewer, videoID uint64, tzOffsetMinutes int) (*dto.VideoResponse, error)
	// ListVideos feed和搜索共用，只返回已发布的
	ListVideos(viewer model.Viewer, ownerID uint64, search string, p pagination.Params) (*dto.Page[*dto.VideoResponse], error)
	UpdateVideo(ctx context.Context, viewer model.Viewer, videoID uint64, input UpdateVideoInput) (*dto.VideoResponse, error)
	DeleteVideo(ctx context.Context, viewer model.Viewer, videoID uint64) error
	TogglePublish(viewer model.Viewer, videoID uint64) (bool, error)
}

type videoService struct {
	sf singleflight.Group

	videoRepo    repository.VideoRepository
	uow          data.UnitOfWork
	resolver     RelationResolver
	store        storage.Storage
	rabbitMQConn *amqp.Connection
}

func NewVideoService(
	videoRepo repository.VideoRepository,
	uow data.UnitOfWork,
	resolver RelationResolver,
	store storage.Storage,
	rabbitMQConn *amqp.Connection,
) VideoService {
	s := &videoService{
		videoRepo:    videoRepo,
		uow:          uow,
		resolver:     resolver,
		store:        store,
		rabbitMQConn: rabbitMQConn,
	}
	if rabbitMQConn != nil {
		ch, err := rabbitMQConn.Channel()
		if err != nil {
			panic("Failed to open a channel")
		}
		defer ch.Close()
		// 队列声明是幂等的，有就复用
		_, err = ch.QueueDeclare(
			QueueVideoViews,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		)
		if err != nil {
			panic("Failed to declare a queue")
		}
	}
	return s
}

// 发布视频：1、视频文件传MinIO 2、ffprobe探测时长 3、封面传MinIO 4、落库
func (s *videoService) PublishVideo(ctx context.Context, input PublishVideoInput) (*dto.VideoResponse, error) {
	if input.Title == "" {
		return nil, apperror.InvalidArgument("标题不能为空")
	}
	if input.VideoPath == "" || input.ThumbnailPath == "" {
		return nil, apperror.InvalidArgument("视频文件和封面都不能少")
	}

	duration, err := s.store.ProbeDuration(input.VideoPath)
	if err != nil {
		logger.Log.WithError(err).Warn("视频时长探测失败")
		return nil, apperror.InvalidArgument("无法识别的视频文件")
	}

	now := time.Now().UnixNano()
	videoURL, err := s.store.Upload(ctx, fmt.Sprintf("videos/%d_%d.mp4", input.OwnerID, now), input.VideoPath, "video/mp4")
	if err != nil {
		return nil, apperror.Internal("视频上传失败")
	}
	thumbnailURL, err := s.store.Upload(ctx, fmt.Sprintf("thumbnails/%d_%d.jpg", input.OwnerID, now), input.ThumbnailPath, "image/jpeg")
	if err != nil {
		// 封面失败时回收已传的视频文件
		_ = s.store.Delete(ctx, videoURL)
		return nil, apperror.Internal("封面上传失败")
	}

	newVideo := &model.Video{
		OwnerID:      input.OwnerID,
		Title:        input.Title,
		Description:  input.Description,
		Tags:         input.Tags,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     duration,
		IsPublished:  input.IsPublished,
	}
	if err := s.videoRepo.Create(newVideo); err != nil {
		return nil, err
	}
	video, err := s.videoRepo.FindByID(newVideo.ID)
	if err != nil {
		return nil, err
	}
	return dto.ToVideoResponse(video, 0, false, 0, false), nil
}

// 根据videoID查找视频：1、查Redis缓存 2、未命中时通过SingleFlight回源数据库
func (s *videoService) loadVideo(videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.GetVideoCache(videoID)
	if err != nil {
		// 不是缓存未命中，而是Redis本身出错了，记日志后照常走数据库
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("读视频缓存失败")
	}
	if video != nil {
		return video, nil
	}
	key := fmt.Sprintf("get_video_%d", videoID)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		dbVideo, dbErr := s.videoRepo.FindByID(videoID)
		if dbErr != nil {
			return nil, dbErr
		}
		// 查询成功后把dbVideo写回缓存
		_ = s.videoRepo.SetVideoCache(dbVideo)
		return dbVideo, nil
	})
	if err != nil {
		return nil, err
	}
	// 返回值是interface{}，需要断言
	return result.(*model.Video), nil
}

func (s *videoService) GetVideo(viewer model.Viewer, videoID uint64, tzOffsetMinutes int) (*dto.VideoResponse, error) {
	video, err := s.loadVideo(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("视频")
		}
		return nil, err
	}
	// 未发布的视频对主人以外的所有人表现为不存在
	if !video.IsPublished && !viewer.Is(video.OwnerID) {
		return nil, apperror.NotFound("视频")
	}

	rel, err := s.resolver.ForVideos(viewer, []model.Video{*video})
	if err != nil {
		return nil, err
	}

	// 观看行为异步入账：计播放量，登录用户顺带记观看历史。
	// 主人看自己的未发布视频不算观看。
	if video.IsPublished {
		s.publishViewMessage(viewer, videoID, tzOffsetMinutes)
	}

	return dto.ToVideoResponse(video,
		rel.LikeCounts[video.ID], rel.LikedSet[video.ID],
		rel.SubscriberCounts[video.OwnerID], rel.SubscribedSet[video.OwnerID]), nil
}

// 用观看者自己的时区偏移算出他的"今天"
func localDateFor(tzOffsetMinutes int) string {
	return time.Now().UTC().Add(time.Duration(tzOffsetMinutes) * time.Minute).Format("2006-01-02")
}

func (s *videoService) publishViewMessage(viewer model.Viewer, videoID uint64, tzOffsetMinutes int) {
	if s.rabbitMQConn == nil {
		return
	}
	msg := ViewMessage{
		VideoID:   videoID,
		ViewerID:  viewer.ID,
		LocalDate: localDateFor(tzOffsetMinutes),
		WatchedAt: time.Now().Unix(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		logger.Log.WithError(err).Error("观看事件序列化失败")
		return
	}
	ch, err := s.rabbitMQConn.Channel()
	if err != nil {
		logger.Log.WithError(err).Error("打开RabbitMQ channel失败")
		return
	}
	defer ch.Close()
	err = ch.Publish(
		"",              // exchange：默认交换机
		QueueVideoViews, // routing key即队列名
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // 消息持久化
			Body:         body,
		},
	)
	if err != nil {
		// 播放量少记一次不值得让请求失败
		logger.Log.WithError(err).WithField("video_id", videoID).Error("观看事件发布失败")
	}
}

func (s *videoService) ListVideos(viewer model.Viewer, ownerID uint64, search string, p pagination.Params) (*dto.Page[*dto.VideoResponse], error) {
	filter := repository.VideoListFilter{
		OwnerID:       ownerID,
		Search:        search,
		PublishedOnly: true,
	}
	videos, total, err := s.videoRepo.List(filter, p)
	if err != nil {
		return nil, err
	}
	items, err := s.toResponses(viewer, videos)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(items, p.Page, p.Limit, total, p.TotalPages(total)), nil
}

func (s *videoService) toResponses(viewer model.Viewer, videos []model.Video) ([]*dto.VideoResponse, error) {
	rel, err := s.resolver.ForVideos(viewer, videos)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.VideoResponse, 0, len(videos))
	for i := range videos {
		v := &videos[i]
		items = append(items, dto.ToVideoResponse(v,
			rel.LikeCounts[v.ID], rel.LikedSet[v.ID],
			rel.SubscriberCounts[v.OwnerID], rel.SubscribedSet[v.OwnerID]))
	}
	return items, nil
}

// 只有主人能改。findOwned统一处理"不存在"和"不是你的"
func (s *videoService) findOwned(viewer model.Viewer, videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("视频")
		}
		return nil, err
	}
	if !viewer.Is(video.OwnerID) {
		// 未发布的视频对外不存在，连Forbidden都不能给
		if !video.IsPublished {
			return nil, apperror.NotFound("视频")
		}
		return nil, apperror.Forbidden("只有视频主人可以执行此操作")
	}
	return video, nil
}

func (s *videoService) UpdateVideo(ctx context.Context, viewer model.Viewer, videoID uint64, input UpdateVideoInput) (*dto.VideoResponse, error) {
	video, err := s.findOwned(viewer, videoID)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperror.InvalidArgument("标题不能为空")
		}
		video.Title = *input.Title
	}
	if input.Description != nil {
		video.Description = *input.Description
	}
	if input.Tags != nil {
		video.Tags = input.Tags
	}
	if input.ThumbnailPath != "" {
		url, err := s.store.Upload(ctx, fmt.Sprintf("thumbnails/%d_%d.jpg", video.OwnerID, time.Now().UnixNano()), input.ThumbnailPath, "image/jpeg")
		if err != nil {
			return nil, apperror.Internal("封面上传失败")
		}
		old := video.ThumbnailURL
		video.ThumbnailURL = url
		if old != "" {
			_ = s.store.Delete(ctx, old)
		}
	}
	if err := s.videoRepo.Save(video); err != nil {
		return nil, err
	}
	_ = s.videoRepo.DropVideoCache(videoID)
	return dto.ToVideoResponse(video, 0, false, 0, false), nil
}

// 删除视频：级联清掉评论、这些评论的赞、视频的赞、播放列表收录和观看历史，
// 全部动作在同一个事务里，再尽力回收对象存储里的文件
func (s *videoService) DeleteVideo(ctx context.Context, viewer model.Viewer, videoID uint64) error {
	video, err := s.findOwned(viewer, videoID)
	if err != nil {
		return err
	}

	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		commentIDs, err := repos.CommentRepo.IDsForVideo(videoID)
		if err != nil {
			return err
		}
		if err := repos.LikeRepo.DeleteForComments(commentIDs); err != nil {
			return err
		}
		if err := repos.CommentRepo.DeleteByIDs(commentIDs); err != nil {
			return err
		}
		if err := repos.LikeRepo.DeleteForVideo(videoID); err != nil {
			return err
		}
		if err := repos.PlaylistRepo.RemoveVideoEverywhere(videoID); err != nil {
			return err
		}
		if err := repos.HistoryRepo.DeleteForVideo(videoID); err != nil {
			return err
		}
		return repos.VideoRepo.Delete(videoID)
	})
	if err != nil {
		return err
	}

	_ = s.videoRepo.DropVideoCache(videoID)
	// 文件回收失败只记日志，库里已经删干净了
	if err := s.store.Delete(ctx, video.VideoURL); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("视频文件回收失败")
	}
	if err := s.store.Delete(ctx, video.ThumbnailURL); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("封面文件回收失败")
	}
	return nil
}

func (s *videoService) TogglePublish(viewer model.Viewer, videoID uint64) (bool, error) {
	video, err := s.findOwned(viewer, videoID)
	if err != nil {
		return false, err
	}
	video.IsPublished = !video.IsPublished
	if err := s.videoRepo.Save(video); err != nil {
		return false, err
	}
	_ = s.videoRepo.DropVideoCache(videoID)
	return video.IsPublished, nil
}
