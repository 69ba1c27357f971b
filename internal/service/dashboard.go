package service

import (
	"VidTube/internal/dto"
	"VidTube/internal/model"
	"VidTube/internal/repository"
)

// 创作者后台：频道整体统计 + 含未发布在内的全部视频
type DashboardService interface {
	GetStats(viewer model.Viewer) (*dto.StatsResponse, error)
	GetChannelVideos(viewer model.Viewer) ([]*dto.VideoResponse, error)
}

type dashboardService struct {
	videoRepo repository.VideoRepository
	likeRepo  repository.LikeRepository
	subRepo   repository.SubscriptionRepository
	resolver  RelationResolver
}

func NewDashboardService(
	videoRepo repository.VideoRepository,
	likeRepo repository.LikeRepository,
	subRepo repository.SubscriptionRepository,
	resolver RelationResolver,
) DashboardService {
	return &dashboardService{
		videoRepo: videoRepo,
		likeRepo:  likeRepo,
		subRepo:   subRepo,
		resolver:  resolver,
	}
}

// 统计口径：播放量和视频数来自videos表，点赞数是自己所有视频收到的赞的总和
func (s *dashboardService) GetStats(viewer model.Viewer) (*dto.StatsResponse, error) {
	totalViews, totalVideos, err := s.videoRepo.OwnerStats(viewer.ID)
	if err != nil {
		return nil, err
	}
	subCounts, err := s.subRepo.CountForChannels([]uint64{viewer.ID})
	if err != nil {
		return nil, err
	}

	videos, err := s.videoRepo.ListByOwner(viewer.ID)
	if err != nil {
		return nil, err
	}
	videoIDs := make([]uint64, 0, len(videos))
	for _, v := range videos {
		videoIDs = append(videoIDs, v.ID)
	}
	likeCounts, err := s.likeRepo.CountForVideos(videoIDs)
	if err != nil {
		return nil, err
	}
	var totalLikes int64
	for _, count := range likeCounts {
		totalLikes += count
	}

	return &dto.StatsResponse{
		TotalVideos:      totalVideos,
		TotalViews:       totalViews,
		TotalSubscribers: subCounts[viewer.ID],
		TotalLikes:       totalLikes,
	}, nil
}

// 后台视频列表是给主人看的，未发布的也在里面
func (s *dashboardService) GetChannelVideos(viewer model.Viewer) ([]*dto.VideoResponse, error) {
	videos, err := s.videoRepo.ListByOwner(viewer.ID)
	if err != nil {
		return nil, err
	}
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
