package service

import (
	"time"

	"VidTube/internal/dto"
	"VidTube/internal/model"
	"VidTube/internal/pagination"
	"VidTube/internal/repository"
)

// 观看历史：写入时就按观看者的本地日期落列，读取时直接按这一列分组，
// 服务器时区和观看者时区错位也不会把记录串到别的天里
type HistoryService interface {
	// RecordView 后台consumer消费观看事件时调用：
	// 计播放量，登录用户顺带记历史，同一天重看同一个视频只留最新一条
	RecordView(msg ViewMessage) error
	// GetWatchHistory 按"天"分页，一页limit天
	GetWatchHistory(viewer model.Viewer, p pagination.Params) (*dto.Page[*dto.HistoryDayResponse], error)
	ClearHistory(viewer model.Viewer) error
}

type historyService struct {
	historyRepo repository.HistoryRepository
	videoRepo   repository.VideoRepository
	resolver    RelationResolver
}

func NewHistoryService(
	historyRepo repository.HistoryRepository,
	videoRepo repository.VideoRepository,
	resolver RelationResolver,
) HistoryService {
	return &historyService{
		historyRepo: historyRepo,
		videoRepo:   videoRepo,
		resolver:    resolver,
	}
}

func (s *historyService) RecordView(msg ViewMessage) error {
	if err := s.videoRepo.IncrementViews(msg.VideoID); err != nil {
		return err
	}
	if msg.ViewerID == 0 {
		// 匿名观看只计播放量
		return nil
	}
	// 同日重看去重：先删旧的再插新的，保证这一天只有最新一条
	if err := s.historyRepo.DeleteForDate(msg.ViewerID, msg.VideoID, msg.LocalDate); err != nil {
		return err
	}
	entry := &model.WatchHistory{
		VideoID:     msg.VideoID,
		WatchedByID: msg.ViewerID,
		LocalDate:   msg.LocalDate,
	}
	if msg.WatchedAt > 0 {
		entry.CreatedAt = time.Unix(msg.WatchedAt, 0)
	}
	return s.historyRepo.Create(entry)
}

func (s *historyService) GetWatchHistory(viewer model.Viewer, p pagination.Params) (*dto.Page[*dto.HistoryDayResponse], error) {
	totalDays, err := s.historyRepo.CountDistinctDates(viewer.ID)
	if err != nil {
		return nil, err
	}
	dates, err := s.historyRepo.DistinctDates(viewer.ID, p.Offset(), p.Limit)
	if err != nil {
		return nil, err
	}
	entries, err := s.historyRepo.ListByDates(viewer.ID, dates)
	if err != nil {
		return nil, err
	}

	videos := make([]model.Video, 0, len(entries))
	for _, e := range entries {
		videos = append(videos, e.Video)
	}
	rel, err := s.resolver.ForVideos(viewer, videos)
	if err != nil {
		return nil, err
	}

	// 按日期聚桶，日期新的在前，桶内按观看时间倒序(repo已排好)
	byDate := make(map[string][]*dto.HistoryEntryResponse, len(dates))
	for i := range entries {
		e := &entries[i]
		v := &e.Video
		byDate[e.LocalDate] = append(byDate[e.LocalDate], &dto.HistoryEntryResponse{
			WatchedAt: e.CreatedAt,
			Video: dto.ToVideoResponse(v,
				rel.LikeCounts[v.ID], rel.LikedSet[v.ID],
				rel.SubscriberCounts[v.OwnerID], rel.SubscribedSet[v.OwnerID]),
		})
	}
	days := make([]*dto.HistoryDayResponse, 0, len(dates))
	for _, date := range dates {
		day := byDate[date]
		if day == nil {
			// 这一天的视频全被删了/下架了，跳过空桶
			continue
		}
		days = append(days, &dto.HistoryDayResponse{Date: date, Entries: day})
	}
	return dto.NewPage(days, p.Page, p.Limit, totalDays, p.TotalPages(totalDays)), nil
}

func (s *historyService) ClearHistory(viewer model.Viewer) error {
	return s.historyRepo.ClearForUser(viewer.ID)
}
