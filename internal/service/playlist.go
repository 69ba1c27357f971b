package service

import (
	"errors"

	"VidTube/internal/apperror"
	"VidTube/internal/dto"
	"VidTube/internal/model"
	"VidTube/internal/repository"

	"gorm.io/gorm"
)

// 播放列表服务：私有列表对外表现为不存在，收录顺序就是展示顺序
type PlaylistService interface {
	CreatePlaylist(viewer model.Viewer, name, description string, isPublic bool) (*dto.PlaylistResponse, error)
	UpdatePlaylist(viewer model.Viewer, playlistID uint64, name, description *string, isPublic *bool) (*dto.PlaylistResponse, error)
	DeletePlaylist(viewer model.Viewer, playlistID uint64) error
	// GetPlaylist 详情带视频列表，按收录顺序排列
	GetPlaylist(viewer model.Viewer, playlistID uint64) (*dto.PlaylistDetailResponse, error)
	// ListUserPlaylists 看自己时含私有列表
	ListUserPlaylists(viewer model.Viewer, userID uint64) ([]*dto.PlaylistResponse, error)
	AddVideo(viewer model.Viewer, playlistID, videoID uint64) error
	RemoveVideo(viewer model.Viewer, playlistID, videoID uint64) error
}

type playlistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
	userRepo     repository.UserRepository
	resolver     RelationResolver
}

func NewPlaylistService(
	playlistRepo repository.PlaylistRepository,
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
	resolver RelationResolver,
) PlaylistService {
	return &playlistService{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
		userRepo:     userRepo,
		resolver:     resolver,
	}
}

func (s *playlistService) CreatePlaylist(viewer model.Viewer, name, description string, isPublic bool) (*dto.PlaylistResponse, error) {
	if name == "" {
		return nil, apperror.InvalidArgument("播放列表名称不能为空")
	}
	playlist := &model.Playlist{
		OwnerID:     viewer.ID,
		Name:        name,
		Description: description,
		IsPublic:    isPublic,
	}
	if err := s.playlistRepo.Create(playlist); err != nil {
		return nil, err
	}
	return dto.ToPlaylistResponse(playlist, 0), nil
}

// 私有列表对主人以外的人表现为不存在，不用403泄露它的存在
func (s *playlistService) visiblePlaylist(viewer model.Viewer, playlistID uint64) (*model.Playlist, error) {
	playlist, err := s.playlistRepo.FindByID(playlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("播放列表")
		}
		return nil, err
	}
	if !playlist.IsPublic && !viewer.Is(playlist.OwnerID) {
		return nil, apperror.NotFound("播放列表")
	}
	return playlist, nil
}

func (s *playlistService) ownedPlaylist(viewer model.Viewer, playlistID uint64) (*model.Playlist, error) {
	playlist, err := s.visiblePlaylist(viewer, playlistID)
	if err != nil {
		return nil, err
	}
	if !viewer.Is(playlist.OwnerID) {
		return nil, apperror.Forbidden("只有播放列表主人可以执行此操作")
	}
	return playlist, nil
}

func (s *playlistService) UpdatePlaylist(viewer model.Viewer, playlistID uint64, name, description *string, isPublic *bool) (*dto.PlaylistResponse, error) {
	playlist, err := s.ownedPlaylist(viewer, playlistID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		if *name == "" {
			return nil, apperror.InvalidArgument("播放列表名称不能为空")
		}
		playlist.Name = *name
	}
	if description != nil {
		playlist.Description = *description
	}
	if isPublic != nil {
		playlist.IsPublic = *isPublic
	}
	if err := s.playlistRepo.Save(playlist); err != nil {
		return nil, err
	}
	counts, err := s.playlistRepo.CountVideos([]uint64{playlist.ID})
	if err != nil {
		return nil, err
	}
	return dto.ToPlaylistResponse(playlist, counts[playlist.ID]), nil
}

func (s *playlistService) DeletePlaylist(viewer model.Viewer, playlistID uint64) error {
	if _, err := s.ownedPlaylist(viewer, playlistID); err != nil {
		return err
	}
	return s.playlistRepo.Delete(playlistID)
}

func (s *playlistService) GetPlaylist(viewer model.Viewer, playlistID uint64) (*dto.PlaylistDetailResponse, error) {
	playlist, err := s.visiblePlaylist(viewer, playlistID)
	if err != nil {
		return nil, err
	}
	entries, err := s.playlistRepo.ListVideos(playlistID)
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
	items := make([]*dto.VideoResponse, 0, len(videos))
	for i := range videos {
		v := &videos[i]
		items = append(items, dto.ToVideoResponse(v,
			rel.LikeCounts[v.ID], rel.LikedSet[v.ID],
			rel.SubscriberCounts[v.OwnerID], rel.SubscribedSet[v.OwnerID]))
	}
	return &dto.PlaylistDetailResponse{
		PlaylistResponse: *dto.ToPlaylistResponse(playlist, int64(len(items))),
		Videos:           items,
	}, nil
}

func (s *playlistService) ListUserPlaylists(viewer model.Viewer, userID uint64) ([]*dto.PlaylistResponse, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("用户")
		}
		return nil, err
	}
	includePrivate := viewer.Is(userID)
	playlists, err := s.playlistRepo.ListByOwner(userID, includePrivate)
	if err != nil {
		return nil, err
	}
	playlistIDs := make([]uint64, 0, len(playlists))
	for _, p := range playlists {
		playlistIDs = append(playlistIDs, p.ID)
	}
	counts, err := s.playlistRepo.CountVideos(playlistIDs)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.PlaylistResponse, 0, len(playlists))
	for i := range playlists {
		p := &playlists[i]
		items = append(items, dto.ToPlaylistResponse(p, counts[p.ID]))
	}
	return items, nil
}

// 收录视频：位置追加到末尾，重复收录按冲突处理
func (s *playlistService) AddVideo(viewer model.Viewer, playlistID, videoID uint64) error {
	playlist, err := s.ownedPlaylist(viewer, playlistID)
	if err != nil {
		return err
	}
	video, err := s.videoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("视频")
		}
		return err
	}
	// 能收录的是已发布的视频，或自己的未发布视频
	if !video.IsPublished && !viewer.Is(video.OwnerID) {
		return apperror.NotFound("视频")
	}

	maxPos, err := s.playlistRepo.MaxPosition(playlist.ID)
	if err != nil {
		return err
	}
	err = s.playlistRepo.AddVideo(&model.PlaylistVideo{
		PlaylistID: playlist.ID,
		VideoID:    video.ID,
		Position:   uint64(maxPos + 1),
	})
	if err != nil {
		if isDuplicateKey(err) {
			return apperror.Conflict("视频已在播放列表中")
		}
		return err
	}
	return nil
}

func (s *playlistService) RemoveVideo(viewer model.Viewer, playlistID, videoID uint64) error {
	if _, err := s.ownedPlaylist(viewer, playlistID); err != nil {
		return err
	}
	has, err := s.playlistRepo.HasVideo(playlistID, videoID)
	if err != nil {
		return err
	}
	if !has {
		return apperror.NotFound("播放列表中的视频")
	}
	return s.playlistRepo.RemoveVideo(playlistID, videoID)
}
