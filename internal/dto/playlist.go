package dto

import (
	"time"

	"VidTube/internal/model"
)

type PlaylistResponse struct {
	ID          uint64    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	VideosCount int64     `json:"videos_count"`
	OwnerID     uint64    `json:"owner_id"`
}

func ToPlaylistResponse(playlist *model.Playlist, videosCount int64) *PlaylistResponse {
	return &PlaylistResponse{
		ID:          playlist.ID,
		CreatedAt:   playlist.CreatedAt,
		UpdatedAt:   playlist.UpdatedAt,
		Name:        playlist.Name,
		Description: playlist.Description,
		IsPublic:    playlist.IsPublic,
		VideosCount: videosCount,
		OwnerID:     playlist.OwnerID,
	}
}

// PlaylistDetailResponse 播放列表详情，附带按收录顺序排列的视频
type PlaylistDetailResponse struct {
	PlaylistResponse
	Videos []*VideoResponse `json:"videos"`
}
