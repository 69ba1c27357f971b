package handler

import (
	"net/http"

	"VidTube/internal/middleware"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

type PlaylistHandler interface {
	CreatePlaylist(c *gin.Context)
	UpdatePlaylist(c *gin.Context)
	DeletePlaylist(c *gin.Context)
	GetPlaylist(c *gin.Context)
	ListUserPlaylists(c *gin.Context)
	AddVideo(c *gin.Context)
	RemoveVideo(c *gin.Context)
}

type playlistHandler struct {
	PlaylistService service.PlaylistService
}

func NewPlaylistHandler(playlistService service.PlaylistService) PlaylistHandler {
	return &playlistHandler{PlaylistService: playlistService}
}

type CreatePlaylistRequest struct {
	Name        string `json:"name" binding:"required,max=128"`
	Description string `json:"description" binding:"max=500"`
	IsPublic    *bool  `json:"is_public"`
}

func (h *playlistHandler) CreatePlaylist(c *gin.Context) {
	var req CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	// 不传is_public默认公开
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	playlist, err := h.PlaylistService.CreatePlaylist(middleware.ViewerFrom(c), req.Name, req.Description, isPublic)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusCreated, "播放列表已创建", playlist)
}

type UpdatePlaylistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

func (h *playlistHandler) UpdatePlaylist(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlist_id")
	if !ok {
		return
	}
	var req UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	playlist, err := h.PlaylistService.UpdatePlaylist(middleware.ViewerFrom(c), playlistID, req.Name, req.Description, req.IsPublic)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "播放列表已更新", playlist)
}

func (h *playlistHandler) DeletePlaylist(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlist_id")
	if !ok {
		return
	}
	if err := h.PlaylistService.DeletePlaylist(middleware.ViewerFrom(c), playlistID); err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "播放列表已删除", nil)
}

func (h *playlistHandler) GetPlaylist(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlist_id")
	if !ok {
		return
	}
	playlist, err := h.PlaylistService.GetPlaylist(middleware.ViewerFrom(c), playlistID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, playlist)
}

func (h *playlistHandler) ListUserPlaylists(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	playlists, err := h.PlaylistService.ListUserPlaylists(middleware.ViewerFrom(c), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, playlists)
}

func (h *playlistHandler) AddVideo(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlist_id")
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	if err := h.PlaylistService.AddVideo(middleware.ViewerFrom(c), playlistID, videoID); err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "视频已收录", nil)
}

func (h *playlistHandler) RemoveVideo(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlist_id")
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	if err := h.PlaylistService.RemoveVideo(middleware.ViewerFrom(c), playlistID, videoID); err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "视频已移出播放列表", nil)
}
