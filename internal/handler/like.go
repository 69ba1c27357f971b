package handler

import (
	"net/http"

	"VidTube/internal/dto"
	"VidTube/internal/middleware"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

type LikeHandler interface {
	ToggleVideoLike(c *gin.Context)
	ToggleCommentLike(c *gin.Context)
	ToggleTweetLike(c *gin.Context)
	ListLikedVideos(c *gin.Context)
}

type likeHandler struct {
	LikeService service.LikeService
}

func NewLikeHandler(likeService service.LikeService) LikeHandler {
	return &likeHandler{LikeService: likeService}
}

// toggle类接口点上时把新建的点赞记录整条返回，取消时data为空
func (h *likeHandler) respondToggle(c *gin.Context, like *dto.LikeResponse, err error) {
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if like == nil {
		sendResponse(c, http.StatusOK, "已取消点赞", nil)
		return
	}
	sendResponse(c, http.StatusOK, "点赞成功", like)
}

func (h *likeHandler) ToggleVideoLike(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	like, err := h.LikeService.ToggleVideoLike(middleware.ViewerFrom(c), videoID)
	h.respondToggle(c, like, err)
}

func (h *likeHandler) ToggleCommentLike(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}
	like, err := h.LikeService.ToggleCommentLike(middleware.ViewerFrom(c), commentID)
	h.respondToggle(c, like, err)
}

func (h *likeHandler) ToggleTweetLike(c *gin.Context) {
	tweetID, ok := parseIDParam(c, "tweet_id")
	if !ok {
		return
	}
	like, err := h.LikeService.ToggleTweetLike(middleware.ViewerFrom(c), tweetID)
	h.respondToggle(c, like, err)
}

func (h *likeHandler) ListLikedVideos(c *gin.Context) {
	p, ok := parsePagination(c, "created_at")
	if !ok {
		return
	}
	page, err := h.LikeService.ListLikedVideos(middleware.ViewerFrom(c), p)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, page)
}
