package handler

import (
	"net/http"

	"VidTube/internal/middleware"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	AddVideoComment(c *gin.Context)
	AddTweetComment(c *gin.Context)
	AddReply(c *gin.Context)
	UpdateComment(c *gin.Context)
	DeleteComment(c *gin.Context)
	ListVideoComments(c *gin.Context)
	ListTweetComments(c *gin.Context)
	ListReplies(c *gin.Context)
}

type commentHandler struct {
	CommentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) CommentHandler {
	return &commentHandler{CommentService: commentService}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

func (h *commentHandler) AddVideoComment(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	viewer := middleware.ViewerFrom(c)
	comment, err := h.CommentService.AddVideoComment(viewer, videoID, req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusCreated, "评论成功", comment)
}

func (h *commentHandler) AddTweetComment(c *gin.Context) {
	tweetID, ok := parseIDParam(c, "tweet_id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	viewer := middleware.ViewerFrom(c)
	comment, err := h.CommentService.AddTweetComment(viewer, tweetID, req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusCreated, "评论成功", comment)
}

func (h *commentHandler) AddReply(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	viewer := middleware.ViewerFrom(c)
	reply, err := h.CommentService.AddReply(viewer, commentID, req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusCreated, "回复成功", reply)
}

func (h *commentHandler) UpdateComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	viewer := middleware.ViewerFrom(c)
	comment, err := h.CommentService.UpdateComment(viewer, commentID, req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "评论已更新", comment)
}

func (h *commentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}
	viewer := middleware.ViewerFrom(c)
	if err := h.CommentService.DeleteComment(viewer, commentID); err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "评论已删除", nil)
}

func (h *commentHandler) ListVideoComments(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	p, ok := parsePagination(c, "created_at")
	if !ok {
		return
	}
	viewer := middleware.ViewerFrom(c)
	page, err := h.CommentService.ListVideoComments(viewer, videoID, p)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, page)
}

func (h *commentHandler) ListTweetComments(c *gin.Context) {
	tweetID, ok := parseIDParam(c, "tweet_id")
	if !ok {
		return
	}
	p, ok := parsePagination(c, "created_at")
	if !ok {
		return
	}
	viewer := middleware.ViewerFrom(c)
	page, err := h.CommentService.ListTweetComments(viewer, tweetID, p)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, page)
}

func (h *commentHandler) ListReplies(c *gin.Context) {
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}
	p, ok := parsePagination(c, "created_at")
	if !ok {
		return
	}
	viewer := middleware.ViewerFrom(c)
	page, err := h.CommentService.ListReplies(viewer, commentID, p)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, page)
}
