package handler

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"VidTube/internal/middleware"
	"VidTube/internal/service"
	"VidTube/pkg/logger"

	"github.com/gin-gonic/gin"
)

// 视频文件上限
const maxVideoSize = 200 << 20 // 200MB

type VideoHandler interface {
	PublishVideo(c *gin.Context)
	GetVideo(c *gin.Context)
	ListVideos(c *gin.Context)
	UpdateVideo(c *gin.Context)
	DeleteVideo(c *gin.Context)
	TogglePublish(c *gin.Context)
}

type videoHandler struct {
	VideoService service.VideoService
}

func NewVideoHandler(videoService service.VideoService) VideoHandler {
	return &videoHandler{VideoService: videoService}
}

// 发布视频：multipart表单，视频文件+封面+元数据一把提交。
// 流程：1、落盘临时文件 2、service层探测时长并传对象存储 3、落库返回
func (h *videoHandler) PublishVideo(c *gin.Context) {
	viewer := middleware.ViewerFrom(c)
	logCtx := logger.Log.WithField("owner_id", viewer.ID)
	logCtx.Info("开始处理发布视频请求")

	title := c.PostForm("title")
	description := c.PostForm("description")
	tags := parseTags(c.PostForm("tags"))

	// 不传is_published按直接发布处理
	isPublished := true
	if raw, exists := c.GetPostForm("is_published"); exists {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			sendErrorResponse(c, http.StatusBadRequest, "is_published必须是布尔值")
			return
		}
		isPublished = parsed
	}

	videoFile, err := c.FormFile("video")
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "缺少视频文件")
		return
	}
	if videoFile.Size > maxVideoSize {
		sendErrorResponse(c, http.StatusBadRequest, "视频文件不能超过200MB")
		return
	}
	thumbFile, err := c.FormFile("thumbnail")
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "缺少封面文件")
		return
	}
	if thumbFile.Size > maxImageSize {
		sendErrorResponse(c, http.StatusBadRequest, "封面不能超过1MB")
		return
	}

	videoPath, err := saveUpload(c, videoFile)
	if err != nil {
		sendErrorResponse(c, http.StatusInternalServerError, "文件保存失败")
		return
	}
	defer os.Remove(videoPath)
	thumbPath, err := saveUpload(c, thumbFile)
	if err != nil {
		sendErrorResponse(c, http.StatusInternalServerError, "文件保存失败")
		return
	}
	defer os.Remove(thumbPath)

	video, err := h.VideoService.PublishVideo(c.Request.Context(), service.PublishVideoInput{
		OwnerID:       viewer.ID,
		Title:         title,
		Description:   description,
		Tags:          tags,
		VideoPath:     videoPath,
		ThumbnailPath: thumbPath,
		IsPublished:   isPublished,
	})
	if err != nil {
		logCtx.WithError(err).Error("发布视频业务处理失败")
		handleServiceError(c, err)
		return
	}
	logCtx.WithField("video_id", video.ID).Info("视频发布成功")
	sendResponse(c, http.StatusCreated, "视频发布成功", video)
}

// tags在multipart表单里是JSON数组字符串
func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}

func (h *videoHandler) GetVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	// 观看者相对UTC的分钟偏移，解析不出来按UTC
	tzOffset, _ := strconv.Atoi(c.Query("tz_offset"))

	viewer := middleware.ViewerFrom(c)
	video, err := h.VideoService.GetVideo(viewer, videoID, tzOffset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, video)
}

// 视频流和搜索共用：query搜标题/简介/标签，user_id限定某个频道
func (h *videoHandler) ListVideos(c *gin.Context) {
	p, ok := parsePagination(c, "created_at", "views", "title")
	if !ok {
		return
	}
	var ownerID uint64
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			sendErrorResponse(c, http.StatusBadRequest, "无效的user_id")
			return
		}
		ownerID = parsed
	}

	viewer := middleware.ViewerFrom(c)
	page, err := h.VideoService.ListVideos(viewer, ownerID, c.Query("query"), p)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, page)
}

func (h *videoHandler) UpdateVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}

	input := service.UpdateVideoInput{}
	if title, exists := c.GetPostForm("title"); exists {
		input.Title = &title
	}
	if description, exists := c.GetPostForm("description"); exists {
		input.Description = &description
	}
	if rawTags, exists := c.GetPostForm("tags"); exists {
		input.Tags = parseTags(rawTags)
	}
	if thumbFile, err := c.FormFile("thumbnail"); err == nil {
		if thumbFile.Size > maxImageSize {
			sendErrorResponse(c, http.StatusBadRequest, "封面不能超过1MB")
			return
		}
		thumbPath, err := saveUpload(c, thumbFile)
		if err != nil {
			sendErrorResponse(c, http.StatusInternalServerError, "文件保存失败")
			return
		}
		defer os.Remove(thumbPath)
		input.ThumbnailPath = thumbPath
	}

	viewer := middleware.ViewerFrom(c)
	video, err := h.VideoService.UpdateVideo(c.Request.Context(), viewer, videoID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "视频已更新", video)
}

func (h *videoHandler) DeleteVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	viewer := middleware.ViewerFrom(c)
	if err := h.VideoService.DeleteVideo(c.Request.Context(), viewer, videoID); err != nil {
		handleServiceError(c, err)
		return
	}
	logger.Log.WithField("video_id", videoID).WithField("owner_id", viewer.ID).Info("视频已删除")
	sendResponse(c, http.StatusOK, "视频已删除", nil)
}

func (h *videoHandler) TogglePublish(c *gin.Context) {
	videoID, ok := parseIDParam(c, "video_id")
	if !ok {
		return
	}
	viewer := middleware.ViewerFrom(c)
	published, err := h.VideoService.TogglePublish(viewer, videoID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "发布状态已切换", gin.H{"is_published": published})
}
