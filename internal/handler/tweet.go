package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"VidTube/internal/middleware"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

type TweetHandler interface {
	CreateTweet(c *gin.Context)
	GetTweet(c *gin.Context)
	UpdateTweet(c *gin.Context)
	DeleteTweet(c *gin.Context)
	ListUserTweets(c *gin.Context)
}

type tweetHandler struct {
	TweetService service.TweetService
}

func NewTweetHandler(tweetService service.TweetService) TweetHandler {
	return &tweetHandler{TweetService: tweetService}
}

// 发动态：multipart表单，text必填，images最多四张、每张1MB
func (h *tweetHandler) CreateTweet(c *gin.Context) {
	text := c.PostForm("text")

	form, err := c.MultipartForm()
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的表单")
		return
	}
	files := form.File["images"]
	if len(files) > service.MaxTweetImages {
		sendErrorResponse(c, http.StatusBadRequest, fmt.Sprintf("配图最多%d张", service.MaxTweetImages))
		return
	}

	imagePaths := make([]string, 0, len(files))
	for _, file := range files {
		if file.Size > maxImageSize {
			sendErrorResponse(c, http.StatusBadRequest, "每张配图不能超过1MB")
			return
		}
		localPath, err := saveUpload(c, file)
		if err != nil {
			sendErrorResponse(c, http.StatusInternalServerError, "文件保存失败")
			return
		}
		defer os.Remove(localPath)
		imagePaths = append(imagePaths, localPath)
	}

	tweet, err := h.TweetService.CreateTweet(c.Request.Context(), middleware.ViewerFrom(c), text, imagePaths)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusCreated, "动态已发布", tweet)
}

func (h *tweetHandler) GetTweet(c *gin.Context) {
	tweetID, ok := parseIDParam(c, "tweet_id")
	if !ok {
		return
	}
	tweet, err := h.TweetService.GetTweet(middleware.ViewerFrom(c), tweetID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, tweet)
}

// 编辑动态：multipart表单，text必填；keep_images是要保留的旧图URL的JSON数组，
// 没传在列表里的旧图会被删掉；images是新增配图文件
func (h *tweetHandler) UpdateTweet(c *gin.Context) {
	tweetID, ok := parseIDParam(c, "tweet_id")
	if !ok {
		return
	}
	text := c.PostForm("text")

	var keepImages []string
	if raw := c.PostForm("keep_images"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &keepImages); err != nil {
			sendErrorResponse(c, http.StatusBadRequest, "keep_images必须是JSON字符串数组")
			return
		}
	}

	var newImagePaths []string
	if form, err := c.MultipartForm(); err == nil {
		files := form.File["images"]
		if len(files) > service.MaxTweetImages {
			sendErrorResponse(c, http.StatusBadRequest, fmt.Sprintf("配图最多%d张", service.MaxTweetImages))
			return
		}
		for _, file := range files {
			if file.Size > maxImageSize {
				sendErrorResponse(c, http.StatusBadRequest, "每张配图不能超过1MB")
				return
			}
			localPath, err := saveUpload(c, file)
			if err != nil {
				sendErrorResponse(c, http.StatusInternalServerError, "文件保存失败")
				return
			}
			defer os.Remove(localPath)
			newImagePaths = append(newImagePaths, localPath)
		}
	}

	tweet, err := h.TweetService.UpdateTweet(c.Request.Context(), middleware.ViewerFrom(c), tweetID, service.UpdateTweetInput{
		Text:          text,
		KeepImages:    keepImages,
		NewImagePaths: newImagePaths,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "动态已更新", tweet)
}

func (h *tweetHandler) DeleteTweet(c *gin.Context) {
	tweetID, ok := parseIDParam(c, "tweet_id")
	if !ok {
		return
	}
	if err := h.TweetService.DeleteTweet(c.Request.Context(), middleware.ViewerFrom(c), tweetID); err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "动态已删除", nil)
}

func (h *tweetHandler) ListUserTweets(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	p, ok := parsePagination(c, "created_at")
	if !ok {
		return
	}
	page, err := h.TweetService.ListUserTweets(middleware.ViewerFrom(c), userID, p)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, page)
}
