package handler

import (
	"net/http"

	"VidTube/internal/middleware"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

type HistoryHandler interface {
	GetWatchHistory(c *gin.Context)
	ClearHistory(c *gin.Context)
}

type historyHandler struct {
	HistoryService service.HistoryService
}

func NewHistoryHandler(historyService service.HistoryService) HistoryHandler {
	return &historyHandler{HistoryService: historyService}
}

// 观看历史按"天"分页，limit是一页里的天数
func (h *historyHandler) GetWatchHistory(c *gin.Context) {
	p, ok := parsePagination(c, "created_at")
	if !ok {
		return
	}
	page, err := h.HistoryService.GetWatchHistory(middleware.ViewerFrom(c), p)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, page)
}

func (h *historyHandler) ClearHistory(c *gin.Context) {
	if err := h.HistoryService.ClearHistory(middleware.ViewerFrom(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	sendResponse(c, http.StatusOK, "观看历史已清空", nil)
}
