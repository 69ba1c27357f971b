package handler

import (
	"VidTube/internal/middleware"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler interface {
	GetStats(c *gin.Context)
	GetChannelVideos(c *gin.Context)
}

type dashboardHandler struct {
	DashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) DashboardHandler {
	return &dashboardHandler{DashboardService: dashboardService}
}

func (h *dashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.DashboardService.GetStats(middleware.ViewerFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, stats)
}

func (h *dashboardHandler) GetChannelVideos(c *gin.Context) {
	videos, err := h.DashboardService.GetChannelVideos(middleware.ViewerFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, videos)
}
