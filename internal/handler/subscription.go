package handler

import (
	"net/http"

	"VidTube/internal/middleware"
	"VidTube/internal/service"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler interface {
	ToggleSubscription(c *gin.Context)
	ListSubscribers(c *gin.Context)
	ListSubscribedChannels(c *gin.Context)
	SubscriptionStatus(c *gin.Context)
}

type subscriptionHandler struct {
	SubscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) SubscriptionHandler {
	return &subscriptionHandler{SubscriptionService: subscriptionService}
}

func (h *subscriptionHandler) ToggleSubscription(c *gin.Context) {
	channelID, ok := parseIDParam(c, "channel_id")
	if !ok {
		return
	}
	sub, err := h.SubscriptionService.ToggleSubscription(middleware.ViewerFrom(c), channelID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if sub == nil {
		sendResponse(c, http.StatusOK, "已取消订阅", nil)
		return
	}
	sendResponse(c, http.StatusOK, "订阅成功", sub)
}

func (h *subscriptionHandler) SubscriptionStatus(c *gin.Context) {
	channelID, ok := parseIDParam(c, "channel_id")
	if !ok {
		return
	}
	subscribed, err := h.SubscriptionService.SubscriptionStatus(middleware.ViewerFrom(c), channelID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, gin.H{"subscribed": subscribed})
}

func (h *subscriptionHandler) ListSubscribers(c *gin.Context) {
	channelID, ok := parseIDParam(c, "channel_id")
	if !ok {
		return
	}
	p, ok := parsePagination(c, "created_at")
	if !ok {
		return
	}
	page, err := h.SubscriptionService.ListSubscribers(middleware.ViewerFrom(c), channelID, p)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, page)
}

func (h *subscriptionHandler) ListSubscribedChannels(c *gin.Context) {
	subscriberID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	p, ok := parsePagination(c, "created_at")
	if !ok {
		return
	}
	page, err := h.SubscriptionService.ListSubscribedChannels(middleware.ViewerFrom(c), subscriberID, p)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendData(c, page)
}
