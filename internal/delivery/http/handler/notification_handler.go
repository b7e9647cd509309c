package handler

import (
	"net/http"

	notificationUsecase "trusthire/internal/usecase/notification"
	"trusthire/pkg/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service *notificationUsecase.Service
}

func NewNotificationHandler(service *notificationUsecase.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// RegisterRoutes expects router to carry the auth middleware.
func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.PATCH("/read-all", h.MarkAllRead)
		notifications.PATCH("/:id/read", h.MarkRead)
		notifications.DELETE("/:id", h.Delete)
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	resp, err := h.service.List(c.Request.Context(), p.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "notification")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), p.ID, id); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notification marked as read", nil)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	updated, err := h.service.MarkAllRead(c.Request.Context(), p.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "All notifications marked as read", gin.H{"updated": updated})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "notification")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), p.ID, id); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notification deleted", nil)
}
