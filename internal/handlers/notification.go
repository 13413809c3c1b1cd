package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/notification"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/pagination"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/response"
)

type NotificationHandler struct {
	notificationService *notification.Service
}

func NewNotificationHandler(notificationSvc *notification.Service) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationSvc,
	}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	p := pagination.ParseFromRequest(c)
	notifications, total, err := h.notificationService.ListForUser(c.Context(), claims.UserID, p.Offset, p.Limit)
	if err != nil {
		return response.FromError(c, err)
	}

	unread, err := h.notificationService.CountUnread(c.Context(), claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}

	p.Total = total
	result := pagination.Response(p, notifications)
	result["unread_count"] = unread
	return c.JSON(result)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid notification id")
	}

	if err := h.notificationService.MarkRead(c.Context(), id, claims.UserID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Notification marked read", nil)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	if err := h.notificationService.MarkAllRead(c.Context(), claims.UserID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "All notifications marked read", nil)
}
