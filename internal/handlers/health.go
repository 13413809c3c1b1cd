package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sabridemirel/arayanibul-sub001/internal/services/notification"
)

func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"services": fiber.Map{
			"database": "connected",
			"redis":    "connected",
		},
	})
}

// NotificationStats exposes the dispatcher's delivery counters.
func NotificationStats(notificationSvc *notification.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sent, failed := notificationSvc.Stats()
		return c.JSON(fiber.Map{
			"notifications": fiber.Map{
				"sent":   sent,
				"failed": failed,
			},
		})
	}
}
