package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/message"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/pagination"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/response"
)

type MessageHandler struct {
	messageService message.Service
}

func NewMessageHandler(messageSvc message.Service) *MessageHandler {
	return &MessageHandler{
		messageService: messageSvc,
	}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var req message.SendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	sent, err := h.messageService.Send(c.Context(), claims.UserID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Message sent", sent)
}

func (h *MessageHandler) ListConversations(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	conversations, err := h.messageService.ListConversations(c.Context(), claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Conversations", conversations)
}

func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid conversation id")
	}

	p := pagination.ParseFromRequest(c)
	messages, total, err := h.messageService.ListMessages(c.Context(), claims.UserID, id, p.Offset, p.Limit)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, messages))
}

func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid conversation id")
	}

	if err := h.messageService.MarkRead(c.Context(), claims.UserID, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Conversation marked read", nil)
}
