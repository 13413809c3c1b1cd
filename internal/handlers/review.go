package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/review"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/response"
	"github.com/sabridemirel/arayanibul-sub001/internal/validation"
)

type ReviewHandler struct {
	reviewService review.Service
}

func NewReviewHandler(reviewSvc review.Service) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewSvc,
	}
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input validation.ReviewInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	created, err := h.reviewService.Create(c.Context(), claims.UserID, &input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Review submitted", created)
}

// SetVisibility hides or restores a review. Admin only.
func (h *ReviewHandler) SetVisibility(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid review id")
	}

	var input struct {
		Visible *bool `json:"visible"`
	}
	if err := c.BodyParser(&input); err != nil || input.Visible == nil {
		return response.BadRequest(c, "visible flag is required")
	}

	if err := h.reviewService.SetVisibility(c.Context(), id, *input.Visible); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Review visibility updated", nil)
}
