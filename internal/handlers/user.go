package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/review"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/user"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/pagination"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/response"
)

type UserHandler struct {
	userService   user.Service
	reviewService review.Service
}

func NewUserHandler(userSvc user.Service, reviewSvc review.Service) *UserHandler {
	return &UserHandler{
		userService:   userSvc,
		reviewService: reviewSvc,
	}
}

// GetMe returns the caller's own profile.
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	u, err := h.userService.GetByID(claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile", fiber.Map{
		"id":                   u.ID,
		"name":                 u.Name,
		"email":                u.Email,
		"phone":                u.Phone,
		"about":                u.About,
		"location":             u.Location,
		"avatar_url":           u.AvatarURL,
		"allows_notifications": u.AllowsNotifications,
		"rating_average":       u.RatingAverage,
		"rating_count":         u.RatingCount,
		"member_since":         u.CreatedAt.Format("2006-01-02"),
	})
}

// GetUser returns another user's public profile.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid user id")
	}

	u, err := h.userService.GetByID(id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User", u.Public())
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input user.ProfileUpdate
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	updated, err := h.userService.UpdateProfile(claims.UserID, &input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile updated", updated.Public())
}

// RegisterPushToken stores a device token for push delivery.
func (h *UserHandler) RegisterPushToken(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	if err := h.userService.RegisterPushToken(claims.UserID, input.Token); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Push token registered", nil)
}

// GetUserReviews returns the visible reviews of a user.
func (h *UserHandler) GetUserReviews(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid user id")
	}

	p := pagination.ParseFromRequest(c)
	reviews, total, err := h.reviewService.ListForUser(c.Context(), id, p.Offset, p.Limit)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, reviews))
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}
