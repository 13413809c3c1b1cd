package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/offer"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/pagination"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/response"
	"github.com/sabridemirel/arayanibul-sub001/internal/validation"
)

type OfferHandler struct {
	offerService offer.Service
}

func NewOfferHandler(offerSvc offer.Service) *OfferHandler {
	return &OfferHandler{
		offerService: offerSvc,
	}
}

func (h *OfferHandler) Create(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input validation.OfferInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	created, err := h.offerService.Create(c.Context(), claims.UserID, &input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Offer submitted", created)
}

func (h *OfferHandler) Get(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid offer id")
	}

	o, err := h.offerService.Get(c.Context(), claims.UserID, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offer", o)
}

// Accept marks the offer accepted, rejects its siblings and moves the need
// to in_progress.
func (h *OfferHandler) Accept(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid offer id")
	}

	accepted, err := h.offerService.Accept(c.Context(), claims.UserID, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offer accepted", accepted)
}

func (h *OfferHandler) Reject(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid offer id")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&input) // reason is optional

	if err := h.offerService.Reject(c.Context(), claims.UserID, id, input.Reason); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offer rejected", nil)
}

func (h *OfferHandler) Withdraw(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid offer id")
	}

	if err := h.offerService.Withdraw(c.Context(), claims.UserID, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offer withdrawn", nil)
}

func (h *OfferHandler) Delete(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid offer id")
	}

	if err := h.offerService.Delete(c.Context(), claims.UserID, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offer deleted", nil)
}

func (h *OfferHandler) ListMine(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	p := pagination.ParseFromRequest(c)
	offers, total, err := h.offerService.ListMine(c.Context(), claims.UserID, p.Offset, p.Limit)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, offers))
}
