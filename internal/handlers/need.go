package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/need"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/offer"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/search"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/pagination"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/response"
	"github.com/sabridemirel/arayanibul-sub001/internal/validation"
)

type NeedHandler struct {
	needService   need.Service
	offerService  offer.Service
	searchService search.Service
}

func NewNeedHandler(needSvc need.Service, offerSvc offer.Service, searchSvc search.Service) *NeedHandler {
	return &NeedHandler{
		needService:   needSvc,
		offerService:  offerSvc,
		searchService: searchSvc,
	}
}

func (h *NeedHandler) Create(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input validation.NeedInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	created, err := h.needService.Create(c.Context(), claims.UserID, &input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Need created", created)
}

func (h *NeedHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid need id")
	}

	n, err := h.needService.Get(c.Context(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Need", n)
}

func (h *NeedHandler) Update(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid need id")
	}

	var input validation.NeedInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	updated, err := h.needService.Update(c.Context(), claims.UserID, id, &input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Need updated", updated)
}

func (h *NeedHandler) Cancel(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid need id")
	}

	if err := h.needService.Cancel(c.Context(), claims.UserID, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Need cancelled", nil)
}

func (h *NeedHandler) ListMine(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	p := pagination.ParseFromRequest(c)
	needs, total, err := h.needService.ListMine(c.Context(), claims.UserID, p.Offset, p.Limit)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, needs))
}

// ListOffers returns the offers on one of the caller's needs.
func (h *NeedHandler) ListOffers(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid need id")
	}

	offers, err := h.offerService.ListForNeed(c.Context(), claims.UserID, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offers", offers)
}

// Search ranks active needs against a free-text query. Public.
func (h *NeedHandler) Search(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	categoryID, _ := parseQueryUint(c, "category_id")

	results, total, err := h.searchService.Search(c.Context(), c.Query("q"), search.Options{
		CategoryID: categoryID,
		Offset:     p.Offset,
		Limit:      p.Limit,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = int64(total)
	return c.JSON(pagination.Response(p, results))
}

// Recommended returns the most active needs for the caller.
func (h *NeedHandler) Recommended(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	limit, _ := parseQueryUint(c, "limit")
	needs, err := h.searchService.Recommend(c.Context(), claims.UserID, int(limit))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Recommended needs", needs)
}

func parseQueryUint(c *fiber.Ctx, name string) (uint, error) {
	v := c.QueryInt(name, 0)
	if v < 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(v), nil
}
