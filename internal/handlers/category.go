package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/response"
)

type CategoryHandler struct {
	categories repositories.CategoryRepository
}

func NewCategoryHandler(categories repositories.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
	}
}

// List returns the active categories. Public.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.categories.ListActive(c.Context())
	if err != nil {
		return response.ServerError(c, "failed to load categories")
	}
	return response.Success(c, "Categories", categories)
}
