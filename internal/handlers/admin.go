package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/user"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/pagination"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/response"
)

type AdminHandler struct {
	userService  user.Service
	transactions repositories.TransactionRepository
}

func NewAdminHandler(userSvc user.Service, transactions repositories.TransactionRepository) *AdminHandler {
	return &AdminHandler{
		userService:  userSvc,
		transactions: transactions,
	}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || !claims.HasPermission(models.PermissionReadAdmin) {
		return response.Forbidden(c, "Access denied. Admin privileges required")
	}

	p := pagination.ParseFromRequest(c)
	users, total, err := h.userService.List(p.Offset, p.Limit)
	if err != nil {
		log.Printf("error fetching paginated users: %v", err)
		return response.ServerError(c, "failed to fetch users")
	}

	p.Total = total
	return c.JSON(pagination.Response(p, users))
}

// SetUserStatus activates or suspends an account.
func (h *AdminHandler) SetUserStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid user id")
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	if err := h.userService.UpdateStatus(id, input.Status); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "User status updated", nil)
}

// ListUserTransactions lists the escrow transactions of one user.
func (h *AdminHandler) ListUserTransactions(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid user id")
	}

	p := pagination.ParseFromRequest(c)
	transactions, total, err := h.transactions.ListByUser(c.Context(), id, p.Offset, p.Limit)
	if err != nil {
		log.Printf("error fetching transactions for user %d: %v", id, err)
		return response.ServerError(c, "failed to fetch transactions")
	}

	p.Total = total
	return c.JSON(pagination.Response(p, transactions))
}
