package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/wallet"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/response"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletSvc wallet.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletSvc,
	}
}

// GetBalance returns the caller's earnings wallet.
func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	w, err := h.walletService.GetBalance(c.Context(), claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Wallet", w)
}
