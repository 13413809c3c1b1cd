package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/payment"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/pagination"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils/response"
	"github.com/sabridemirel/arayanibul-sub001/internal/validation"
)

type PaymentHandler struct {
	paymentService payment.Service
}

func NewPaymentHandler(paymentSvc payment.Service) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentSvc,
	}
}

// Initialize starts an escrow payment on an accepted offer and returns the
// 3-D Secure redirect.
func (h *PaymentHandler) Initialize(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var req payment.InitializeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	v.PaymentInit(req.OfferID, &req.Card)
	if !v.Valid() {
		return response.ValidationFailed(c, "validation failed", v.Errors)
	}

	result, err := h.paymentService.Initialize(c.Context(), claims.UserID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Payment initialized", result)
}

// Callback is invoked by the gateway after issuer authentication. It is
// anonymous and form-encoded; the transaction is identified by the
// conversation id we minted at initialization.
func (h *PaymentHandler) Callback(c *fiber.Ctx) error {
	conversationID := c.FormValue("conversationId")
	if conversationID == "" {
		conversationID = c.Query("conversationId")
	}
	if conversationID == "" {
		return response.BadRequest(c, "missing conversation id")
	}

	transaction, err := h.paymentService.HandleCallback(c.Context(), conversationID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Payment status", fiber.Map{
		"transaction_id": transaction.ID,
		"status":         transaction.Status,
	})
}

func (h *PaymentHandler) Release(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid transaction id")
	}

	released, err := h.paymentService.Release(c.Context(), claims.UserID, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Payment released", released)
}

func (h *PaymentHandler) Refund(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid transaction id")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&input)

	refunded, err := h.paymentService.Refund(c.Context(), claims.UserID, id, input.Reason)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Payment refunded", refunded)
}

func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid transaction id")
	}

	transaction, err := h.paymentService.Get(c.Context(), claims.UserID, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Transaction", transaction)
}

func (h *PaymentHandler) ListMine(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	p := pagination.ParseFromRequest(c)
	transactions, total, err := h.paymentService.ListMine(c.Context(), claims.UserID, p.Offset, p.Limit)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, transactions))
}
