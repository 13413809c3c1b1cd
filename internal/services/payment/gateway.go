package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
	"github.com/stripe/stripe-go/v72/paymentmethod"
	"github.com/stripe/stripe-go/v72/token"

	"github.com/sabridemirel/arayanibul-sub001/internal/validation"
)

// GatewayState is the gateway-side status of a payment.
type GatewayState string

const (
	GatewayStateSucceeded GatewayState = "succeeded"
	GatewayStatePending   GatewayState = "pending"
	GatewayStateFailed    GatewayState = "failed"
)

// InitiateRequest is the input for a 3-D Secure payment initialization.
type InitiateRequest struct {
	Amount         float64
	Currency       string
	ConversationID string
	Card           validation.CardInput
	ReturnURL      string
}

// InitiateResult carries the gateway reference and the redirect the buyer
// must complete issuer authentication on.
type InitiateResult struct {
	GatewayRef  string
	RedirectURL string
}

// Gateway abstracts the payment provider. The composition root owns the
// concrete client so services never touch SDK globals.
type Gateway interface {
	InitiatePayment(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	RetrievePayment(ctx context.Context, gatewayRef string) (GatewayState, error)
}

// StripeGateway implements Gateway on Stripe PaymentIntents with card
// tokenization and 3-D Secure redirects.
type StripeGateway struct{}

// NewStripeGateway sets the Stripe API key and returns the gateway.
func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

func (g *StripeGateway) InitiatePayment(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	tok, err := token.New(&stripe.TokenParams{
		Card: &stripe.CardParams{
			Number:   stripe.String(req.Card.Number),
			ExpMonth: stripe.String(req.Card.ExpireMonth),
			ExpYear:  stripe.String(req.Card.ExpireYear),
			CVC:      stripe.String(req.Card.CVC),
			Name:     stripe.String(req.Card.HolderName),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("card tokenization failed: %w", err)
	}

	pm, err := paymentmethod.New(&stripe.PaymentMethodParams{
		Type: stripe.String("card"),
		Card: &stripe.PaymentMethodCardParams{Token: stripe.String(tok.ID)},
	})
	if err != nil {
		return nil, fmt.Errorf("payment method creation failed: %w", err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(int64(req.Amount * 100)),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod: stripe.String(pm.ID),
		Confirm:       stripe.Bool(true),
		ReturnURL:     stripe.String(req.ReturnURL),
	}
	params.AddMetadata("conversation_id", req.ConversationID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("payment initialization failed: %w", err)
	}

	result := &InitiateResult{GatewayRef: pi.ID}
	if pi.NextAction != nil && pi.NextAction.RedirectToURL != nil {
		result.RedirectURL = pi.NextAction.RedirectToURL.URL
	}
	return result, nil
}

func (g *StripeGateway) RetrievePayment(ctx context.Context, gatewayRef string) (GatewayState, error) {
	pi, err := paymentintent.Get(gatewayRef, nil)
	if err != nil {
		return GatewayStateFailed, fmt.Errorf("payment retrieval failed: %w", err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return GatewayStateSucceeded, nil
	case stripe.PaymentIntentStatusCanceled, stripe.PaymentIntentStatusRequiresPaymentMethod:
		return GatewayStateFailed, nil
	default:
		return GatewayStatePending, nil
	}
}
