package validation

import (
	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72

	MaxTitleLength       = 100
	MaxDescriptionLength = 2000
	MaxCommentLength     = 1000
	MaxMessageLength     = 4000

	MinOfferPrice = 0.01
	MaxOfferPrice = 10000000
)

// UserRegistration validates a registration payload
func (v *Validator) UserRegistration(input *models.CreateUserInput) {
	v.Required("name", input.Name)
	v.MaxLength("name", input.Name, 100)
	v.Required("email", input.Email)
	v.Email("email", input.Email)
	v.Required("phone", input.Phone)
	v.Phone("phone", input.Phone)
	v.Password("password", input.Password)
	v.MaxLength("password", input.Password, MaxPasswordLength)
}

// NeedInput is the create/update payload for a need.
type NeedInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CategoryID  uint     `json:"category_id"`
	MinBudget   *float64 `json:"min_budget"`
	MaxBudget   *float64 `json:"max_budget"`
	Currency    string   `json:"currency"`
	Location    string   `json:"location"`
	Urgency     string   `json:"urgency"`
	ExpiresAt   string   `json:"expires_at"`
	ImageURLs   []string `json:"image_urls"`
}

// Need validates a need payload
func (v *Validator) Need(input *NeedInput) {
	v.Required("title", input.Title)
	v.MaxLength("title", input.Title, MaxTitleLength)
	v.MaxLength("description", input.Description, MaxDescriptionLength)
	v.Required("category_id", input.CategoryID)

	if input.Urgency != "" {
		v.OneOf("urgency", input.Urgency,
			models.UrgencyLow, models.UrgencyNormal, models.UrgencyHigh, models.UrgencyUrgent)
	}

	if input.MinBudget != nil {
		v.Range("min_budget", *input.MinBudget, 0, MaxOfferPrice)
	}
	if input.MaxBudget != nil {
		v.Range("max_budget", *input.MaxBudget, 0, MaxOfferPrice)
	}
	if input.MinBudget != nil && input.MaxBudget != nil {
		v.Check(*input.MinBudget <= *input.MaxBudget, "max_budget", "must not be less than min_budget")
	}
}

// OfferInput is the create payload for an offer.
type OfferInput struct {
	NeedID       uint    `json:"need_id"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	DeliveryDays int     `json:"delivery_days"`
	Message      string  `json:"message"`
}

// Offer validates an offer payload
func (v *Validator) Offer(input *OfferInput) {
	v.Required("need_id", input.NeedID)
	v.Required("price", input.Price)
	v.Range("price", input.Price, MinOfferPrice, MaxOfferPrice)
	v.Check(input.DeliveryDays > 0, "delivery_days", "must be a positive number of days")
	v.MaxLength("message", input.Message, MaxMessageLength)
}

// ReviewInput is the create payload for a review.
type ReviewInput struct {
	OfferID uint   `json:"offer_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Review validates a review payload
func (v *Validator) Review(input *ReviewInput) {
	v.Required("offer_id", input.OfferID)
	v.Check(input.Rating >= 1 && input.Rating <= 5, "rating", "must be between 1 and 5")
	v.MaxLength("comment", input.Comment, MaxCommentLength)
}

// CardInput carries card details for 3-D Secure initialization. Never stored.
type CardInput struct {
	HolderName  string `json:"holder_name"`
	Number      string `json:"number"`
	ExpireMonth string `json:"expire_month"`
	ExpireYear  string `json:"expire_year"`
	CVC         string `json:"cvc"`
}

// PaymentInit validates a payment initialization payload
func (v *Validator) PaymentInit(offerID uint, card *CardInput) {
	v.Required("offer_id", offerID)
	v.Required("card.holder_name", card.HolderName)
	v.Required("card.number", card.Number)
	v.MinLength("card.number", card.Number, 12)
	v.MaxLength("card.number", card.Number, 19)
	v.Required("card.expire_month", card.ExpireMonth)
	v.Required("card.expire_year", card.ExpireYear)
	v.Required("card.cvc", card.CVC)
	v.MinLength("card.cvc", card.CVC, 3)
	v.MaxLength("card.cvc", card.CVC, 4)
}
