package payments

import (
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"

	"chatman-ops-backend/internal/models"
)

// CheckoutClient creates hosted Stripe Checkout sessions for quote payments.
// Success and cancel URLs are scoped to the customer link token so the
// customer lands back on their own tokenized pages.
type CheckoutClient struct {
	baseURL string
}

func NewCheckoutClient(apiKey, baseURL string) *CheckoutClient {
	stripe.Key = apiKey
	return &CheckoutClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// CreateQuoteCheckout opens a hosted checkout session for amountCents and
// returns the session id and the URL the customer is redirected to.
func (c *CheckoutClient) CreateQuoteCheckout(token string, quote *models.Quote, amountCents int64, paymentType string) (string, string, error) {
	productName := fmt.Sprintf("Quote %s", quote.QuoteNumber)
	if paymentType == models.PaymentTypeDeposit {
		productName = fmt.Sprintf("Deposit for quote %s", quote.QuoteNumber)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(fmt.Sprintf("%s/c/%s/payment-success?session_id={CHECKOUT_SESSION_ID}", c.baseURL, token)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/c/%s/approve", c.baseURL, token)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(productName),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if quote.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(quote.CustomerEmail)
	}
	params.AddMetadata("quote_id", quote.ID.String())
	params.AddMetadata("customer_link_token", token)
	params.AddMetadata("payment_type", paymentType)

	s, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	return s.ID, s.URL, nil
}
