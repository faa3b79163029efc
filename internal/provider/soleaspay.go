package provider

import (
	"context"
	"net/http"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog/log"
)

const (
	SoleasPayCheckoutURL   = "https://checkout.soleaspay.com"
	DefaultCurrency        = "XAF"
	defaultSoleasShopName  = "PayOolTM"
	soleasStatusUnverified = "Status check not available for SoleasPay"
)

// soleasForm is the checkout form as the gateway expects it.
type soleasForm struct {
	Amount        int64  `url:"amount"`
	Currency      string `url:"currency"`
	Description   string `url:"description"`
	OrderID       string `url:"orderId"`
	APIKey        string `url:"apiKey"`
	ShopName      string `url:"shopName"`
	SuccessURL    string `url:"successUrl"`
	FailureURL    string `url:"failureUrl"`
	Service       int    `url:"service,omitempty"`
	Line          string `url:"line,omitempty"`
	CustomerName  string `url:"customer[name]"`
	CustomerEmail string `url:"customer[email]"`
}

// SoleasPay hands the browser a form to post to the hosted checkout. The
// gateway has no status API; outcomes arrive only through the return URLs.
type SoleasPay struct {
	apiKey      string
	checkoutURL string
}

func NewSoleasPay(apiKey, checkoutURL string) *SoleasPay {
	if checkoutURL == "" {
		checkoutURL = SoleasPayCheckoutURL
	}
	return &SoleasPay{apiKey: apiKey, checkoutURL: checkoutURL}
}

func (s *SoleasPay) Name() string { return "SoleasPay" }

func (s *SoleasPay) Type() Type { return TypeSoleasPay }

func (s *SoleasPay) IsConfigured() bool { return s.apiKey != "" }

func (s *SoleasPay) InitiatePayment(ctx context.Context, p Params) (Response, error) {
	if !s.IsConfigured() {
		err := newError(ErrNotConfigured, "SoleasPay API key is not configured", nil)
		return failed(err), err
	}
	if err := ValidateParams(p); err != nil {
		log.Ctx(ctx).Info().Str("layer", "provider").Str("component", "soleaspay").Str("method", "InitiatePayment").Str("order_id", p.OrderID).Err(err).Msg("rejected params")
		return failed(err), err
	}

	form := soleasForm{
		Amount:        p.Amount,
		Currency:      p.Currency,
		Description:   p.Description,
		OrderID:       p.OrderID,
		APIKey:        s.apiKey,
		ShopName:      p.ShopName,
		SuccessURL:    p.SuccessURL,
		FailureURL:    p.FailureURL,
		Service:       p.Service,
		Line:          p.Line,
		CustomerName:  p.CustomerName,
		CustomerEmail: p.CustomerEmail,
	}
	if form.Currency == "" {
		form.Currency = DefaultCurrency
	}
	if form.ShopName == "" {
		form.ShopName = defaultSoleasShopName
	}

	fields, err := query.Values(form)
	if err != nil {
		perr := newError(ErrValidation, "unable to encode SoleasPay checkout form", err)
		return failed(perr), perr
	}

	return Response{
		Success:    true,
		PaymentURL: s.checkoutURL,
		Navigation: &Navigation{
			Kind:   NavigationFormPost,
			Method: http.MethodPost,
			URL:    s.checkoutURL,
			Fields: fields,
		},
	}, nil
}

func (s *SoleasPay) CheckPaymentStatus(ctx context.Context, orderID string) StatusResponse {
	return StatusResponse{OrderID: orderID, Status: StatusPending, Error: soleasStatusUnverified}
}
