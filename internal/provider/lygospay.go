package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	gateway "coinshop/kit/external_payment_gateway"
)

const (
	LygosPayBaseURL       = "https://api.lygosapp.com/v1"
	defaultLygosShopName  = "PayOol™"
	lygosMissingLinkError = "No payment link received from LygosPay"
)

// Doer is the slice of the gateway client an adapter needs.
type Doer interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

type lygosCreateRequest struct {
	Amount     int64  `json:"amount"`
	ShopName   string `json:"shop_name"`
	OrderID    string `json:"order_id"`
	Message    string `json:"message"`
	SuccessURL string `json:"success_url"`
	FailureURL string `json:"failure_url"`
}

type lygosCreateResponse struct {
	Link string `json:"link"`
	ID   string `json:"id"`
}

type lygosStatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// LygosPay creates a hosted payment page over REST and can be polled for the
// outcome. The api-key header is set on the Doer.
type LygosPay struct {
	apiKey string
	client Doer
}

func NewLygosPay(apiKey string, client Doer) *LygosPay {
	return &LygosPay{apiKey: apiKey, client: client}
}

func (l *LygosPay) Name() string { return "LygosPay" }

func (l *LygosPay) Type() Type { return TypeLygosPay }

func (l *LygosPay) IsConfigured() bool { return l.apiKey != "" }

func (l *LygosPay) InitiatePayment(ctx context.Context, p Params) (Response, error) {
	logger := log.Ctx(ctx).With().Str("layer", "provider").Str("component", "lygospay").Str("method", "InitiatePayment").Str("order_id", p.OrderID).Logger()

	if !l.IsConfigured() {
		err := newError(ErrNotConfigured, "LygosPay API key is not configured", nil)
		return failed(err), err
	}
	if err := ValidateParams(p); err != nil {
		logger.Info().Err(err).Msg("rejected params")
		return failed(err), err
	}

	req := lygosCreateRequest{
		Amount:     p.Amount,
		ShopName:   p.ShopName,
		OrderID:    p.OrderID,
		Message:    p.Message,
		SuccessURL: p.SuccessURL,
		FailureURL: p.FailureURL,
	}
	if req.ShopName == "" {
		req.ShopName = defaultLygosShopName
	}
	if req.Message == "" {
		req.Message = p.Description
	}

	var out lygosCreateResponse
	if err := l.client.Do(ctx, http.MethodPost, "gateway", req, &out); err != nil {
		perr := newError(ErrGateway, gatewayMessage(err, true), err)
		logger.Warn().Err(err).Msg("gateway creation failed")
		return failed(perr), perr
	}
	if out.Link == "" {
		err := newError(ErrGateway, lygosMissingLinkError, nil)
		logger.Warn().Str("gateway_id", out.ID).Msg("gateway answered without link")
		return failed(err), err
	}

	return Response{
		Success:    true,
		PaymentURL: out.Link,
		GatewayID:  out.ID,
		Navigation: &Navigation{
			Kind:   NavigationRedirect,
			Method: http.MethodGet,
			URL:    out.Link,
		},
	}, nil
}

func (l *LygosPay) CheckPaymentStatus(ctx context.Context, orderID string) StatusResponse {
	if !l.IsConfigured() {
		return StatusResponse{OrderID: orderID, Status: StatusFailed, Error: "LygosPay API key is not configured"}
	}

	var out lygosStatusResponse
	if err := l.client.Do(ctx, http.MethodGet, "gateway/payin/"+url.PathEscape(orderID), nil, &out); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("layer", "provider").Str("component", "lygospay").Str("method", "CheckPaymentStatus").Str("order_id", orderID).Msg("status check failed")
		return StatusResponse{OrderID: orderID, Status: StatusFailed, Error: gatewayMessage(err, false)}
	}

	resolved := out.OrderID
	if resolved == "" {
		resolved = orderID
	}
	return StatusResponse{OrderID: resolved, Status: mapLygosStatus(out.Status)}
}

// mapLygosStatus folds the gateway's free-text status onto ours.
func mapLygosStatus(raw string) Status {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "success"), strings.Contains(s, "completed"), strings.Contains(s, "paid"):
		return StatusSuccess
	case strings.Contains(s, "fail"), strings.Contains(s, "error"):
		return StatusFailed
	case strings.Contains(s, "cancel"):
		return StatusCancelled
	default:
		return StatusPending
	}
}

// gatewayMessage prefers the gateway's own detail field for non-2xx answers.
func gatewayMessage(err error, withDetail bool) string {
	var httpErr *gateway.HTTPError
	if !errors.As(err, &httpErr) {
		return err.Error()
	}
	if withDetail {
		var body struct {
			Detail json.RawMessage `json:"detail"`
		}
		if json.Unmarshal(httpErr.Body, &body) == nil && len(body.Detail) > 0 && string(body.Detail) != "null" {
			var detail string
			if json.Unmarshal(body.Detail, &detail) != nil {
				detail = string(body.Detail)
			}
			if detail != "" {
				return detail
			}
		}
	}
	return fmt.Sprintf("HTTP error! status: %d", httpErr.Status)
}
