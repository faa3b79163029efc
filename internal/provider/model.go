package provider

import "net/url"

type Type string

const (
	TypeLygosPay  Type = "lygospay"
	TypeSoleasPay Type = "soleaspay"
)

func (t Type) Valid() bool {
	return t == TypeLygosPay || t == TypeSoleasPay
}

// Params describes one payment initiation. Amount is in the smallest unit of
// Currency.
type Params struct {
	Amount        int64
	Currency      string
	Description   string
	OrderID       string
	CustomerName  string
	CustomerEmail string
	SuccessURL    string
	FailureURL    string
	ShopName      string
	Message       string

	// SoleasPay only.
	Service int
	Line    string
}

type NavigationKind string

const (
	// NavigationRedirect sends the browser to URL with a plain GET.
	NavigationRedirect NavigationKind = "redirect"
	// NavigationFormPost makes the browser submit Fields to URL. Nothing the
	// caller sequences after handing this to the browser is guaranteed to run.
	NavigationFormPost NavigationKind = "form_post"
)

// Navigation tells the caller how to get the customer's browser to the
// gateway's hosted checkout.
type Navigation struct {
	Kind   NavigationKind `json:"kind"`
	Method string         `json:"method"`
	URL    string         `json:"url"`
	Fields url.Values     `json:"fields,omitempty"`
}

type Response struct {
	Success    bool        `json:"success"`
	PaymentURL string      `json:"payment_url,omitempty"`
	GatewayID  string      `json:"gateway_id,omitempty"`
	Error      string      `json:"error,omitempty"`
	Navigation *Navigation `json:"navigation,omitempty"`
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// StatusResponse is always a usable answer. Error explains why Status could
// not be confirmed by the gateway.
type StatusResponse struct {
	OrderID string `json:"order_id"`
	Status  Status `json:"status"`
	Error   string `json:"error,omitempty"`
}

// Config is the static, per-type provider configuration. APIKey is never
// logged.
type Config struct {
	Type    Type   `mapstructure:"type" json:"type"`
	APIKey  string `mapstructure:"api_key" json:"-"`
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	BaseURL string `mapstructure:"base_url" json:"base_url,omitempty"`
}
