package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog/hlog"

	"coinshop/cmd/web/validator"
	"coinshop/internal/checkout"
	"coinshop/internal/provider"
	"coinshop/internal/purchase"
	"coinshop/kit/db"
)

type Checkout struct {
	json     *validator.JSON
	checkout CheckoutContract
	payments PaymentStatusContract
	store    PurchaseStoreContract
}

func NewCheckout(jsonV *validator.JSON, checkoutSvc CheckoutContract, payments PaymentStatusContract, store PurchaseStoreContract) *Checkout {
	return &Checkout{json: jsonV, checkout: checkoutSvc, payments: payments, store: store}
}

// checkoutReq carries no account credentials: customerName is an opaque
// display name forwarded to the gateway.
type checkoutReq struct {
	PackageID     int    `json:"packageId" valid:"-"`
	CustomCoins   int64  `json:"customCoins" valid:"range(0|1000000),optional"`
	Provider      string `json:"provider" valid:"in(lygospay|soleaspay),optional"`
	CustomerName  string `json:"customerName" valid:"stringlength(1|100),optional"`
	CustomerEmail string `json:"customerEmail" valid:"email,required"`
}

type checkoutResp struct {
	OrderID    string               `json:"order_id"`
	Provider   provider.Type        `json:"provider"`
	Status     purchase.Status      `json:"status"`
	PaymentURL string               `json:"payment_url,omitempty"`
	Navigation *provider.Navigation `json:"navigation,omitempty"`
}

type landingResp struct {
	OrderID  string             `json:"order_id"`
	Purchase *purchase.Purchase `json:"purchase,omitempty"`
	purchase.Summary
}

// Start handles POST /checkout. API callers get the navigation as JSON; a
// browser is sent straight on to the gateway.
func (h *Checkout) Start(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(w, r)
	if err != nil {
		writeError(w, r, "Start", err)
		return
	}

	res, err := h.checkout.Start(r.Context(), checkout.Request{
		PackageID:     req.PackageID,
		CustomCoins:   req.CustomCoins,
		Provider:      provider.Type(req.Provider),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		writeError(w, r, "Start", err)
		return
	}
	hlog.FromRequest(r).Info().Str("layer", "handler").Str("method", "Start").Str("order_id", res.OrderID).Str("provider", string(res.Provider)).Msg("checkout started")

	nav := res.Response.Navigation
	if wantsHTML(r) && nav != nil {
		switch nav.Kind {
		case provider.NavigationRedirect:
			http.Redirect(w, r, nav.URL, http.StatusSeeOther)
			return
		case provider.NavigationFormPost:
			renderFormPost(w, r, nav)
			return
		}
	}

	writeJSON(w, r, http.StatusCreated, checkoutResp{
		OrderID:    res.OrderID,
		Provider:   res.Provider,
		Status:     res.Purchase.Status,
		PaymentURL: res.Response.PaymentURL,
		Navigation: nav,
	})
}

// decode accepts a JSON body or a plain HTML form post.
func (h *Checkout) decode(w http.ResponseWriter, r *http.Request) (checkoutReq, error) {
	var req checkoutReq
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		return req, h.json.DecodeValid(w, r, &req)
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.json.MaxBytes)
	if err := r.ParseForm(); err != nil {
		return req, validator.ErrInvalidRequest
	}
	var err error
	if req.PackageID, err = formInt(r, "packageId"); err != nil {
		return req, err
	}
	coins, err := formInt(r, "customCoins")
	if err != nil {
		return req, err
	}
	req.CustomCoins = int64(coins)
	req.Provider = r.PostForm.Get("provider")
	req.CustomerName = r.PostForm.Get("customerName")
	req.CustomerEmail = r.PostForm.Get("customerEmail")
	return req, validator.Struct(&req)
}

func formInt(r *http.Request, key string) (int, error) {
	raw := r.PostForm.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validator.ErrInvalidRequest
	}
	return n, nil
}

// Status handles GET /payments/{orderId}/status. Without a provider query the
// one recorded on the purchase is asked, then the default.
func (h *Checkout) Status(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if strings.TrimSpace(orderID) == "" {
		writeError(w, r, "Status", validator.ErrInvalidRequest)
		return
	}

	pt := provider.Type(r.URL.Query().Get("provider"))
	if pt == "" {
		rec, err := h.store.Get(r.Context(), orderID)
		switch {
		case err == nil:
			pt = provider.Type(rec.Provider)
		case !db.IsNotFound(err):
			writeError(w, r, "Status", err)
			return
		}
	}

	st, err := h.payments.CheckStatus(r.Context(), orderID, pt)
	if err != nil {
		writeError(w, r, "Status", err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

// Success handles GET /payment/success?orderId=.
func (h *Checkout) Success(w http.ResponseWriter, r *http.Request) {
	h.land(w, r, checkout.OutcomeSuccess)
}

// Cancel handles GET /payment/cancel?orderId=&error=.
func (h *Checkout) Cancel(w http.ResponseWriter, r *http.Request) {
	h.land(w, r, checkout.OutcomeFailure)
}

func (h *Checkout) land(w http.ResponseWriter, r *http.Request, outcome checkout.Outcome) {
	q := r.URL.Query()
	orderID := q.Get("orderId")

	sum, err := h.checkout.HandleReturn(r.Context(), orderID, outcome, q.Get("error"))
	if errors.Is(err, purchase.ErrTerminalState) {
		// A repeated or contradicting redirect shows the settled state.
		hlog.FromRequest(r).Info().Err(err).Str("layer", "handler").Str("method", "Land").Str("order_id", orderID).Msg("purchase already settled")
		sum, err = h.store.Summary(r.Context())
	}
	if err != nil {
		writeError(w, r, "Land", err)
		return
	}

	resp := landingResp{OrderID: orderID, Summary: sum}
	for i := range sum.PurchaseHistory {
		if sum.PurchaseHistory[i].ID == orderID {
			p := sum.PurchaseHistory[i]
			resp.Purchase = &p
			break
		}
	}

	if wantsHTML(r) {
		v := landingView{OrderID: orderID, Balance: sum.Balance}
		if resp.Purchase != nil {
			v.Found = true
			v.Status = resp.Purchase.Status
			v.ErrorMessage = resp.Purchase.ErrorMessage
		}
		renderLanding(w, r, v)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}
