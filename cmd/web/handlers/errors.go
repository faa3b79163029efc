package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"coinshop/cmd/web/validator"
	"coinshop/internal/catalog"
	"coinshop/internal/payment"
	"coinshop/internal/provider"
	"coinshop/internal/purchase"
	"coinshop/kit/db"
	gateway "coinshop/kit/external_payment_gateway"
)

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, validator.ErrInvalidJSON),
		errors.Is(err, validator.ErrInvalidRequest),
		errors.Is(err, db.ErrInvalid),
		errors.Is(err, provider.ErrValidation),
		errors.Is(err, provider.ErrUnknownProvider),
		errors.Is(err, catalog.ErrUnknownPackage),
		errors.Is(err, catalog.ErrBelowMinimum),
		errors.Is(err, catalog.ErrAboveMaximum),
		errors.Is(err, catalog.ErrPriceOverflow),
		errors.Is(err, purchase.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrConflict),
		errors.Is(err, purchase.ErrTerminalState):
		return http.StatusConflict
	case errors.Is(err, provider.ErrNotConfigured),
		errors.Is(err, provider.ErrProviderDisabled),
		errors.Is(err, provider.ErrNoProviderEnabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, provider.ErrGateway),
		errors.Is(err, gateway.ErrTimeout),
		errors.Is(err, gateway.ErrServer),
		errors.Is(err, gateway.ErrClient),
		errors.Is(err, gateway.ErrCircuitOpen),
		errors.Is(err, gateway.ErrDecode):
		return http.StatusBadGateway
	}
	var perr *payment.Error
	if errors.As(err, &perr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// messageFor hides internal failures. Everything else already carries a
// message meant for the customer.
func messageFor(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal error"
	}
	var perr *payment.Error
	if errors.As(err, &perr) {
		return perr.Message
	}
	var verr *provider.Error
	if errors.As(err, &verr) {
		return verr.Message
	}
	// errors.Join puts the sentinel first and the detail last.
	msg := err.Error()
	if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
		msg = msg[i+1:]
	}
	return msg
}

func writeError(w http.ResponseWriter, r *http.Request, method string, err error) {
	status := statusFor(err)
	ev := hlog.FromRequest(r).Warn()
	if status == http.StatusInternalServerError {
		ev = hlog.FromRequest(r).Error()
	}
	ev.Err(err).Str("layer", "handler").Str("method", method).Int("status", status).Msg("request failed")
	writeJSON(w, r, status, errorBody{Error: messageFor(err, status)})
}
