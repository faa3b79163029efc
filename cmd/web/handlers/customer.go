package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"coinshop/internal/purchase"
)

const (
	CustomerCookie = "coinshop_customer"
	customerMaxAge = 365 * 24 * 60 * 60
)

// Customers scopes purchase history and balance to the browser. A missing or
// malformed cookie gets a fresh random id.
func Customers(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(CustomerCookie); err == nil {
				if parsed, perr := uuid.Parse(c.Value); perr == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
			}
			// refresh the expiry on every visit
			http.SetCookie(w, &http.Cookie{
				Name:     CustomerCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   customerMaxAge,
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := purchase.WithCustomer(r.Context(), id)
			zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("customer", id[:8])
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
