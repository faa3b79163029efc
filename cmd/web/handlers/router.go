package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"
	chiware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/throttled/throttled"
	"github.com/throttled/throttled/store/memstore"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	AllowedOrigins     []string
	CheckoutRatePerMin int
	CheckoutBurst      int
	// SecureCookies marks the customer cookie https-only.
	SecureCookies bool
}

type Router struct {
	Checkout  *Checkout
	Purchases *Purchases
	Catalog   *Catalog
	Health    *Health
	Gatherer  prometheus.Gatherer
}

// NewRouter mounts every route. The middleware chain is request id, real ip,
// request logger, recovery, timeout, then cors. Purchase routes are scoped to
// the customer cookie.
func NewRouter(logger *zerolog.Logger, cfg RouterConfig, h Router) (chi.Router, error) {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(hlog.NewHandler(*logger))
	r.Use(requestIDLogger)
	r.Use(hlog.AccessHandler(func(req *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(req).Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(chiware.Recoverer)
	r.Use(chiware.Timeout(cfg.RequestTimeout))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	limit, err := RateLimiter(cfg.CheckoutRatePerMin, cfg.CheckoutBurst)
	if err != nil {
		return nil, err
	}

	r.Get("/health", h.Health.Handler)
	if h.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/packages", h.Catalog.Packages)
	r.Get("/providers", h.Catalog.Providers)

	r.Group(func(r chi.Router) {
		r.Use(Customers(cfg.SecureCookies))

		r.With(limit).Post("/checkout", h.Checkout.Start)
		r.Get("/payments/{orderId}/status", h.Checkout.Status)
		r.Get("/payment/success", h.Checkout.Success)
		r.Get("/payment/cancel", h.Checkout.Cancel)

		r.Get("/purchases", h.Purchases.List)
		r.Delete("/purchases", h.Purchases.Reset)
		r.Get("/balance", h.Purchases.Balance)
	})

	return r, nil
}

// RateLimiter limits each client address with a GCRA bucket kept in memory.
// A perMin of zero disables the limit.
func RateLimiter(perMin, burst int) (func(http.Handler) http.Handler, error) {
	if perMin <= 0 {
		return func(next http.Handler) http.Handler { return next }, nil
	}
	store, err := memstore.New(65536)
	if err != nil {
		return nil, err
	}
	rateLimiter, err := throttled.NewGCRARateLimiter(store, throttled.RateQuota{
		MaxRate:  throttled.PerMin(perMin),
		MaxBurst: burst,
	})
	if err != nil {
		return nil, err
	}
	httpRateLimiter := throttled.HTTPRateLimiter{
		RateLimiter: rateLimiter,
		VaryBy: &throttled.VaryBy{
			RemoteAddr: true,
			Path:       true,
			Method:     true,
		},
	}
	return httpRateLimiter.RateLimit, nil
}

func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chiware.GetReqID(r.Context()); id != "" {
			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}
