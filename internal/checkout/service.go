package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"coinshop/internal/events"
	"coinshop/internal/provider"
	"coinshop/internal/purchase"
	"coinshop/kit/db"
)

const (
	maxOrderIDAttempts    = 5
	defaultFailureMessage = "Payment was cancelled or failed"
)

var ErrOrderIDExhausted = errors.New("checkout: could not mint a unique order id")

type Option func(*Service)

func WithPublisher(p PublisherContract) Option {
	return func(s *Service) { s.bus = p }
}

// WithOrderIDs replaces the order id generator.
func WithOrderIDs(gen func() (string, error)) Option {
	return func(s *Service) { s.newID = gen }
}

// Service is the caller of the payment orchestrator: it records the pending
// purchase, hands the customer to the gateway and applies the gateway's
// return redirect.
type Service struct {
	payments PaymentContract
	store    StoreContract
	catalog  CatalogContract
	registry RegistryContract
	bus      PublisherContract
	cfg      Config
	newID    func() (string, error)
}

func NewService(payments PaymentContract, store StoreContract, cat CatalogContract, registry RegistryContract, cfg Config, opts ...Option) *Service {
	if cfg.Currency == "" {
		cfg.Currency = provider.DefaultCurrency
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	s := &Service{
		payments: payments,
		store:    store,
		catalog:  cat,
		registry: registry,
		cfg:      cfg,
		newID:    NewOrderID,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start persists the pending purchase before initiating the payment: a
// form-post gateway takes the customer away and nothing after the hand-off
// is guaranteed to run. A failed initiation marks the purchase failed.
func (s *Service) Start(ctx context.Context, req Request) (Result, error) {
	logger := log.Ctx(ctx).With().Str("layer", "service").Str("component", "checkout").Str("method", "Start").Logger()

	pkg, err := s.catalog.Resolve(req.PackageID, req.CustomCoins)
	if err != nil {
		logger.Info().Err(err).Int("package_id", req.PackageID).Msg("package rejected")
		return Result{}, errors.Join(db.ErrInvalid, err)
	}

	pt := req.Provider
	if pt == "" {
		if pt, err = s.registry.DefaultProvider(); err != nil {
			logger.Error().Err(err).Msg("no default provider")
			return Result{}, err
		}
	}

	rec, err := s.createPending(ctx, pkg.ID, pkg.Credited(), pkg.Price, pt)
	if err != nil {
		return Result{}, err
	}
	logger = logger.With().Str("order_id", rec.ID).Str("provider", string(pt)).Logger()

	params := provider.Params{
		Amount:        pkg.Price,
		Currency:      s.cfg.Currency,
		Description:   fmt.Sprintf("Buy %d coins", pkg.Amount),
		OrderID:       rec.ID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		SuccessURL:    s.returnURL("/payment/success", rec.ID),
		FailureURL:    s.returnURL("/payment/cancel", rec.ID),
		ShopName:      s.cfg.ShopName,
	}

	resp, err := s.payments.Initiate(ctx, params, pt)
	if err != nil {
		logger.Warn().Err(err).Msg("initiation failed")
		if _, uerr := s.store.UpdateStatus(ctx, rec.ID, purchase.StatusFailed, err.Error()); uerr != nil {
			logger.Error().Err(uerr).Msg("could not mark purchase failed")
		}
		return Result{OrderID: rec.ID, Provider: pt, Purchase: rec, Response: resp}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.PaymentInitiated{
			OrderID:   rec.ID,
			Provider:  string(pt),
			GatewayID: resp.GatewayID,
			Price:     pkg.Price,
			Currency:  s.cfg.Currency,
			At:        time.Now().UTC(),
		})
	}
	logger.Info().Msg("customer handed to gateway")
	return Result{OrderID: rec.ID, Provider: pt, Purchase: rec, Response: resp}, nil
}

func (s *Service) createPending(ctx context.Context, packageID int, amount, price int64, pt provider.Type) (purchase.Purchase, error) {
	for attempt := 0; attempt < maxOrderIDAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return purchase.Purchase{}, errors.Join(db.ErrInternal, err)
		}
		rec := purchase.Purchase{
			ID:        id,
			PackageID: packageID,
			Amount:    amount,
			Price:     price,
			Provider:  string(pt),
		}
		sum, err := s.store.Create(ctx, rec)
		if db.IsConflict(err) {
			continue
		}
		if err != nil {
			return purchase.Purchase{}, err
		}
		if len(sum.PurchaseHistory) > 0 && sum.PurchaseHistory[0].ID == id {
			return sum.PurchaseHistory[0], nil
		}
		rec.Status = purchase.StatusPending
		return rec, nil
	}
	return purchase.Purchase{}, errors.Join(db.ErrConflict, ErrOrderIDExhausted)
}

// HandleReturn applies the gateway's return redirect. The order id arrives in
// a URL anyone can forge, so a success redirect is confirmed with the gateway
// whenever it can answer. An unknown order id is ignored.
func (s *Service) HandleReturn(ctx context.Context, orderID string, outcome Outcome, errMsg string) (purchase.Summary, error) {
	logger := log.Ctx(ctx).With().Str("layer", "service").Str("component", "checkout").Str("method", "HandleReturn").Str("order_id", orderID).Str("outcome", string(outcome)).Logger()

	if strings.TrimSpace(orderID) == "" {
		return purchase.Summary{}, errors.Join(db.ErrInvalid, errors.New("orderId is required"))
	}

	rec, err := s.store.Get(ctx, orderID)
	if db.IsNotFound(err) {
		logger.Info().Msg("return for unknown order")
		return s.store.Summary(ctx)
	}
	if err != nil {
		return purchase.Summary{}, err
	}

	if outcome != OutcomeSuccess {
		if errMsg == "" {
			errMsg = defaultFailureMessage
		}
		return s.store.UpdateStatus(ctx, orderID, purchase.StatusFailed, errMsg)
	}

	st, err := s.payments.CheckStatus(ctx, orderID, provider.Type(rec.Provider))
	if err == nil && st.Error == "" {
		switch st.Status {
		case provider.StatusSuccess:
			return s.store.UpdateStatus(ctx, orderID, purchase.StatusSuccess, "")
		case provider.StatusFailed, provider.StatusCancelled:
			logger.Warn().Str("gateway_status", string(st.Status)).Msg("success redirect contradicted by gateway")
			return s.store.UpdateStatus(ctx, orderID, purchase.StatusFailed, fmt.Sprintf("Payment %s according to gateway", st.Status))
		default:
			logger.Info().Msg("gateway still pending")
			return s.store.Summary(ctx)
		}
	}

	reason := st.Error
	if err != nil {
		reason = err.Error()
	}
	if !s.cfg.TrustUnverifiedReturns {
		logger.Warn().Str("reason", reason).Msg("unverifiable success redirect left pending")
		return s.store.Summary(ctx)
	}
	logger.Info().Str("reason", reason).Msg("trusting unverifiable success redirect")
	return s.store.UpdateStatus(ctx, orderID, purchase.StatusSuccess, "")
}

func (s *Service) returnURL(path, orderID string) string {
	return s.cfg.PublicBaseURL + path + "?orderId=" + url.QueryEscape(orderID)
}
