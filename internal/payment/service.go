package payment

import (
	"context"

	"github.com/rs/zerolog/log"

	"coinshop/internal/provider"
)

// legacyShopName is the shop name the dedicated SoleasPay entry point always
// sent.
const legacyShopName = "PayOol™"

type Service struct {
	registry RegistryContract
}

func NewService(registry RegistryContract) *Service {
	return &Service{registry: registry}
}

// Initiate uses the default provider when t is empty. Any failure, whether a
// resolution error, an adapter error or an unsuccessful response, comes back
// as *Error.
func (s *Service) Initiate(ctx context.Context, params provider.Params, t provider.Type) (provider.Response, error) {
	logger := log.Ctx(ctx).With().Str("layer", "service").Str("component", "payment").Str("method", "Initiate").Str("order_id", params.OrderID).Logger()

	p, err := s.resolve(t)
	if err != nil {
		logger.Warn().Err(err).Str("provider", string(t)).Msg("provider resolution failed")
		return provider.Response{Success: false, Error: err.Error()}, &Error{Provider: t, Message: err.Error(), Cause: err}
	}

	resp, err := p.InitiatePayment(ctx, params)
	if err == nil && resp.Success {
		logger.Info().Str("provider", string(p.Type())).Str("gateway_id", resp.GatewayID).Msg("payment initiated")
		return resp, nil
	}

	msg := resp.Error
	if msg == "" && err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = defaultInitiationError
	}
	logger.Warn().Err(err).Str("provider", string(p.Type())).Str("reason", msg).Msg("payment initiation failed")

	resp.Success = false
	resp.Error = msg
	return resp, &Error{Provider: p.Type(), Message: msg, Cause: err}
}

// CheckStatus only fails when the provider cannot be resolved; adapter
// answers are passed through unchanged.
func (s *Service) CheckStatus(ctx context.Context, orderID string, t provider.Type) (provider.StatusResponse, error) {
	p, err := s.resolve(t)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("layer", "service").Str("component", "payment").Str("method", "CheckStatus").Str("order_id", orderID).Msg("provider resolution failed")
		return provider.StatusResponse{}, err
	}
	return p.CheckPaymentStatus(ctx, orderID), nil
}

func (s *Service) InitiateSoleasPay(ctx context.Context, params provider.Params) (provider.Response, error) {
	params.ShopName = legacyShopName
	return s.Initiate(ctx, params, provider.TypeSoleasPay)
}

func (s *Service) resolve(t provider.Type) (provider.Provider, error) {
	if t == "" {
		def, err := s.registry.DefaultProvider()
		if err != nil {
			return nil, err
		}
		t = def
	}
	return s.registry.CreateProvider(t)
}
