package provider

import (
	"fmt"
	"net/http"
	"time"

	gateway "coinshop/kit/external_payment_gateway"
)

// DefaultConfigs is the declared provider order used when none is configured.
func DefaultConfigs() []Config {
	return []Config{
		{Type: TypeLygosPay, Enabled: true},
		{Type: TypeSoleasPay, Enabled: true},
	}
}

type Option func(*Registry)

func WithHTTPClient(hc *http.Client) Option {
	return func(r *Registry) { r.httpClient = hc }
}

func WithRecorder(rec gateway.Recorder) Option {
	return func(r *Registry) { r.recorder = rec }
}

func WithGatewayTimeout(d time.Duration) Option {
	return func(r *Registry) { r.timeout = d }
}

// Registry holds the provider configuration loaded at startup. Declared
// order decides the default provider and listing order.
type Registry struct {
	configs []Config
	byType  map[Type]Config

	httpClient *http.Client
	recorder   gateway.Recorder
	timeout    time.Duration

	// REST clients are shared by every adapter instance so their circuit
	// breakers see all traffic.
	clients map[Type]*gateway.Client
}

func NewRegistry(configs []Config, opts ...Option) (*Registry, error) {
	r := &Registry{
		byType:  make(map[Type]Config, len(configs)),
		clients: make(map[Type]*gateway.Client),
	}
	for _, o := range opts {
		o(r)
	}

	for _, cfg := range configs {
		if !cfg.Type.Valid() {
			return nil, newError(ErrUnknownProvider, fmt.Sprintf("Unknown payment provider type: %s", cfg.Type), nil)
		}
		if _, dup := r.byType[cfg.Type]; dup {
			return nil, newError(ErrValidation, fmt.Sprintf("Payment provider %s is declared twice", cfg.Type), nil)
		}
		r.byType[cfg.Type] = cfg
		r.configs = append(r.configs, cfg)

		if cfg.Type == TypeLygosPay {
			c, err := r.newLygosClient(cfg)
			if err != nil {
				return nil, err
			}
			r.clients[cfg.Type] = c
		}
	}
	return r, nil
}

func (r *Registry) newLygosClient(cfg Config) (*gateway.Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = LygosPayBaseURL
	}
	var opts []gateway.Option
	if r.httpClient != nil {
		opts = append(opts, gateway.WithHTTPClient(r.httpClient))
	}
	if r.recorder != nil {
		opts = append(opts, gateway.WithRecorder(r.recorder))
	}
	c, err := gateway.New(gateway.Config{
		Name:    string(cfg.Type),
		BaseURL: base,
		Headers: map[string]string{"api-key": cfg.APIKey},
		Timeout: r.timeout,
	}, opts...)
	if err != nil {
		return nil, newError(ErrValidation, fmt.Sprintf("Payment provider %s has an invalid base url", cfg.Type), err)
	}
	return c, nil
}

func (r *Registry) DefaultProvider() (Type, error) {
	for _, cfg := range r.configs {
		if cfg.Enabled {
			return cfg.Type, nil
		}
	}
	return "", newError(ErrNoProviderEnabled, "No payment provider is enabled", nil)
}

func (r *Registry) EnabledProviders() []Type {
	out := make([]Type, 0, len(r.configs))
	for _, cfg := range r.configs {
		if cfg.Enabled {
			out = append(out, cfg.Type)
		}
	}
	return out
}

func (r *Registry) IsEnabled(t Type) bool {
	return r.byType[t].Enabled
}

func (r *Registry) Config(t Type) (Config, bool) {
	cfg, ok := r.byType[t]
	return cfg, ok
}

// CreateProvider never falls back to another provider.
func (r *Registry) CreateProvider(t Type) (Provider, error) {
	cfg, ok := r.byType[t]
	if !ok {
		if !t.Valid() {
			return nil, newError(ErrUnknownProvider, fmt.Sprintf("Unknown payment provider type: %s", t), nil)
		}
		return nil, newError(ErrNotConfigured, fmt.Sprintf("Payment provider %s is not configured", t), nil)
	}
	if !cfg.Enabled {
		return nil, newError(ErrProviderDisabled, fmt.Sprintf("Payment provider %s is not enabled", t), nil)
	}

	switch t {
	case TypeSoleasPay:
		return NewSoleasPay(cfg.APIKey, cfg.BaseURL), nil
	case TypeLygosPay:
		return NewLygosPay(cfg.APIKey, r.clients[t]), nil
	default:
		return nil, newError(ErrUnknownProvider, fmt.Sprintf("Unknown payment provider type: %s", t), nil)
	}
}

// AvailableProviders lists enabled providers holding a credential, in
// declared order.
func (r *Registry) AvailableProviders() []Provider {
	var out []Provider
	for _, cfg := range r.configs {
		p, err := r.CreateProvider(cfg.Type)
		if err != nil || !p.IsConfigured() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// GatewayStates reports the circuit breaker state of each REST-backed
// provider.
func (r *Registry) GatewayStates() map[Type]string {
	out := make(map[Type]string, len(r.clients))
	for t, c := range r.clients {
		out[t] = c.State().String()
	}
	return out
}
