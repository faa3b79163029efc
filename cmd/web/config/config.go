package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/spf13/viper"

	"coinshop/internal/provider"
)

const (
	DriverBolt   = "bolt"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Store struct {
	Driver        string
	BoltPath      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type Config struct {
	Addr        string
	Environment string
	Debug       bool

	PublicBaseURL string
	Currency      string
	ShopName      string

	Store Store

	GatewayTimeout         time.Duration
	CheckoutRatePerMin     int
	CheckoutBurst          int
	AllowTerminalOverwrite bool
	TrustUnverifiedReturns bool
	AuditPath              string
	AllowedOrigins         []string

	// Providers keeps the declared order; the first enabled one is the default.
	Providers []provider.Config
}

// SetDefaults registers the fallback of every key Load reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("environment", "local")
	v.SetDefault("debug", false)
	v.SetDefault("public-base-url", "http://localhost:8080")
	v.SetDefault("currency", provider.DefaultCurrency)
	v.SetDefault("shop-name", "")
	v.SetDefault("store.driver", DriverBolt)
	v.SetDefault("store.bolt-path", "./out/coinshop.db")
	v.SetDefault("store.redis-addr", "localhost:6379")
	v.SetDefault("store.redis-password", "")
	v.SetDefault("store.redis-db", 0)
	v.SetDefault("gateway-timeout", 10*time.Second)
	v.SetDefault("checkout-rate-per-min", 30)
	v.SetDefault("checkout-burst", 5)
	v.SetDefault("allow-terminal-overwrite", false)
	v.SetDefault("trust-unverified-returns", true)
	v.SetDefault("audit-path", "./out/audit.jsonl")
	v.SetDefault("allowed-origins", []string{})
}

// Load reads the process configuration once. API keys given through
// lygospay-api-key and soleaspay-api-key replace the ones in the providers list.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Addr:        v.GetString("addr"),
		Environment: v.GetString("environment"),
		Debug:       v.GetBool("debug"),

		PublicBaseURL: strings.TrimRight(v.GetString("public-base-url"), "/"),
		Currency:      strings.ToUpper(v.GetString("currency")),
		ShopName:      v.GetString("shop-name"),

		Store: Store{
			Driver:        strings.ToLower(v.GetString("store.driver")),
			BoltPath:      v.GetString("store.bolt-path"),
			RedisAddr:     v.GetString("store.redis-addr"),
			RedisPassword: v.GetString("store.redis-password"),
			RedisDB:       v.GetInt("store.redis-db"),
		},

		GatewayTimeout:         v.GetDuration("gateway-timeout"),
		CheckoutRatePerMin:     v.GetInt("checkout-rate-per-min"),
		CheckoutBurst:          v.GetInt("checkout-burst"),
		AllowTerminalOverwrite: v.GetBool("allow-terminal-overwrite"),
		TrustUnverifiedReturns: v.GetBool("trust-unverified-returns"),
		AuditPath:              v.GetString("audit-path"),
		AllowedOrigins:         splitOrigins(v.GetStringSlice("allowed-origins")),
	}

	if v.IsSet("providers") {
		if err := v.UnmarshalKey("providers", &cfg.Providers); err != nil {
			return Config{}, errors.Join(ErrInvalidConfig, fmt.Errorf("providers: %w", err))
		}
	}
	if len(cfg.Providers) == 0 {
		cfg.Providers = provider.DefaultConfigs()
	}
	overrideKey(cfg.Providers, provider.TypeLygosPay, v.GetString("lygospay-api-key"))
	overrideKey(cfg.Providers, provider.TypeSoleasPay, v.GetString("soleaspay-api-key"))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr: is required"))
	}
	if !govalidator.IsURL(c.PublicBaseURL) || !strings.HasPrefix(c.PublicBaseURL, "http") {
		errs = append(errs, fmt.Errorf("public-base-url: %q is not an absolute http url", c.PublicBaseURL))
	}
	if c.Currency != "" && (len(c.Currency) != 3 || !govalidator.IsUpperCase(c.Currency)) {
		errs = append(errs, fmt.Errorf("currency: %q is not a 3-letter code", c.Currency))
	}
	switch c.Store.Driver {
	case DriverBolt:
		if c.Store.BoltPath == "" {
			errs = append(errs, errors.New("store.bolt-path: is required for the bolt driver"))
		}
	case DriverRedis:
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("store.redis-addr: is required for the redis driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver))
	}
	if c.GatewayTimeout < 0 {
		errs = append(errs, errors.New("gateway-timeout: must not be negative"))
	}
	if c.CheckoutRatePerMin < 0 || c.CheckoutBurst < 0 {
		errs = append(errs, errors.New("checkout rate limit: must not be negative"))
	}
	for i, p := range c.Providers {
		if !p.Type.Valid() {
			errs = append(errs, fmt.Errorf("providers[%d]: unknown type %q", i, p.Type))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
}

func overrideKey(list []provider.Config, t provider.Type, key string) {
	if key == "" {
		return
	}
	for i := range list {
		if list[i].Type == t {
			list[i].APIKey = key
		}
	}
}

// splitOrigins accepts both a yaml list and a comma separated env value.
func splitOrigins(in []string) []string {
	var out []string
	for _, s := range in {
		for _, o := range strings.Split(s, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}
