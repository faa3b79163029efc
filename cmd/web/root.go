package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"coinshop/cmd/web/config"
)

var rootCmd = &cobra.Command{
	Use:          "coinshop",
	Short:        "coinshop sells coin packages through LygosPay and SoleasPay",
	SilenceUsage: true,
	RunE:         serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the storefront http service",
	RunE:  serve,
}

// Must panics on a flag binding error, which only happens on a typo.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

func init() {
	config.SetDefaults(viper.GetViper())
	flags := rootCmd.PersistentFlags()

	// config - optional yaml file, the only place the providers list can be set
	flags.String("config", "", "path to a yaml config file")
	Must(viper.BindPFlag("config", flags.Lookup("config")))
	Must(viper.BindEnv("config", "CONFIG"))

	flags.String("addr", ":8080", "address the http server listens on")
	Must(viper.BindPFlag("addr", flags.Lookup("addr")))
	Must(viper.BindEnv("addr", "ADDR"))

	// env - defaults to local
	flags.String("environment", "local", "the default environment")
	Must(viper.BindPFlag("environment", flags.Lookup("environment")))
	Must(viper.BindEnv("environment", "ENV"))

	flags.Bool("debug", false, "turn on debug logging")
	Must(viper.BindPFlag("debug", flags.Lookup("debug")))
	Must(viper.BindEnv("debug", "DEBUG"))

	flags.String("public-base-url", "http://localhost:8080", "public url the gateways send customers back to")
	Must(viper.BindPFlag("public-base-url", flags.Lookup("public-base-url")))
	Must(viper.BindEnv("public-base-url", "PUBLIC_BASE_URL"))

	flags.String("currency", "XAF", "currency code charged for every package")
	Must(viper.BindPFlag("currency", flags.Lookup("currency")))
	Must(viper.BindEnv("currency", "CURRENCY"))

	flags.String("shop-name", "", "shop name shown on the gateway checkout page")
	Must(viper.BindPFlag("shop-name", flags.Lookup("shop-name")))
	Must(viper.BindEnv("shop-name", "SHOP_NAME"))

	flags.String("store-driver", config.DriverBolt, "purchase store backend: bolt, redis or memory")
	Must(viper.BindPFlag("store.driver", flags.Lookup("store-driver")))
	Must(viper.BindEnv("store.driver", "STORE_DRIVER"))

	flags.String("bolt-path", "./out/coinshop.db", "bolt database file")
	Must(viper.BindPFlag("store.bolt-path", flags.Lookup("bolt-path")))
	Must(viper.BindEnv("store.bolt-path", "BOLT_PATH"))

	flags.String("redis-addr", "localhost:6379", "redis address")
	Must(viper.BindPFlag("store.redis-addr", flags.Lookup("redis-addr")))
	Must(viper.BindEnv("store.redis-addr", "REDIS_ADDR"))

	// redis password is env only
	Must(viper.BindEnv("store.redis-password", "REDIS_PASSWORD"))

	flags.Int("redis-db", 0, "redis database number")
	Must(viper.BindPFlag("store.redis-db", flags.Lookup("redis-db")))
	Must(viper.BindEnv("store.redis-db", "REDIS_DB"))

	flags.Duration("gateway-timeout", 10*time.Second, "timeout of a single gateway api call")
	Must(viper.BindPFlag("gateway-timeout", flags.Lookup("gateway-timeout")))
	Must(viper.BindEnv("gateway-timeout", "GATEWAY_TIMEOUT"))

	flags.Int("checkout-rate-per-min", 30, "checkout requests allowed per client per minute, 0 disables")
	Must(viper.BindPFlag("checkout-rate-per-min", flags.Lookup("checkout-rate-per-min")))
	Must(viper.BindEnv("checkout-rate-per-min", "CHECKOUT_RATE_PER_MIN"))

	flags.Int("checkout-burst", 5, "checkout burst allowed above the rate")
	Must(viper.BindPFlag("checkout-burst", flags.Lookup("checkout-burst")))
	Must(viper.BindEnv("checkout-burst", "CHECKOUT_BURST"))

	flags.Bool("allow-terminal-overwrite", false, "let a return redirect change a settled purchase")
	Must(viper.BindPFlag("allow-terminal-overwrite", flags.Lookup("allow-terminal-overwrite")))
	Must(viper.BindEnv("allow-terminal-overwrite", "ALLOW_TERMINAL_OVERWRITE"))

	flags.Bool("trust-unverified-returns", true, "credit a success redirect the gateway cannot confirm")
	Must(viper.BindPFlag("trust-unverified-returns", flags.Lookup("trust-unverified-returns")))
	Must(viper.BindEnv("trust-unverified-returns", "TRUST_UNVERIFIED_RETURNS"))

	flags.String("audit-path", "./out/audit.jsonl", "audit trail file, empty to only log")
	Must(viper.BindPFlag("audit-path", flags.Lookup("audit-path")))
	Must(viper.BindEnv("audit-path", "AUDIT_PATH"))

	flags.StringSlice("allowed-origins", nil, "cors origins allowed to call the api")
	Must(viper.BindPFlag("allowed-origins", flags.Lookup("allowed-origins")))
	Must(viper.BindEnv("allowed-origins", "ALLOWED_ORIGINS"))

	// api keys are env only so they never show up in a process listing
	Must(viper.BindEnv("lygospay-api-key", "LYGOSPAY_API_KEY"))
	Must(viper.BindEnv("soleaspay-api-key", "SOLEASPAY_API_KEY"))

	rootCmd.AddCommand(serveCmd)
}
