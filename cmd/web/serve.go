package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"coinshop/cmd/web/config"
	"coinshop/cmd/web/handlers"
	"coinshop/cmd/web/subscribers"
	"coinshop/cmd/web/validator"
	"coinshop/internal/audit"
	"coinshop/internal/catalog"
	"coinshop/internal/checkout"
	"coinshop/internal/health"
	"coinshop/internal/payment"
	"coinshop/internal/provider"
	"coinshop/internal/purchase"
	"coinshop/kit/broker"
	"coinshop/kit/db"
	"coinshop/kit/observability"
)

const redisPrefix = "coinshop:"

func serve(cmd *cobra.Command, args []string) error {
	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger := observability.NewLoggerWithConfig(os.Stdout, cfg.Environment, cfg.Debug)
	zerolog.DefaultContextLogger = logger.Zerolog()
	ctx, stop := signal.NotifyContext(logger.WithContext(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	kv, locker, err := openStore(ctx, cfg.Store)
	if err != nil {
		logger.Error("store init error", "driver", cfg.Store.Driver, "error", err.Error())
		return err
	}
	defer func() { _ = kv.Close() }()

	auditSvc := audit.NewService()
	if cfg.AuditPath != "" {
		if auditSvc, err = audit.NewServiceWithFile(cfg.AuditPath); err != nil {
			logger.Error("audit init error", "error", err.Error())
			return err
		}
	}
	defer func() { _ = auditSvc.Close() }()

	bus := broker.New()
	subscribers.Register(bus, subscribers.NewAuditEvent(auditSvc), subscribers.NewMetricsEvent(metrics))

	store := purchase.NewStore(kv,
		purchase.WithPublisher(bus),
		purchase.WithLocker(locker),
		purchase.AllowTerminalOverwrite(cfg.AllowTerminalOverwrite),
	)

	registry, err := provider.NewRegistry(cfg.Providers,
		provider.WithRecorder(metrics),
		provider.WithGatewayTimeout(cfg.GatewayTimeout),
	)
	if err != nil {
		logger.Error("provider registry error", "error", err.Error())
		return err
	}
	def, err := registry.DefaultProvider()
	if err != nil {
		logger.Error("no payment provider enabled", "error", err.Error())
		return err
	}
	for _, t := range registry.EnabledProviders() {
		if c, _ := registry.Config(t); c.APIKey == "" {
			logger.Warn("enabled provider has no api key", "provider", string(t))
		}
	}

	payments := payment.NewService(registry)
	cat := catalog.Default()
	checkoutSvc := checkout.NewService(payments, store, cat, registry, checkout.Config{
		PublicBaseURL:          cfg.PublicBaseURL,
		Currency:               cfg.Currency,
		ShopName:               cfg.ShopName,
		TrustUnverifiedReturns: cfg.TrustUnverifiedReturns,
	}, checkout.WithPublisher(bus))

	healthSvc := health.NewService(2*time.Second,
		health.StoreCheck(kv),
		health.ProviderCheck(func() error {
			_, err := registry.DefaultProvider()
			return err
		}),
		health.GatewayCheck(func() map[string]string {
			out := map[string]string{}
			for t, st := range registry.GatewayStates() {
				out[string(t)] = st
			}
			return out
		}),
	)

	router, err := handlers.NewRouter(logger.Zerolog(), handlers.RouterConfig{
		RequestTimeout:     cfg.GatewayTimeout + 5*time.Second,
		AllowedOrigins:     cfg.AllowedOrigins,
		CheckoutRatePerMin: cfg.CheckoutRatePerMin,
		CheckoutBurst:      cfg.CheckoutBurst,
		SecureCookies:      strings.HasPrefix(cfg.PublicBaseURL, "https://"),
	}, handlers.Router{
		Checkout:  handlers.NewCheckout(validator.NewJSON(), checkoutSvc, payments, store),
		Purchases: handlers.NewPurchases(store),
		Catalog:   handlers.NewCatalog(cat, registry),
		Health:    handlers.NewHealth(healthSvc),
		Gatherer:  reg,
	})
	if err != nil {
		logger.Error("router init error", "error", err.Error())
		return err
	}

	srv := newHTTPServer(ctx, cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web server started", "addr", srv.Addr, "store", cfg.Store.Driver, "default_provider", string(def))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("web server error", "error", err.Error())
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("web server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// newHTTPServer gives requests ctx's values but not its cancellation; in-flight
// requests end through Shutdown.
func newHTTPServer(ctx context.Context, addr string, h http.Handler) *http.Server {
	base := context.WithoutCancel(ctx)
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 2 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
}

func openStore(ctx context.Context, cfg config.Store) (db.KV, db.Locker, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		client := db.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		kv := db.NewRedisKV(client, redisPrefix)
		if err := kv.Ping(ctx); err != nil {
			_ = kv.Close()
			return nil, nil, err
		}
		return kv, db.NewRedisLocker(client, redisPrefix, db.DefaultLockTTL), nil
	case config.DriverMemory:
		return db.NewMemoryKV(), db.NewLocalLocker(), nil
	default:
		kv, err := db.NewBoltKV(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return kv, db.NewLocalLocker(), nil
	}
}
