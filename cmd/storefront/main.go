package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/cart/poller"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/config"
	apphttp "github.com/fjod/go_storefront/internal/http"
	"github.com/fjod/go_storefront/internal/identity"
	"github.com/fjod/go_storefront/internal/orders"
	"github.com/fjod/go_storefront/internal/orders/publisher"
	"github.com/fjod/go_storefront/internal/payment"
	"github.com/fjod/go_storefront/pkg/circuitbreaker"
	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/fjod/go_storefront/pkg/metrics"
	"github.com/fjod/go_storefront/pkg/paymentpb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("storefront", "info", false)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New("storefront", cfg.LogLevel, cfg.LogConsole)
	log.Info().Msg("storefront starting...")

	ctx, cancel := context.WithCancel(logger.WithContext(context.Background(), log))
	defer cancel()
	var wg sync.WaitGroup

	persister, closeCart, err := openCartPersister(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.CartBackend).Msg("failed to open cart storage")
	}
	defer closeCart()

	store, err := cart.NewStore(ctx, persister, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load cart")
	}

	products, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open catalog")
	}
	defer products.Close()
	if err := products.RunMigrations(cfg.CatalogMigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run catalog migrations")
	}

	repo, err := openOrders(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.OrdersBackend).Msg("failed to open orders storage")
	}
	defer repo.Close()

	providerConn, err := grpc.NewClient(
		cfg.ProviderAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to payment provider")
	}
	defer providerConn.Close()

	breaker := circuitbreaker.DefaultConfig()
	breaker.ConsecutiveFailures = cfg.ProviderBreakerFailures
	breaker.OpenTimeout = cfg.ProviderBreakerOpenDelay
	provider := payment.NewClient(paymentpb.NewPaymentProviderClient(providerConn), cfg.ProviderTimeout, breaker, log)
	log.Info().Str("addr", cfg.ProviderAddr).Msg("payment provider client ready")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg, "storefront")

	reconciler := orders.NewReconciler(provider, repo, store, m)
	initiator := checkout.NewInitiator(identity.FromContext, store, products, provider, orders.NewLedger(repo), m)
	queries := orders.NewQueries(identity.FromContext, repo)

	var (
		outbox     *publisher.OutboxPoller
		cartEvents *poller.Poller
	)
	if len(cfg.KafkaBrokers) > 0 {
		outbox = publisher.NewOutboxPoller(repo, log, cfg.OrdersTopic, cfg.KafkaBrokers...)
		cartEvents = poller.NewPoller(store, log, cfg.OrdersTopic, "storefront-cart-"+cfg.CartStorageName, cfg.KafkaBrokers...)
		wg.Add(2)
		go func() {
			defer wg.Done()
			outbox.Run(ctx)
		}()
		go func() {
			defer wg.Done()
			cartEvents.Run(ctx)
		}()
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.OrdersTopic).Msg("order events enabled")
	} else {
		log.Warn().Msg("KAFKA_BROKERS not set, carts are cleared only on return from the provider")
	}

	router := apphttp.NewRouter(apphttp.Handlers{
		Cart:     apphttp.NewCartHandler(store, products, cfg.RequestTimeout),
		Checkout: apphttp.NewCheckoutHandler(initiator, reconciler, cfg.PublicBaseURL, cfg.RequestTimeout),
		Orders:   apphttp.NewOrdersHandler(queries, reconciler, cfg.RequestTimeout),
		Products: apphttp.NewProductHandler(products, cfg.RequestTimeout),
		Health:   apphttp.NewHealthHandler(provider, cfg.ProviderTimeout),
		Metrics:  metrics.Handler(reg),
	}, log, m, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: otelhttp.NewHandler(router, "storefront"),
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("storefront listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down storefront...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Info().Msg("background workers stopped cleanly")
	case <-shutdownCtx.Done():
		log.Warn().Msg("background workers didn't stop in time")
	}

	if outbox != nil {
		outbox.Close()
		cartEvents.Close()
	}
	log.Info().Msg("storefront stopped")
}
