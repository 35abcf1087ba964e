package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fjod/go_storefront/internal/config"
	"github.com/fjod/go_storefront/internal/provider"
	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/fjod/go_storefront/pkg/paymentpb"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

// The fake hosted payment provider: a gRPC API for the storefront and the
// hosted pay/cancel endpoints the shopper is redirected to.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("payment-provider", "info", false)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New("payment-provider", cfg.LogLevel, cfg.LogConsole)

	server := provider.NewServer(cfg.ProviderPayBase, log)
	pages := provider.NewHostedPages(server, provider.PolicyFor(cfg.ProviderOutcome))

	lis, err := net.Listen("tcp", ":"+cfg.ProviderGRPCPort)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen")
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	paymentpb.RegisterPaymentProviderServer(grpcServer, server)

	// Enable reflection for grpcurl
	reflection.Register(grpcServer)

	go func() {
		log.Info().Str("port", cfg.ProviderGRPCPort).Msg("payment provider gRPC listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.ProviderHTTPPort,
		Handler: otelhttp.NewHandler(pages.Routes(), "payment-provider"),
	}
	go func() {
		log.Info().
			Str("port", cfg.ProviderHTTPPort).
			Str("pay_base", cfg.ProviderPayBase).
			Str("outcome", cfg.ProviderOutcome).
			Msg("hosted pages listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("hosted pages failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down payment provider...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("hosted pages forced to shutdown")
	}
	grpcServer.GracefulStop()
	log.Info().Msg("payment provider stopped")
}
