package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nivora-bio/labcart-backend/api/routes"
	"github.com/nivora-bio/labcart-backend/internal/cart"
	"github.com/nivora-bio/labcart-backend/internal/checkout"
	"github.com/nivora-bio/labcart-backend/internal/orders"
	"github.com/nivora-bio/labcart-backend/internal/payments"
	"github.com/nivora-bio/labcart-backend/internal/products"
	"github.com/nivora-bio/labcart-backend/internal/shipping"
	"github.com/nivora-bio/labcart-backend/pkg/config"
	"github.com/nivora-bio/labcart-backend/pkg/db"
	"github.com/nivora-bio/labcart-backend/pkg/logger"
	"github.com/nivora-bio/labcart-backend/pkg/metrics"
	"github.com/nivora-bio/labcart-backend/pkg/migrate"
	"github.com/nivora-bio/labcart-backend/pkg/redis"
	"github.com/nivora-bio/labcart-backend/pkg/square"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "labcart"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "labcart",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	squareClient, err := square.NewClient(context.Background(), cfg.Square, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap square", err)
		os.Exit(1)
	}

	keeper, err := cart.NewSessionKeeper(redisClient, cfg.Cart.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart session keeper", err)
		os.Exit(1)
	}
	carts := cart.NewManager(keeper, logg)

	productService := products.NewService(products.NewRepository(dbClient.DB()), logg)
	orderService := orders.NewService(orders.NewRepository(dbClient.DB()), logg)

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)
	checkoutService := checkout.NewService(
		carts,
		cfg.Pricing,
		payments.NewSquareGateway(squareClient),
		orderService,
		shipping.NewLogCarrier(logg),
		redisClient,
		checkoutMetrics,
		logg,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting labcart api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			carts,
			productService,
			orderService,
			checkoutService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithFields(ctx, map[string]any{"signal": sig.String()}), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
