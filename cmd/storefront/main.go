package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/hortsatta/dot-games-sub000/internal/bridge"
	"github.com/hortsatta/dot-games-sub000/internal/cache"
	"github.com/hortsatta/dot-games-sub000/internal/catalog"
	"github.com/hortsatta/dot-games-sub000/internal/config"
	"github.com/hortsatta/dot-games-sub000/internal/consumer"
	storegrpc "github.com/hortsatta/dot-games-sub000/internal/grpc"
	h "github.com/hortsatta/dot-games-sub000/internal/http"
	"github.com/hortsatta/dot-games-sub000/internal/notify"
	"github.com/hortsatta/dot-games-sub000/internal/orders"
	"github.com/hortsatta/dot-games-sub000/internal/payment"
	"github.com/hortsatta/dot-games-sub000/internal/publisher"
	"github.com/hortsatta/dot-games-sub000/internal/repository"
	"github.com/hortsatta/dot-games-sub000/internal/service"
	"github.com/hortsatta/dot-games-sub000/pkg/logger"
)

const (
	serviceName    = "storefront"
	reconcileTick  = 30 * time.Second
	readinessCheck = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("storefront stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger.New(logger.Options{
		Service:   serviceName,
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: cfg.AppEnv != "prod",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set up MongoDB connection
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return err
	}
	defer disconnectMongo(mongoDB)

	mongoRepo := repository.NewMongoRepository(mongoDB)
	if err := mongoRepo.CreateIndexes(ctx); err != nil {
		return err
	}
	slog.Info("connected to MongoDB", "db", cfg.MongoDBName)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	slog.Info("redis ping succeeded", "addr", cfg.RedisAddr)

	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		return err
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(cfg.CatalogMigrationsPath); err != nil {
		return err
	}

	creds := &orders.Credentials{
		Host:              cfg.DB.Host,
		Port:              cfg.DB.Port,
		User:              cfg.DB.User,
		Password:          cfg.DB.Password,
		DBName:            cfg.DB.Name,
		MigrationsDirPath: cfg.DB.MigrationsPath,
	}
	orderRepo, err := orders.NewRepository(creds)
	if err != nil {
		return err
	}
	defer orderRepo.Close()
	if err := orderRepo.RunMigrations(creds); err != nil {
		return err
	}

	carts := bridge.New(
		bridge.NewRemotePersistence(mongoRepo, cache.NewRedisCache(redisClient)),
		bridge.NewLocalOnlyPersistence(cache.NewGuestCartStore(redisClient, cfg.GuestCartTTL)),
	)
	pending := cache.NewRedisCompletionQueue(redisClient)
	snapshots := cache.NewRedisSnapshotStore(redisClient, cfg.CheckoutSnapshotTTL)

	cartService := service.NewCartService(carts, catalogRepo)
	wishListService := service.NewWishListService(bridge.NewRemoteWishLists(mongoRepo))
	checkoutService := service.NewCheckoutService(
		carts,
		catalogRepo,
		paymentGateway(cfg),
		orderRepo,
		snapshots,
		pending,
		service.CheckoutConfig{ShippingFee: cfg.ShippingFee, Currency: cfg.Currency},
	)
	reconciler := service.NewReconciler(orderRepo, pending, carts, snapshots, reconcileTick)

	poller := publisher.NewOutboxPoller(orderRepo, cfg.OrderEventsTopic, cfg.KafkaBrokers...)
	defer poller.Close()
	orderEvents := consumer.NewOrderEventsConsumer(cartService, notify.New(cfg.SMTP), cfg.OrderEventsTopic, cfg.KafkaBrokers...)
	defer orderEvents.Close()

	ready := func(ctx context.Context) error {
		if err := mongoDB.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("mongo: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		if err := orderRepo.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		return nil
	}

	router := h.NewRouter(h.Dependencies{
		Catalog:   catalogRepo,
		Carts:     cartService,
		WishLists: wishListService,
		Checkout:  checkoutService,
		Ready:     ready,
	}, h.RouterConfig{
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		SecureCookies:      cfg.AppEnv == "prod",
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen on grpc port: %w", err)
	}
	grpcServer := storegrpc.NewServer()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		slog.Info("grpc health server starting", "port", cfg.GRPCPort)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		poller.Run(gctx)
		return nil
	})
	g.Go(func() error {
		orderEvents.Run(gctx)
		return nil
	})
	g.Go(func() error {
		reconciler.Run(gctx)
		return nil
	})
	g.Go(func() error {
		grpcServer.MonitorReadiness(gctx, readinessCheck, ready)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down storefront")

		grpcServer.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	grpcServer.SetServing()

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("storefront exited")
	return nil
}

func paymentGateway(cfg *config.Config) payment.Gateway {
	if cfg.PaymentAPIURL == "" {
		slog.Warn("PAYMENT_API_URL not set, using the in-memory payment sandbox")
		return payment.NewSandbox()
	}
	return payment.NewHTTPGateway(cfg.PaymentAPIURL, cfg.PaymentAPIKey, 10*time.Second)
}

func disconnectMongo(db *mongo.Database) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Client().Disconnect(ctx); err != nil {
		slog.Error("failed to disconnect from MongoDB", "error", err)
	}
}
