package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shelfsync/internal/cart"
	"shelfsync/internal/catalog"
	"shelfsync/internal/config"
	"shelfsync/internal/db"
	"shelfsync/internal/events"
	"shelfsync/internal/httpserver"
	"shelfsync/internal/likes"
	"shelfsync/internal/logging"
	"shelfsync/internal/orders"
	accountrepo "shelfsync/internal/repository/account"
	listingrepo "shelfsync/internal/repository/listing"
	tokenrepo "shelfsync/internal/repository/token"
	authsvc "shelfsync/internal/service/auth"
	devicesvc "shelfsync/internal/service/device"
	listingsvc "shelfsync/internal/service/listing"
	"shelfsync/internal/storage"
)

const tokenSweepInterval = time.Hour

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, "api")
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer pool.Close()

	devices, err := storage.OpenSQLite(cfg.DeviceDBPath)
	if err != nil {
		return fmt.Errorf("open device store: %w", err)
	}
	defer devices.Close()

	bus := events.NewBus()
	carts := cart.NewManager(devices, bus, logger.Named("cart"))
	ledger := orders.NewLedger(devices, carts, bus, logger.Named("orders"))

	accounts := accountrepo.NewPostgres(pool, logger)
	listings := listingrepo.NewPostgres(pool, logger)
	auth := authsvc.New(accounts, tokenrepo.NewPostgres(pool, logger), logger)

	engine := catalog.NewEngine(
		catalog.NewStaticSource(cfg.CatalogSource),
		catalog.NewSellerSource(listings),
		logger,
	)

	srv, err := httpserver.New(cfg.HTTPAddr, httpserver.Deps{
		Catalog:  engine,
		Carts:    carts,
		Orders:   ledger,
		Likes:    likes.New(devices, logger),
		Bus:      bus,
		Devices:  devicesvc.New(),
		Auth:     auth,
		Listings: listingsvc.New(listings, accounts, logger),
		Ready: func(ctx context.Context) error {
			if err := pool.Ping(ctx); err != nil {
				return err
			}
			return devices.Ping(ctx)
		},
		Logger:         logger.Named("http"),
		PageSize:       cfg.PageSize,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		engine.Load(gctx)
		return nil
	})
	g.Go(func() error {
		sweepTokens(gctx, auth, logger)
		return nil
	})
	g.Go(func() error {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			return err
		}
		logger.Info("server stopped")
		return nil
	})
	return g.Wait()
}

func sweepTokens(ctx context.Context, auth *authsvc.Service, logger *zap.Logger) {
	ticker := time.NewTicker(tokenSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := auth.SweepExpired(ctx)
			if err != nil {
				logger.Warn("sweep expired tokens", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("expired tokens removed", zap.Int64("count", n))
			}
		}
	}
}
