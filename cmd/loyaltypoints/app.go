package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nkiryanov/loyaltypoints/internal/db"
	"github.com/nkiryanov/loyaltypoints/internal/handlers"
	"github.com/nkiryanov/loyaltypoints/internal/logger"
	"github.com/nkiryanov/loyaltypoints/internal/repository/postgres"
	"github.com/nkiryanov/loyaltypoints/internal/service/ledger"
	"github.com/nkiryanov/loyaltypoints/internal/service/points"
	"github.com/nkiryanov/loyaltypoints/internal/service/signature"
	"github.com/nkiryanov/loyaltypoints/internal/service/wallet"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
	Logger     logger.Logger
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	if c.WebhookSecret == "" {
		return nil, errors.New("webhook secret is required, set WEBHOOK_SECRET")
	}

	rate, err := c.Rate()
	if err != nil {
		return nil, fmt.Errorf("points rate is not a valid decimal: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	verifier := signature.NewVerifier(c.WebhookSecret)
	calc := points.NewCalculator(rate)
	ledgerService := ledger.NewService(storage)
	walletService := wallet.NewService(storage)

	mux := handlers.NewRouter(
		verifier,
		calc,
		ledgerService,
		walletService,
		log,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		Logger:     log,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,

		// Webhook senders time out quickly and redeliver, no point serving longer
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.Logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.Logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.Logger.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
