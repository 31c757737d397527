package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seralva/groupdeals/internal/app"
	"github.com/seralva/groupdeals/internal/clock"
	"github.com/seralva/groupdeals/internal/config"
	"github.com/seralva/groupdeals/internal/notify"
	"github.com/seralva/groupdeals/internal/storage/postgres"
	transporthttp "github.com/seralva/groupdeals/internal/transport/http"
	"github.com/seralva/groupdeals/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := notify.NewDispatcher(notify.NewLogSender(logger), logger, cfg.NotifyBuffer)
	dispatcher.Start(runCtx)
	defer dispatcher.Close()

	clk := clock.NewSystem()
	interestRepo := postgres.NewInterestRepository(pool)
	interestSvc := app.NewInterestService(interestRepo, clk, dispatcher,
		app.WithMaxActiveInterests(cfg.MaxActiveInterests),
		app.WithInterestLogger(logger),
	)
	bookingRepo := postgres.NewBookingRepository(pool)
	bookingSvc := app.NewBookingService(bookingRepo, clk, dispatcher)
	discountRepo := postgres.NewDiscountRepository(pool)
	discountSvc := app.NewDiscountService(discountRepo, clk)

	handler := transporthttp.NewRouter(interestSvc, bookingSvc, discountSvc, cfg.CORSOrigins, logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-runCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
