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

	"github.com/joho/godotenv"

	"cafe-bestellbot/internal/config"
	"cafe-bestellbot/internal/handler"
	"cafe-bestellbot/internal/notify"
	"cafe-bestellbot/internal/service/conversation"
	"cafe-bestellbot/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	policy, err := cfg.Cafe.Policy()
	if err != nil {
		log.Fatalf("failed to build pickup policy: %v", err)
	}

	sessions := store.NewMemoryStore()
	stopSweeper := sessions.StartSweeper(cfg.Session.SweepInterval, cfg.Session.TTL)
	defer stopSweeper()

	var dispatcher notify.Dispatcher
	if cfg.Twilio.Enabled() {
		dispatcher = notify.NewTwilio(cfg.Twilio, policy)
		log.Println("Twilio dispatcher initialized")
	} else {
		dispatcher = notify.NewLog(policy)
		log.Println("Twilio credentials not configured, order notifications will only be logged")
	}

	engine := conversation.New(sessions, policy, dispatcher, conversation.Config{
		CafeName:   cfg.Cafe.Name,
		PayPalLink: cfg.Cafe.PayPalLink,
	})

	router := handler.NewRouter(engine)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("bestellbot listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
