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
	"github.com/sirupsen/logrus"

	"github.com/nadhirah/mindcare/backend/internal/auth"
	"github.com/nadhirah/mindcare/backend/internal/config"
	"github.com/nadhirah/mindcare/backend/internal/handler"
	"github.com/nadhirah/mindcare/backend/internal/knowledge"
	aiService "github.com/nadhirah/mindcare/backend/internal/service/ai"
	analyticsService "github.com/nadhirah/mindcare/backend/internal/service/analytics"
	bookingService "github.com/nadhirah/mindcare/backend/internal/service/booking"
	chatService "github.com/nadhirah/mindcare/backend/internal/service/chat"
	checkinService "github.com/nadhirah/mindcare/backend/internal/service/checkin"
	"github.com/nadhirah/mindcare/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Warn("no .env file loaded, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize store")
	}

	base := knowledge.Load(cfg.Content.KnowledgePath, cfg.Content.StylePath)
	gen := aiService.NewGenerator(cfg.AI)
	logrus.WithFields(logrus.Fields{
		"backend": gen.Name(),
		"model":   gen.Model(),
	}).Info("AI backend ready")

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	router := handler.NewRouter(handler.Deps{
		Store:     st,
		Tokens:    tokens,
		AI:        aiService.NewService(gen, base, cfg.AI.HistoryWindow),
		Ledger:    chatService.NewService(st),
		Checkins:  checkinService.NewService(st),
		Bookings:  bookingService.NewService(st),
		Analytics: analyticsService.NewService(st),
		CORS:      cfg.CORS,
	})

	startServer(ctx, cfg.Server, router)
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	if cfg.URL != "" {
		logrus.Info("using postgres store")
		return store.NewGorm(cfg.URL)
	}

	logrus.Info("DATABASE_URL not set, using in-memory store")
	mem := store.NewMemory()
	if err := store.Seed(ctx, mem); err != nil {
		return nil, err
	}
	return mem, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logrus.WithField("addr", serverCfg.Addr).Info("MindCare+ backend listening")
	if err := runServer(ctx, srv); err != nil {
		logrus.WithError(err).Fatal("server error")
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
