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

	"github.com/sirupsen/logrus"

	"mydiary/cmd/app"
	"mydiary/internal/config"
	handlers "mydiary/internal/handler"
	"mydiary/internal/logger"
	"mydiary/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()
	logger.Init(cfg.Log)

	if cfg.JWTSecretKey == "" {
		logrus.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, _, services := app.App(ctx, cfg)
	defer db.CloseDB()

	router := handlers.NewHandlers(services, cfg).Routes()

	// the last middleware wraps the others and runs first
	handlerChain := middleware.Chain(
		router,
		middleware.AuthMiddleware(services.Token, services.User),
		middleware.AuthRateLimitMiddleware(ctx, cfg.AuthRateLimit),
		middleware.CORSMiddleware(cfg),
		middleware.RecoverMiddleware,
		middleware.LoggingMiddleware,
	)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           handlerChain,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":     addr,
			"database": cfg.DB.DbNAME,
			"storage":  cfg.Storage.Driver,
		}).Info("Сервер запущен")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Останавливаем сервер")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Ошибка остановки сервера")
	}
}
