// Package main boots the inventory reservation HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/inventory-reservation-service/internal/auth"
	"github.com/fairyhunter13/inventory-reservation-service/internal/config"
	httpapi "github.com/fairyhunter13/inventory-reservation-service/internal/http"
	"github.com/fairyhunter13/inventory-reservation-service/internal/obs"
	"github.com/fairyhunter13/inventory-reservation-service/internal/reservation"
	"github.com/fairyhunter13/inventory-reservation-service/internal/session"
	"github.com/fairyhunter13/inventory-reservation-service/internal/store"
)

func main() {
	cfg := config.Load()
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting")

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		obs.Logger.Error("store_open_error", "error", err, "db_path", cfg.DBPath)
		os.Exit(1)
	}

	authSvc := auth.New(st, cfg.BcryptCost)
	sessions := session.New(cfg.SessionTTL)
	reserver := reservation.New(st, cfg.ReserveRetryMax)

	app := httpapi.NewApp(cfg, authSvc, sessions, st, reserver)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}
