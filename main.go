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

	"rfmseg/api"
	"rfmseg/internal/config"
	"rfmseg/internal/rfm"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("error loading config: %v", err))
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("error building logger: %v", err))
	}
	defer logger.Sync()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	resultsURL, _ := cfg.ResultsURL()
	runService := rfm.NewService(rfm.NewLocalStorage(), logger, rfm.Options{
		ResultsDir:  cfg.ResultsDir,
		ResultsURL:  resultsURL,
		MaxClusters: cfg.MaxClusters,
		Seed:        cfg.Seed,
	})

	r := gin.New()
	api.InitRoutes(r, runService, logger, cfg)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr), zap.String("results_dir", cfg.ResultsDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("error trying to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
