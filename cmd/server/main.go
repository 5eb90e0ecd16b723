package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/fxrhxn/risk-var/internal/api"
	"github.com/fxrhxn/risk-var/internal/config"
	"github.com/fxrhxn/risk-var/internal/kafka"
	"github.com/fxrhxn/risk-var/internal/marketdata"
	"github.com/fxrhxn/risk-var/internal/risk"
)

func main() {
	log := logrus.New()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("error loading .env file")
	}

	cfg := config.Load()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	engine := risk.NewEngine(risk.NewGaussianSampler(0))
	provider := marketdata.NewProvider(log,
		marketdata.NewYahooSource(cfg.MarketData.YahooBaseURL, cfg.MarketData.RequestTimeout),
		marketdata.NewAlphaVantageSource(cfg.MarketData.AlphaVantageBaseURL, cfg.MarketData.AlphaVantageKey, cfg.MarketData.RequestTimeout),
	)

	var producer *kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
	}

	handler := api.NewHandler(engine, provider, producer, log)
	router := api.SetupRoutes(handler)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("starting risk-var server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
