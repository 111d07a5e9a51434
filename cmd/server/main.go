package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"medmarket/internal/config"
	"medmarket/internal/gateway"
	"medmarket/internal/inventory"
	"medmarket/internal/queue"
	"medmarket/internal/router"
	"medmarket/internal/service"
	"medmarket/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("db open", zap.Error(err))
	}

	var rdb *rd.Client
	if cfg.RedisAddr != "" {
		rdb = rd.NewClient(&rd.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		defer rdb.Close()
	}

	var producer *queue.Producer
	var events service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer = queue.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		events = producer
	}

	var gw gateway.Client
	if cfg.GatewayConfigured() {
		gw = gateway.NewHTTPClient(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewayKeySecret)
	} else {
		logger.Info("gateway credentials missing or placeholder, online payments run in demo mode")
	}

	ledger := inventory.NewLedger()
	payments := service.NewPaymentService(db, ledger, gw, cfg.GatewayKeySecret, logger, events, rdb)
	orders := service.NewOrderService(db, logger, events)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	router.Setup(r, router.Deps{
		DB:       db,
		Payments: payments,
		Orders:   orders,
		RDB:      rdb,
		Cfg:      cfg,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
