package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	rd "github.com/redis/go-redis/v9"

	"medmarket/internal/config"
	"medmarket/internal/queue"
	rediskey "medmarket/pkg/redis"
)

// The tracker is the read side of fulfillment tracking: it tails order
// events from Kafka and keeps the latest status per order in Redis so
// polling clients never hit the transactional store.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS must be set for the tracker")
	}
	if cfg.RedisAddr == "" {
		log.Fatal("REDIS_ADDR must be set for the tracker")
	}

	rdb := rd.NewClient(&rd.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer rdb.Close()

	cons := queue.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
	defer cons.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("shutting down tracker")
		cancel()
	}()

	log.Printf("tracker started: topic=%s group=%s", cfg.KafkaTopic, cfg.KafkaGroupID)
	cons.Run(ctx, func(ctx context.Context, ev queue.OrderEvent) error {
		return rediskey.PutOrderStatus(ctx, rdb, ev.OrderNo, ev.Status)
	})
}
