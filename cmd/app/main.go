package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avoronkov/aeroreserve/config"
	"github.com/avoronkov/aeroreserve/internal/bootstrap"
	"github.com/avoronkov/aeroreserve/internal/cache"
	"github.com/avoronkov/aeroreserve/internal/kafka"
	"github.com/avoronkov/aeroreserve/internal/notify"
	"github.com/avoronkov/aeroreserve/internal/payment"
	"github.com/avoronkov/aeroreserve/internal/repository"
	"github.com/avoronkov/aeroreserve/internal/service/catalog"
	"github.com/avoronkov/aeroreserve/internal/service/reservation"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Reservation.SearchCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	catalogRepo := repository.NewCatalogRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)

	catalogService := catalog.NewCatalogService(catalogRepo, redisCache)
	reservationService := reservation.NewReservationService(
		reservationRepo,
		payment.NewGateway(),
		notify.NewKafkaNotifier(producer, cfg.Kafka.NotificationsTopic),
		reservation.WithSeatHolds(redisCache, time.Duration(cfg.Reservation.SeatHoldTTLSeconds)*time.Second),
		reservation.WithEventProducer(producer, cfg.Kafka.ReservationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, catalogService, reservationService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
