package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightreserve/config"
	"github.com/Domenick1991/flightreserve/internal/email"
	"github.com/Domenick1991/flightreserve/internal/kafka"
	"github.com/Domenick1991/flightreserve/internal/logger"
	"github.com/Domenick1991/flightreserve/internal/repository"
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

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	flightRepo := repository.NewFlightRepository(pool)
	go runDepartedSweep(ctx, flightRepo, time.Duration(cfg.Worker.DepartedSweepMinutes)*time.Minute)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender()

	slog.Info("notification worker started", "topic", cfg.Kafka.NotificationsTopic)
	err = consumer.Consume(ctx, func(ctx context.Context, payload []byte) error {
		var event kafka.ReservationEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			slog.Error("skip malformed event", "error", err)
			return nil
		}
		return sender.Send(ctx, event)
	})
	if err != nil && ctx.Err() == nil {
		log.Fatalf("consumer stopped: %v", err)
	}
}

// runDepartedSweep periodically marks past flights as departed so they
// stop showing up as bookable.
func runDepartedSweep(ctx context.Context, flights repository.FlightRepository, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updated, err := flights.MarkDeparted(ctx, time.Now())
			if err != nil {
				slog.Error("departed sweep failed", "error", err)
				continue
			}
			if updated > 0 {
				slog.Info("marked flights departed", "count", updated)
			}
		}
	}
}
