package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/JeremyNakano12/nakanostay-backend/internal/application"
	"github.com/JeremyNakano12/nakanostay-backend/internal/config"
	"github.com/JeremyNakano12/nakanostay-backend/internal/database"
	"github.com/JeremyNakano12/nakanostay-backend/internal/email"
	"github.com/JeremyNakano12/nakanostay-backend/internal/events"
	"github.com/JeremyNakano12/nakanostay-backend/internal/kafka"
	"github.com/JeremyNakano12/nakanostay-backend/internal/logger"
	"github.com/JeremyNakano12/nakanostay-backend/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "nakanostay-worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting nakanostay-worker",
		zap.Duration("sweep_interval", cfg.Worker.SweepInterval),
	)

	// Connect to database
	db, err := database.Connect(cfg.DB, cfg.AppEnv)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Initialize Kafka producer for completion events
	kafkaProducer := kafka.NewProducer(
		cfg.Kafka.Brokers,
		cfg.Kafka.BookingEventsTopic,
		"nakanostay-worker",
		log,
	)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories and the booking service
	bookingRepo := repository.NewGormBookingRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	bookingService := application.NewBookingService(bookingRepo, roomRepo, kafkaProducer, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the notification consumer in a goroutine
	sender := email.NewSender(log, "noreply@nakanostay.ec")
	groupID := cfg.Kafka.GroupPrefix + "notifications"
	notifier := events.NewNotificationConsumer(cfg.Kafka.Brokers, groupID, sender, log)
	defer func() { _ = notifier.Close() }()

	go func() {
		log.Info("starting notification consumer", zap.String("group_id", groupID))
		if err := notifier.Start(ctx); err != nil && err != context.Canceled {
			log.Error("notification consumer error", zap.Error(err))
		}
	}()

	// Sweep elapsed stays on a fixed ticker. The first sweep runs immediately
	// so restarts don't delay completion by a full interval.
	ticker := time.NewTicker(cfg.Worker.SweepInterval)
	defer ticker.Stop()

	sweep := func() {
		completed, err := bookingService.CompleteElapsedStays(ctx)
		if err != nil {
			log.Error("elapsed stay sweep failed", zap.Error(err))
			return
		}
		if completed > 0 {
			log.Info("elapsed stays completed", zap.Int("count", completed))
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sweep()
	for {
		select {
		case <-ticker.C:
			sweep()
		case <-quit:
			log.Info("shutting down nakanostay-worker...")
			cancel()
			log.Info("nakanostay-worker stopped")
			return
		}
	}
}
