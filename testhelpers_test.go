//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/JeremyNakano12/nakanostay-backend/internal/application"
	bookingDomain "github.com/JeremyNakano12/nakanostay-backend/internal/domain/booking"
	"github.com/JeremyNakano12/nakanostay-backend/internal/events"
	"github.com/JeremyNakano12/nakanostay-backend/internal/kafka"
	"github.com/JeremyNakano12/nakanostay-backend/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// bookingStack holds wired-up booking service components.
type bookingStack struct {
	Bookings        *application.BookingService
	Rooms           *application.RoomService
	Hotels          *application.HotelService
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_nakanostay",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_nakanostay sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(
		&repository.HotelModel{},
		&repository.RoomModel{},
		&repository.BookingModel{},
	))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, events.TopicBookingEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupBookingStack wires up the full service stack against the containers.
func setupBookingStack(t *testing.T, db *gorm.DB, brokers []string) *bookingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	hotelRepo := repository.NewGormHotelRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)

	producer := kafka.NewProducer(brokers, events.TopicBookingEvents, "integration-test", logger)

	bookingSvc := application.NewBookingService(bookingRepo, roomRepo, producer, logger)
	hotelSvc := application.NewHotelService(hotelRepo, nil, logger)
	roomSvc := application.NewRoomService(roomRepo, hotelRepo, bookingRepo, nil, logger)

	return &bookingStack{
		Bookings:        bookingSvc,
		Rooms:           roomSvc,
		Hotels:          hotelSvc,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedHotelAndRoom inserts a hotel with one available room and returns the room id.
func seedHotelAndRoom(t *testing.T, db *gorm.DB, priceCents int64) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()

	hotelID := uuid.New()
	require.NoError(t, db.Create(&repository.HotelModel{
		ID:        hotelID,
		Name:      "Hotel Integration",
		Address:   "Av. Amazonas 123",
		City:      "Quito",
		Email:     "contact@integration.test",
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error, "failed to seed hotel")

	roomID := uuid.New()
	require.NoError(t, db.Create(&repository.RoomModel{
		ID:         roomID,
		HotelID:    hotelID,
		RoomNumber: fmt.Sprintf("R%s", uuid.New().String()[:4]),
		RoomType:   "DOUBLE",
		PriceCents: priceCents,
		Available:  true,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}).Error, "failed to seed room")

	return roomID
}

// seedConfirmedBooking inserts a CONFIRMED booking for the room over the given stay.
func seedConfirmedBooking(t *testing.T, db *gorm.DB, roomID uuid.UUID, checkIn, checkOut time.Time) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()

	details, err := json.Marshal([]bookingDomain.Detail{
		{RoomID: roomID, Guests: 2, PriceAtBookingCents: 5000},
	})
	require.NoError(t, err)

	nights := int64(checkOut.Sub(checkIn).Hours() / 24)
	bookingID := uuid.New()
	model := repository.BookingModel{
		ID:         bookingID,
		Code:       fmt.Sprintf("NKS-%s", uuid.New().String()[:6]),
		GuestName:  "Seed Guest",
		GuestDNI:   "1710034065",
		GuestEmail: "seed@integration.test",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     string(bookingDomain.StatusConfirmed),
		TotalCents: 5000 * nights,
		Details:    details,
		BookedAt:   now,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed booking")
	return bookingID
}

// waitForBookingStatus polls the bookings table until the status matches.
func waitForBookingStatus(t *testing.T, db *gorm.DB, bookingID uuid.UUID, expectedStatus string, timeout time.Duration) repository.BookingModel {
	t.Helper()
	var result repository.BookingModel
	require.Eventually(t, func() bool {
		var model repository.BookingModel
		err := db.Where("id = ?", bookingID).First(&model).Error
		if err != nil {
			return false
		}
		if model.Status == expectedStatus {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "booking did not transition to %s", expectedStatus)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
