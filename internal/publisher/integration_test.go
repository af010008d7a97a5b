//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"vidshort/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange",
		RoutingKey: "test-routing-key",
		QueueName:  "test-queue",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.NoError(err)
	s.NotNil(pub)

	err = pub.Close()
	s.NoError(err)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishView() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-view",
		RoutingKey: "test-routing-key-view",
		QueueName:  "test-queue-view",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	now := time.Now().Truncate(time.Millisecond)
	link := &domain.ShortLink{
		ID:        42,
		ShortCode: "k3x9Qm",
		OwnerID:   7,
	}
	event := &domain.ViewEvent{
		LinkID:    42,
		IP:        "1.2.3.4",
		Country:   "US",
		Device:    domain.DeviceDesktop,
		Browser:   domain.BrowserChrome,
		Referrer:  "https://youtube.com",
		Counted:   true,
		Earning:   0.005,
		CreatedAt: now,
	}

	err = pub.PublishView(s.ctx, link, event)
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.NotNil(msg)
	s.Equal("application/json", msg.ContentType)

	var received ViewMessage
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.Equal(int64(42), received.LinkID)
	s.Equal("k3x9Qm", received.ShortCode)
	s.Equal(int64(7), received.OwnerID)
	s.Equal("US", received.Country)
	s.Equal("desktop", received.Device)
	s.Equal("Chrome", received.Browser)
	s.Equal("https://youtube.com", received.Referrer)
	s.Equal(0.005, received.Earning)
	s.True(received.ViewedAt.Equal(now))
	s.False(received.Timestamp.IsZero())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_MessagePersistence() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-persist",
		RoutingKey: "test-routing-key-persist",
		QueueName:  "test-queue-persist",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	link := &domain.ShortLink{ID: 1, ShortCode: "aaa111", OwnerID: 1}
	event := &domain.ViewEvent{LinkID: 1, Counted: true, CreatedAt: time.Now()}

	err = pub.PublishView(s.ctx, link, event)
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.NotNil(msg)
	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msgs, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-msgs:
		return &msg
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for message")
		return nil
	}
}
