package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/SAP-F-2025/identity-service/internal/models"
)

const (
	TopicUserRegistered = "identity.user.registered"
	TopicUserLogin      = "identity.user.login"
)

// UserEvent is the audit payload published on registration and login.
type UserEvent struct {
	UserID     string          `json:"user_id"`
	Email      string          `json:"email"`
	Role       models.UserRole `json:"role"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Publisher emits identity audit events. Implementations must be safe
// for concurrent use.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, user *models.User) error
	PublishUserLogin(ctx context.Context, user *models.User) error
	Close() error
}

type watermillPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// NewPublisher builds an audit event publisher. With brokers configured
// it publishes to Kafka; without, it falls back to an in-process
// pub/sub so the rest of the service is unaware of the difference.
func NewPublisher(brokers []string, logger *slog.Logger) (Publisher, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	if len(brokers) == 0 {
		return &watermillPublisher{
			publisher: gochannel.NewGoChannel(gochannel.Config{}, wmLogger),
			logger:    logger,
		}, nil
	}

	kafkaPublisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		wmLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &watermillPublisher{
		publisher: kafkaPublisher,
		logger:    logger,
	}, nil
}

// NewPublisherWith wraps an existing watermill publisher; used in tests
// with a gochannel pub/sub the test also subscribes to.
func NewPublisherWith(publisher message.Publisher, logger *slog.Logger) Publisher {
	return &watermillPublisher{publisher: publisher, logger: logger}
}

func (p *watermillPublisher) PublishUserRegistered(ctx context.Context, user *models.User) error {
	return p.publish(ctx, TopicUserRegistered, user)
}

func (p *watermillPublisher) PublishUserLogin(ctx context.Context, user *models.User) error {
	return p.publish(ctx, TopicUserLogin, user)
}

func (p *watermillPublisher) publish(ctx context.Context, topic string, user *models.User) error {
	event := UserEvent{
		UserID:     user.ID,
		Email:      user.Email,
		Role:       user.Role,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", topic, err)
	}

	return nil
}

func (p *watermillPublisher) Close() error {
	return p.publisher.Close()
}
