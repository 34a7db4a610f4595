package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/martinmohammed/auth-service/internal/domain/models"
	"github.com/martinmohammed/auth-service/pkg/logger"
	wrap "github.com/martinmohammed/auth-service/pkg/logger/wrapper"
	"github.com/martinmohammed/auth-service/pkg/rabbit"
)

const AuthExchange = "auth_topic"

// AuthBroker publishes auth lifecycle events (registered, logged in, logged
// out) to the auth_topic exchange with routing key "auth.{event_type}".
type AuthBroker struct {
	client       *rabbit.RabbitMQ
	AuthExchange string

	l logger.Logger
}

func NewAuthBroker(client *rabbit.RabbitMQ, log logger.Logger) *AuthBroker {
	return &AuthBroker{
		client:       client,
		AuthExchange: AuthExchange,

		l: log,
	}
}

// PublishAuthEvent publishes the given auth event.
// Delivery is best effort: the auth flows treat publish failures as log-only.
func (b *AuthBroker) PublishAuthEvent(ctx context.Context, msg models.AuthEventMessage) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_auth_event")

	if err := b.client.EnsureConnection(ctx); err != nil {
		b.l.Error(ctx, "ensure connection failed", err)
		return wrap.Error(ctx, err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	// routing key, example: "auth.user.logged_in"
	key := fmt.Sprintf("auth.%s", msg.EventType)

	if err := retry(5, time.Second, func() error {
		if err := b.client.Channel.PublishWithContext(
			ctx,
			b.AuthExchange, // exchange
			key,            // routing key
			false,          // mandatory
			false,          // immediate
			amqp091.Publishing{
				ContentType:   "application/json",
				CorrelationId: msg.CorrelationID,
				Body:          body,
				Timestamp:     time.Now(),
			},
		); err != nil {
			return wrap.Error(ctx, fmt.Errorf("failed to publish with context: %w", err))
		}
		return nil
	}); err != nil {
		b.l.Error(ctx, "failed to publish auth event", err, "event_type", msg.EventType)
		return wrap.Error(ctx, err)
	}

	b.l.Debug(ctx, "published auth event", "event_type", msg.EventType, "routing_key", key)

	return nil
}

// DeclareExchange declares the auth topic exchange. Called once at startup.
func (b *AuthBroker) DeclareExchange(ctx context.Context) error {
	if err := b.client.EnsureConnection(ctx); err != nil {
		return wrap.Error(ctx, err)
	}

	if err := b.client.Channel.ExchangeDeclare(
		b.AuthExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to declare exchange: %w", err))
	}

	return nil
}

// retry runs fn up to attempts times, sleeping delay between failures.
func retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return err
}
