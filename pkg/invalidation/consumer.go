package invalidation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
)

// ConsumerConfig holds configuration for the Pub/Sub invalidation consumer.
type ConsumerConfig struct {
	SubscriptionID         string
	MaxOutstandingMessages int
	NumGoroutines          int
}

// LoadDefaultConsumerConfig returns a config with sensible receive settings.
func LoadDefaultConsumerConfig(subID string) *ConsumerConfig {
	return &ConsumerConfig{
		SubscriptionID:         subID,
		MaxOutstandingMessages: 100,
		NumGoroutines:          5,
	}
}

// Consumer receives invalidation events from a Pub/Sub subscription and
// dispatches each to the Invalidator registered for its entity.
type Consumer struct {
	subscription       *pubsub.Subscription
	handlers           map[string]Invalidator
	logger             zerolog.Logger
	stopOnce           sync.Once
	cancelSubscription context.CancelFunc
	doneChan           chan struct{}
}

// NewConsumer creates a Consumer bound to an existing subscription.
func NewConsumer(cfg *ConsumerConfig, client *pubsub.Client, logger zerolog.Logger) (*Consumer, error) {
	sub := client.Subscription(cfg.SubscriptionID)

	subContext, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	exists, err := sub.Exists(subContext)
	if !exists || err != nil {
		return nil, fmt.Errorf("subscription %s does not exist: %w", cfg.SubscriptionID, err)
	}

	sub.ReceiveSettings.MaxOutstandingMessages = cfg.MaxOutstandingMessages
	sub.ReceiveSettings.NumGoroutines = cfg.NumGoroutines

	return &Consumer{
		subscription: sub,
		handlers:     make(map[string]Invalidator),
		logger:       logger.With().Str("component", "InvalidationConsumer").Str("subscription_id", cfg.SubscriptionID).Logger(),
		doneChan:     make(chan struct{}),
	}, nil
}

// Register binds an entity family to its Invalidator. Registration happens
// at wiring time, before Start.
func (c *Consumer) Register(entity string, handler Invalidator) {
	c.handlers[entity] = handler
}

// Start begins receiving in a background goroutine. Malformed or unhandled
// events are acked and logged — redelivering them would loop forever without
// ever succeeding.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().Msg("Starting invalidation event consumption...")
	receiveCtx, cancel := context.WithCancel(ctx)
	c.cancelSubscription = cancel

	go func() {
		defer close(c.doneChan)
		defer c.logger.Info().Msg("Invalidation Receive goroutine stopped.")

		err := c.subscription.Receive(receiveCtx, func(msgCtx context.Context, msg *pubsub.Message) {
			defer msg.Ack()
			c.dispatch(msgCtx, msg.ID, msg.Data)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error().Err(err).Msg("Pub/Sub Receive call exited with error")
		}
	}()
	return nil
}

// dispatch routes one event payload to its registered handler.
func (c *Consumer) dispatch(ctx context.Context, msgID string, payload []byte) {
	evt, err := ParseEvent(payload)
	if err != nil {
		c.logger.Warn().Err(err).Str("msg_id", msgID).Msg("Dropping malformed invalidation event.")
		return
	}
	handler, ok := c.handlers[evt.Entity]
	if !ok {
		c.logger.Warn().Str("entity", evt.Entity).Str("msg_id", msgID).Msg("No invalidator registered for entity.")
		return
	}
	handler(ctx, evt)
	c.logger.Debug().Str("entity", evt.Entity).Str("scope", evt.Scope).Msg("Invalidation event handled.")
}

// Stop halts receiving and waits for the Receive goroutine to drain.
func (c *Consumer) Stop() error {
	c.stopOnce.Do(func() {
		c.logger.Info().Msg("Stopping invalidation consumer...")
		if c.cancelSubscription != nil {
			c.cancelSubscription()
		}
		select {
		case <-c.doneChan:
			c.logger.Info().Msg("Invalidation Receive goroutine confirmed stopped.")
		case <-time.After(30 * time.Second):
			c.logger.Error().Msg("Timeout waiting for invalidation Receive goroutine to stop.")
		}
	})
	return nil
}

// Done is closed once the Receive goroutine has exited.
func (c *Consumer) Done() <-chan struct{} {
	return c.doneChan
}
