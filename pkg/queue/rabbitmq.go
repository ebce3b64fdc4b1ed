package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"estate-market/pkg/config"
	"estate-market/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	MediaExchange        = "media"
	MediaMirrorQueueName = "media_mirror"
	RoutingMediaCommit   = "media.committed"
)

// MediaCommitted is published once a finalized upload is visible under the media root.
type MediaCommitted struct {
	UploadID  string    `json:"upload_id"`
	Kind      string    `json:"kind"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	OwnerID   string    `json:"owner_id"`
	Committed time.Time `json:"committed_at"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		MediaExchange, // name
		"direct",      // type
		true,          // durable
		false,         // auto-deleted
		false,         // internal
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		MediaMirrorQueueName, // name
		true,                 // durable
		false,                // delete when unused
		false,                // exclusive
		false,                // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		MediaMirrorQueueName, // queue name
		RoutingMediaCommit,   // routing key
		MediaExchange,        // exchange
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishMediaCommitted publishes a persistent media.committed event.
func (c *Client) PublishMediaCommitted(ctx context.Context, event MediaCommitted) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = c.channel.PublishWithContext(ctx,
		MediaExchange,      // exchange
		RoutingMediaCommit, // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish to exchange=%s, routing_key=%s: %v", MediaExchange, RoutingMediaCommit, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published media.committed upload_id=%s file=%s", event.UploadID, event.Filename)
	return nil
}

// ErrPermanent marks a handler failure that must not be retried.
type ErrPermanent struct{ Err error }

func (e *ErrPermanent) Error() string { return e.Err.Error() }
func (e *ErrPermanent) Unwrap() error { return e.Err }

// ConsumeMediaCommitted delivers events to handler until ctx is cancelled or the
// channel closes. Undecodable bodies and permanent failures are dropped; other
// handler errors are requeued.
func (c *Client) ConsumeMediaCommitted(ctx context.Context, handler func(context.Context, MediaCommitted) error) error {
	consumerTag := "media-mirror"
	msgs, err := c.channel.Consume(
		MediaMirrorQueueName, // queue
		consumerTag,          // consumer
		false,                // auto-ack (we'll manually ack after processing)
		false,                // exclusive
		false,                // no-local
		false,                // no-wait
		nil,                  // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", MediaMirrorQueueName)

	go func() {
		<-ctx.Done()
		c.channel.Cancel(consumerTag, false)
	}()

	go func() {
		for msg := range msgs {
			HandleDelivery(ctx, msg, handler, c.logger)
		}
		c.logger.Info("[RABBITMQ] Consumer for %s stopped", MediaMirrorQueueName)
	}()

	return nil
}

// Acknowledger is the subset of amqp.Delivery used by HandleDelivery.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// HandleDelivery decodes one delivery, runs handler and settles the message.
func HandleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, MediaCommitted) error, log *logger.Logger) {
	settle(ctx, msg.Body, msg, handler, log)
}

func settle(ctx context.Context, body []byte, ack Acknowledger, handler func(context.Context, MediaCommitted) error, log *logger.Logger) {
	var event MediaCommitted
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("[RABBITMQ] Failed to unmarshal event: %v, body=%s", err, string(body))
		ack.Nack(false, false)
		return
	}

	if err := handler(ctx, event); err != nil {
		var permanent *ErrPermanent
		if errors.As(err, &permanent) {
			log.Error("[RABBITMQ] Dropping event upload_id=%s: %v", event.UploadID, err)
			ack.Nack(false, false)
			return
		}
		log.Error("[RABBITMQ] Handler failed upload_id=%s: %v (requeue)", event.UploadID, err)
		ack.Nack(false, true)
		return
	}

	ack.Ack(false)
}
