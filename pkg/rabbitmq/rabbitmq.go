package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"userapi/internal/models"

	amqp "github.com/streadway/amqp"
)

// DefaultQueue receives user lifecycle events.
const DefaultQueue = "user_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// NewClient connects to RabbitMQ, opens a channel and declares the event queue.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch, cfg.Queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", cfg.Queue, err)
	}

	log.Printf("RabbitMQ client connected and %s declared.", cfg.Queue)

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishUserEvent publishes a user event to the event queue as JSON.
func (c *Client) PublishUserEvent(event models.UserEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := EncodeUserEvent(event)
	if err != nil {
		return err
	}

	err = c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(event.Type),
			MessageId:    event.EventID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Printf(" [x] Sent %s event for user %d", event.Type, event.User.ID)
	return nil
}

// ConsumeUserEvents registers a consumer on the event queue and processes
// deliveries in a goroutine. Messages are acked when handler returns nil and
// dropped (nack without requeue) when the body cannot be decoded.
func (c *Client) ConsumeUserEvents(handler func(event models.UserEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declareQueue(c.channel, c.queue)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for user events on %s", queue.Name)

	go func() {
		for msg := range msgs {
			event, err := DecodeUserEvent(msg.Body)
			if err != nil {
				log.Printf("Dropping malformed message %d: %v", msg.DeliveryTag, err)
				if nackErr := msg.Nack(false, false); nackErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, nackErr)
				}
				continue
			}
			if err := handler(event); err != nil {
				log.Printf("Error processing message %d: %v", msg.DeliveryTag, err)
				if nackErr := msg.Nack(false, true); nackErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}

// EncodeUserEvent marshals an event into its wire form.
func EncodeUserEvent(event models.UserEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user event to JSON: %w", err)
	}
	return body, nil
}

// DecodeUserEvent parses a message body produced by EncodeUserEvent.
func DecodeUserEvent(body []byte) (models.UserEvent, error) {
	var event models.UserEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return models.UserEvent{}, fmt.Errorf("failed to unmarshal user event: %w", err)
	}
	if event.Type == "" {
		return models.UserEvent{}, fmt.Errorf("user event has no type")
	}
	return event, nil
}

// LogUserEvent is the consumer handler used by the serve command.
func LogUserEvent(event models.UserEvent) error {
	log.Printf("User event %s: %s id=%d name=%q at %s",
		event.EventID, event.Type, event.User.ID, event.User.Name, event.OccurredAt.Format(time.RFC3339))
	return nil
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}
