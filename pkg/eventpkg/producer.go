// Package eventpkg publishes ledger events to RabbitMQ.
package eventpkg

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/go-petr/safebank/internal/domain"
)

// ErrInvalidURL indicates the AMQP url scheme is neither amqp nor amqps.
var ErrInvalidURL = errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")

const dialTimeout = 10 * time.Second

// Publisher sends ledger events and releases its connection on Close.
type Publisher interface {
	Publish(ctx context.Context, e domain.Event) error
	Close() error
}

var (
	_ Publisher = (*Producer)(nil)
	_ Publisher = Noop{}
)

// Producer publishes events to a durable topic exchange, using the event type as routing key.
type Producer struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func sanitizeURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")

	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}

	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", ErrInvalidURL
	}

	return clean, nil
}

// NewProducer connects to RabbitMQ and declares the exchange.
func NewProducer(amqpURL, exchange string) (*Producer, error) {
	cleanURL, err := sanitizeURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Producer{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends e as JSON.
func (p *Producer) Publish(ctx context.Context, e domain.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange, // exchange
		e.Type,     // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    e.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().Str("routing_key", e.Type).Msg("event published")

	return nil
}

// Close closes the channel and the connection.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}

	return p.conn.Close()
}

// Noop drops events. It is used when no broker is configured.
type Noop struct{}

// Publish logs e at debug level and returns nil.
func (Noop) Publish(ctx context.Context, e domain.Event) error {
	zerolog.Ctx(ctx).Debug().Str("routing_key", e.Type).Msg("event dropped, no broker configured")
	return nil
}

// Close does nothing.
func (Noop) Close() error {
	return nil
}
