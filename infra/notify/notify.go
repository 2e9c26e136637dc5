// Package notify delivers transfer alerts outside the process.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/bankapi/pkg/config"
	"github.com/amirasaad/bankapi/pkg/domain/alert"
	alertsvc "github.com/amirasaad/bankapi/pkg/service/alert"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Message is the wire form of an alert.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Recipient string    `json:"recipient"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func newMessage(a *alert.Alert) Message {
	return Message{ID: a.ID, Recipient: a.Recipient, Message: a.Message, CreatedAt: a.CreatedAt}
}

// LogPublisher writes alerts to the application log. It never fails.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, a *alert.Alert) error {
	p.logger.Info("Alert", "alertID", a.ID, "recipient", a.Recipient, "message", a.Message)
	return nil
}

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// session is one broker connection with its channel. closed fires when the
// broker or the network shuts the channel down.
type session struct {
	ch     amqpChannel
	conn   io.Closer
	closed <-chan *amqp.Error
	dead   bool
}

func (s *session) isClosed() bool {
	if s.dead {
		return true
	}
	select {
	case <-s.closed:
		s.dead = true
	default:
	}
	return s.dead
}

// RabbitMQPublisher sends alerts as persistent JSON messages to a durable
// queue. A session closed by the broker is re-dialed on the next Publish.
type RabbitMQPublisher struct {
	mu     sync.Mutex
	sess   *session
	down   bool
	dial   func() (*session, error)
	queue  string
	logger *slog.Logger
}

// NewRabbitMQPublisher dials url and declares queue.
func NewRabbitMQPublisher(url, queue string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	p, err := newRabbitMQPublisher(func() (*session, error) { return dialSession(url, queue) }, queue, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("RabbitMQ publisher ready", "queue", queue)
	return p, nil
}

func newRabbitMQPublisher(dial func() (*session, error), queue string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	sess, err := dial()
	if err != nil {
		return nil, err
	}
	return &RabbitMQPublisher{sess: sess, dial: dial, queue: queue, logger: logger}, nil
}

func dialSession(url, queue string) (*session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	_, err = ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &session{
		ch:     ch,
		conn:   conn,
		closed: ch.NotifyClose(make(chan *amqp.Error, 1)),
	}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, a *alert.Alert) error {
	body, err := json.Marshal(newMessage(a))
	if err != nil {
		return err
	}
	sess, err := p.session()
	if err != nil {
		return err
	}
	return sess.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    a.ID.String(),
			Timestamp:    a.CreatedAt,
			Type:         "alert",
			Body:         body,
		},
	)
}

// session returns the live session, re-dialing when the current one closed.
// A failed dial is logged at error level once per outage.
func (p *RabbitMQPublisher) session() (*session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess != nil && !p.sess.isClosed() {
		return p.sess, nil
	}
	if p.sess != nil {
		p.logger.Warn("RabbitMQ session closed, redialing", "queue", p.queue)
		_ = p.closeSession(p.sess)
		p.sess = nil
	}
	sess, err := p.dial()
	if err != nil {
		if !p.down {
			p.logger.Error("RabbitMQ unavailable, alerts stay pending", "queue", p.queue, "error", err)
			p.down = true
		}
		return nil, err
	}
	if p.down {
		p.logger.Info("RabbitMQ reconnected", "queue", p.queue)
		p.down = false
	}
	p.sess = sess
	return sess, nil
}

func (p *RabbitMQPublisher) closeSession(s *session) error {
	if err := s.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		p.logger.Warn("Closing RabbitMQ channel failed", "error", err)
	}
	if s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	return nil
}

// Close releases the channel and the connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess == nil {
		return nil
	}
	err := p.closeSession(p.sess)
	p.sess = nil
	return err
}

// New picks the publisher named by cfg. The returned close function is never nil.
func New(cfg *config.Alerts, logger *slog.Logger) (alertsvc.Publisher, func() error, error) {
	switch cfg.Publisher {
	case config.PublisherRabbitMQ:
		p, err := NewRabbitMQPublisher(cfg.AmqpURL, cfg.Queue, logger)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	default:
		return NewLogPublisher(logger), func() error { return nil }, nil
	}
}
