package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/alimikegami/pos-microservices/payment-service/config"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const writeTimeout = 5 * time.Second

// EventPublisher announces domain events keyed by an aggregate id.
type EventPublisher interface {
	Publish(ctx context.Context, key string, eventType string, data interface{}) error
	Close() error
}

type messageWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteMessages(msgs ...kafka.Message) (int, error)
	Close() error
}

type Message struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

func CreateKafkaProducer(config *config.Config) (*kafka.Conn, error) {
	conn, err := kafka.DialLeader(context.Background(), "tcp", config.KafkaConfig.BrokerAddress, config.KafkaConfig.BrokerTopic, config.KafkaConfig.BrokerPartition)
	if err != nil {
		return nil, fmt.Errorf("dialing kafka leader %s: %w", config.KafkaConfig.BrokerAddress, err)
	}

	return conn, nil
}

// KafkaPublisher is shared by concurrent requests. mu keeps each write
// deadline paired with its own write on the single leader connection.
type KafkaPublisher struct {
	mu   sync.Mutex
	conn messageWriter
}

func CreateKafkaPublisher(conn messageWriter) *KafkaPublisher {
	return &KafkaPublisher{conn: conn}
}

// Publish writes a single message. There is no retry: a failed write is
// returned to the caller.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, eventType string, data interface{}) error {
	msg, err := json.Marshal(Message{EventType: eventType, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal kafka message: %w", err)
	}

	if err := p.write(kafka.Message{Key: []byte(key), Value: msg}); err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("event_type", eventType).Str("key", key).Msg("event published")

	return nil
}

func (p *KafkaPublisher) write(msg kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set kafka write deadline: %w", err)
	}

	if _, err := p.conn.WriteMessages(msg); err != nil {
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.conn.Close()
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, key string, eventType string, data interface{}) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
