package events

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/streadway/amqp"
)

// TestFinished ключ маршрутизации события о завершении теста
const TestFinished = "test.finished"

// Publisher публикует события домена
type Publisher interface {
	Publish(eventType string, payload any) error
	Close()
}

// Event конверт события
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// TestFinishedPayload содержимое события test.finished
type TestFinishedPayload struct {
	RecordID       string           `json:"record_id"`
	SessionID      string           `json:"session_id"`
	Taker          model.Taker      `json:"taker"`
	Specialization string           `json:"specialization"`
	Difficulty     model.Difficulty `json:"difficulty"`
	Result         model.Result     `json:"result"`
}

// NewTestFinishedPayload собирает событие из сохраненного результата
func NewTestFinishedPayload(rec model.TestRecord) TestFinishedPayload {
	return TestFinishedPayload{
		RecordID:       rec.ID,
		SessionID:      rec.SessionID,
		Taker:          rec.Taker,
		Specialization: rec.Specialization,
		Difficulty:     rec.Difficulty,
		Result:         rec.Result,
	}
}

// AMQPPublisher публикует события в topic exchange RabbitMQ
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *log.Logger
}

// NewAMQPPublisher подключается к брокеру и объявляет exchange
func NewAMQPPublisher(amqpURL, exchange string, logger *log.Logger) (*AMQPPublisher, error) {
	const op = "events.NewAMQPPublisher"

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to dial: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: failed to open channel: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: failed to declare exchange: %w", op, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange, logger: logger}, nil
}

func (p *AMQPPublisher) Publish(eventType string, payload any) error {
	body, err := Encode(eventType, payload, time.Now())
	if err != nil {
		return err
	}

	// amqp.Channel нельзя использовать из нескольких горутин одновременно
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	p.logger.Printf("[EVENT] %s published", eventType)
	return nil
}

func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// NopPublisher используется, когда брокер не настроен: события только пишутся в лог
type NopPublisher struct {
	logger *log.Logger
}

func NewNopPublisher(logger *log.Logger) *NopPublisher {
	if logger == nil {
		logger = log.Default()
	}
	return &NopPublisher{logger: logger}
}

func (p *NopPublisher) Publish(eventType string, payload any) error {
	p.logger.Printf("[EVENT] %s: %+v", eventType, payload)
	return nil
}

func (p *NopPublisher) Close() {}

// Encode сериализует событие в JSON
func Encode(eventType string, payload any, at time.Time) ([]byte, error) {
	body, err := json.Marshal(Event{Type: eventType, OccurredAt: at, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", eventType, err)
	}
	return body, nil
}
