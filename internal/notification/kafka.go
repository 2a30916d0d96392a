package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	headerEventID    = "event-id"
	headerEventType  = "event-type"
	headerDLQError   = "dlq-error"
	headerDLQTime    = "dlq-timestamp"
	headerDLQGroupID = "dlq-consumer-group"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		MaxAttempts:  5,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger:  kafka.LoggerFunc(log.Printf),
	}
}

// KafkaQueue publishes jobs to a topic that cmd/mailer consumes.
type KafkaQueue struct {
	writer messageWriter
}

func NewKafkaQueue(brokers []string, topic string) (*KafkaQueue, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	return &KafkaQueue{writer: newWriter(brokers, topic)}, nil
}

func (q *KafkaQueue) Enqueue(ctx context.Context, job Job) error {
	msg, err := encodeJob(job)
	if err != nil {
		return err
	}
	return q.writer.WriteMessages(ctx, msg)
}

func (q *KafkaQueue) Close() error {
	return q.writer.Close()
}

// Keyed by recipient so one user's emails stay on one partition.
func encodeJob(job Job) (kafka.Message, error) {
	value, err := json.Marshal(job)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode notification job: %w", err)
	}
	return kafka.Message{
		Key:   []byte(job.To),
		Value: value,
		Time:  job.CreatedAt,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(job.ID)},
			{Key: headerEventType, Value: []byte(job.Type)},
		},
	}, nil
}

// Consumer reads jobs from Kafka and delivers them. Offsets are committed
// only after delivery or after the message has been parked on the DLQ,
// so delivery is at-least-once.
type Consumer struct {
	reader    messageReader
	dlq       messageWriter
	groupID   string
	deliverer *Deliverer
}

func NewConsumer(brokers []string, topic, groupID, dlqTopic string, deliverer *Deliverer) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if groupID == "" {
		return nil, fmt.Errorf("group ID cannot be empty")
	}
	if deliverer == nil {
		return nil, fmt.Errorf("deliverer cannot be nil")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
		Logger:         kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger:    kafka.LoggerFunc(log.Printf),
	})

	c := &Consumer{reader: reader, groupID: groupID, deliverer: deliverer}
	if dlqTopic != "" {
		c.dlq = newWriter(brokers, dlqTopic)
	}
	return c, nil
}

func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			log.Printf("kafka consumer error fetching message: %v", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		// a later commit would cover this offset, so retry in place
		for {
			err := c.handle(ctx, msg)
			if err == nil {
				break
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("kafka consumer retrying message partition=%d offset=%d error=%q", msg.Partition, msg.Offset, err.Error())
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Printf("kafka consumer error committing offset: %v", err)
		}
	}
}

// handle returns an error only when the message must not be committed.
func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	var job Job
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		return c.park(ctx, msg, fmt.Errorf("decode job: %w", err))
	}

	if err := c.deliverer.Deliver(ctx, job); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return c.park(ctx, msg, err)
	}
	return nil
}

func (c *Consumer) park(ctx context.Context, msg kafka.Message, cause error) error {
	if c.dlq == nil {
		log.Printf("notification_dropped partition=%d offset=%d error=%q", msg.Partition, msg.Offset, cause.Error())
		return nil
	}

	dead := kafka.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Time:    time.Now(),
		Headers: append([]kafka.Header{}, msg.Headers...),
	}
	dead.Headers = append(dead.Headers,
		kafka.Header{Key: headerDLQError, Value: []byte(cause.Error())},
		kafka.Header{Key: headerDLQTime, Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		kafka.Header{Key: headerDLQGroupID, Value: []byte(c.groupID)},
	)

	if err := c.dlq.WriteMessages(ctx, dead); err != nil {
		return fmt.Errorf("send to DLQ: %w (original error: %v)", err, cause)
	}
	log.Printf("notification_parked partition=%d offset=%d error=%q", msg.Partition, msg.Offset, cause.Error())
	return nil
}

func (c *Consumer) Close() error {
	err := c.reader.Close()
	if c.dlq != nil {
		if dlqErr := c.dlq.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}
