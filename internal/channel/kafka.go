package channel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/tradestack/trade-store/internal/config"
	"github.com/tradestack/trade-store/internal/model"
)

// KafkaPublisher writes envelopes to the inbound topic, hash-partitioned by
// trade_id so that submissions for one trade land on one partition in order.
type KafkaPublisher struct {
	writer *kafka.Writer
	broker string
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher for the configured topic.
func NewKafkaPublisher(cfg config.ChannelConfig, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		broker: cfg.Brokers[0],
		logger: logger,
	}
}

// Publish implements Publisher. The write is synchronous: an error here means
// the message is not on the channel and the acceptance path must fail the
// pending record.
func (p *KafkaPublisher) Publish(ctx context.Context, env model.Envelope) error {
	data, err := EncodeEnvelope(env)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(env.Trade.TradeID),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish trade %s: %w", env.Trade.TradeID, err)
	}
	p.logger.Debug("published envelope",
		"request_id", env.RequestID,
		"trade_id", env.Trade.TradeID,
		"version", env.Trade.Version,
	)
	return nil
}

// Ping verifies broker connectivity for health reporting.
func (p *KafkaPublisher) Ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", p.broker)
	if err != nil {
		return fmt.Errorf("dial kafka: %w", err)
	}
	defer conn.Close()
	if _, err := conn.Brokers(); err != nil {
		return fmt.Errorf("list kafka brokers: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KafkaConsumer reads envelopes as part of a consumer group. Kafka assigns
// each partition to exactly one group member, which is what keeps per-trade
// processing sequential across worker instances.
type KafkaConsumer struct {
	reader *kafka.Reader
	logger *slog.Logger
}

// NewKafkaConsumer creates a group consumer for the configured topic.
func NewKafkaConsumer(cfg config.ChannelConfig, logger *slog.Logger) *KafkaConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			GroupID:  cfg.GroupID,
			Topic:    cfg.Topic,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  cfg.MaxWait,
		}),
		logger: logger,
	}
}

// Fetch implements Consumer. Undecodable messages are committed and skipped:
// they can never resolve to a status and redelivering them forever would
// starve the partition.
func (c *KafkaConsumer) Fetch(ctx context.Context) (Delivery, error) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return Delivery{}, fmt.Errorf("fetch message: %w", err)
		}

		env, err := DecodeEnvelope(msg.Value)
		if err != nil {
			c.logger.Error("dropping undecodable message",
				"error", err,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return Delivery{}, fmt.Errorf("commit poison message: %w", err)
			}
			continue
		}

		return Delivery{
			Envelope: env,
			Ack: func(ctx context.Context) error {
				if err := c.reader.CommitMessages(ctx, msg); err != nil {
					return fmt.Errorf("commit message: %w", err)
				}
				return nil
			},
		}, nil
	}
}

// Close closes the underlying reader and leaves the consumer group.
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
