package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/trogers1052/portfolio-rollup/internal/models"
	"github.com/trogers1052/portfolio-rollup/internal/rollup"
)

// EventPositionsSnapshot is the only event type the consumer applies
const EventPositionsSnapshot = "POSITIONS_SNAPSHOT"

// PositionsRepository defines the storage operations a snapshot needs
type PositionsRepository interface {
	ReplaceAllPositions(positions []*models.Position) error
	ReplaceAccountPositions(accountID string, positions []*models.Position) error
	GetAllPositions() ([]models.Position, error)
}

// TotalsPublisher receives the recomputed portfolio totals after a snapshot
type TotalsPublisher interface {
	PublishTotalsUpdated(ctx context.Context, event models.TotalsEvent) error
}

// messageReader is the subset of *kafka.Reader used by the consumer
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
	Config() kafka.ReaderConfig
}

// PositionsConsumer applies position snapshots from Kafka to the store.
// Snapshot records are loosely typed and go through the normalizer, so a
// bad row only zeroes that row.
type PositionsConsumer struct {
	reader    messageReader
	repo      PositionsRepository
	publisher TotalsPublisher
	log       zerolog.Logger
}

// NewPositionsConsumer creates a new Kafka consumer for position snapshots.
// publisher may be nil.
func NewPositionsConsumer(brokers []string, topic, groupID string, repo PositionsRepository, publisher TotalsPublisher, log zerolog.Logger) *PositionsConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
	})

	return &PositionsConsumer{
		reader:    reader,
		repo:      repo,
		publisher: publisher,
		log:       log.With().Str("component", "positions_consumer").Logger(),
	}
}

// Start begins consuming messages until ctx is cancelled
func (c *PositionsConsumer) Start(ctx context.Context) error {
	c.log.Info().Str("topic", c.reader.Config().Topic).Msg("Starting positions consumer")

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("Positions consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return c.reader.Close()
				}
				c.log.Error().Err(err).Msg("Error reading message")
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.log.Error().Err(err).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("Error processing message")
			}
		}
	}
}

func (c *PositionsConsumer) processMessage(ctx context.Context, msg kafka.Message) error {
	// Numbers stay json.Number so amounts keep their exact decimal digits.
	dec := json.NewDecoder(bytes.NewReader(msg.Value))
	dec.UseNumber()

	var event models.PositionsEvent
	if err := dec.Decode(&event); err != nil {
		return fmt.Errorf("failed to unmarshal positions event: %w", err)
	}

	if event.EventType != EventPositionsSnapshot {
		c.log.Debug().Str("event_type", event.EventType).Msg("Ignoring event")
		return nil
	}

	normalized := rollup.NormalizeAll(event.Data.Positions)
	positions := make([]*models.Position, len(normalized))
	for i := range normalized {
		positions[i] = &normalized[i]
	}

	accountID := string(event.Data.AccountID)
	if accountID != "" {
		if err := c.repo.ReplaceAccountPositions(accountID, positions); err != nil {
			return fmt.Errorf("failed to replace account positions: %w", err)
		}
	} else {
		if err := c.repo.ReplaceAllPositions(positions); err != nil {
			return fmt.Errorf("failed to replace positions: %w", err)
		}
	}

	c.log.Info().
		Str("source", event.Source).
		Str("account_id", accountID).
		Int("positions", len(positions)).
		Msg("Applied positions snapshot")

	return c.publishTotals(ctx, event)
}

func (c *PositionsConsumer) publishTotals(ctx context.Context, event models.PositionsEvent) error {
	if c.publisher == nil {
		return nil
	}

	all, err := c.repo.GetAllPositions()
	if err != nil {
		return fmt.Errorf("failed to load positions for totals: %w", err)
	}

	totals := rollup.ComputeTotals(rollup.GroupByIdentity(all))
	err = c.publisher.PublishTotalsUpdated(ctx, models.TotalsEvent{
		EventType: EventTotalsUpdated,
		Source:    event.Source,
		AccountID: string(event.Data.AccountID),
		Totals:    totals,
		Timestamp: time.Now(),
	})
	if err != nil {
		// The snapshot is already stored; a lost totals event is not fatal.
		c.log.Warn().Err(err).Msg("Failed to publish totals event")
	}
	return nil
}

// Close closes the Kafka consumer
func (c *PositionsConsumer) Close() error {
	return c.reader.Close()
}
