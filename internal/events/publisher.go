// Package events publishes settlement notifications to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/Tomas5220/f1-api/internal/config"
	"github.com/Tomas5220/f1-api/internal/metrics"
	"github.com/Tomas5220/f1-api/internal/models"
)

// WagerSettled is emitted once per committed wager
type WagerSettled struct {
	WagerID    string `json:"wager_id"`
	Username   string `json:"nombre_usuario"`
	EventID    int64  `json:"id_gp"`
	Season     int    `json:"temporada"`
	Category   string `json:"tipo_apuesta"`
	SubjectID  string `json:"subject_id"`
	Stake      string `json:"monto"`
	Odds       string `json:"cuota"`
	Won        bool   `json:"resultado"`
	Payout     string `json:"pago"`
	NewBalance string `json:"nuevo_saldo"`
	TsUnixMs   int64  `json:"ts_unix_ms"`
}

// NewWagerSettled builds the event for a committed wager
func NewWagerSettled(w *models.Wager, newBalance string) WagerSettled {
	return WagerSettled{
		WagerID:    w.ID.String(),
		Username:   w.Username,
		EventID:    w.EventID,
		Season:     w.Season,
		Category:   w.Category.String(),
		SubjectID:  w.SubjectID(),
		Stake:      w.Stake.String(),
		Odds:       w.Odds.StringFixed(2),
		Won:        w.Won,
		Payout:     w.Payout().String(),
		NewBalance: newBalance,
	}
}

// Publisher delivers settlement events
type Publisher interface {
	PublishWagerSettled(ctx context.Context, e WagerSettled) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a kafka topic keyed by username, so one
// bettor's events stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafkaWriter creates the writer used by KafkaPublisher
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaPublisher wraps a kafka writer
func NewKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w, now: time.Now}
}

// PublishWagerSettled encodes and writes one event
func (p *KafkaPublisher) PublishWagerSettled(ctx context.Context, e WagerSettled) error {
	e.TsUnixMs = p.now().UnixMilli()
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode wager event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Username),
		Value: b,
		Time:  p.now(),
	})
	metrics.RecordEventPublished(err)
	if err != nil {
		return fmt.Errorf("failed to publish wager event %s: %w", e.WagerID, err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards events
type NopPublisher struct{}

func (NopPublisher) PublishWagerSettled(context.Context, WagerSettled) error { return nil }

func (NopPublisher) Close() error { return nil }

// NewPublisher returns a kafka publisher behind a circuit breaker when events
// are enabled, otherwise a no-op.
func NewPublisher(cfg config.EventsConfig, log *logrus.Logger) Publisher {
	if !cfg.Enabled {
		log.Debug("Settlement events disabled")
		return NopPublisher{}
	}
	log.WithFields(logrus.Fields{
		"brokers": cfg.Brokers,
		"topic":   cfg.Topic,
	}).Info("Publishing settlement events to kafka")
	kp := NewKafkaPublisher(NewKafkaWriter(cfg.Brokers, cfg.Topic))
	return NewBreakerPublisher(kp, DefaultBreakerConfig(), log)
}
