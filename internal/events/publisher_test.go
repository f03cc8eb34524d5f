package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomas5220/f1-api/internal/config"
	"github.com/Tomas5220/f1-api/internal/models"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func sampleWager() *models.Wager {
	driver := "LEC"
	return &models.Wager{
		ID:       uuid.MustParse("4b0c9d4e-1111-4a7b-9f5e-3c2d1e0f9a8b"),
		Username: "tifosi",
		EventID:  1201,
		Season:   2024,
		Category: models.CategoryWinner,
		DriverID: &driver,
		Stake:    decimal.NewFromInt(100),
		Odds:     decimal.RequireFromString("6.50"),
		Won:      true,
	}
}

func TestKafkaPublisherWritesKeyedJSON(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w)
	fixed := time.Date(2024, 6, 9, 14, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	err := p.PublishWagerSettled(context.Background(), NewWagerSettled(sampleWager(), "1550.00"))
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "tifosi", string(msg.Key))

	var got WagerSettled
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "LEC", got.SubjectID)
	assert.Equal(t, "Ganador", got.Category)
	assert.Equal(t, "6.50", got.Odds)
	assert.Equal(t, "650", got.Payout)
	assert.Equal(t, "1550.00", got.NewBalance)
	assert.Equal(t, fixed.UnixMilli(), got.TsUnixMs)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("leader not available")
	p := NewKafkaPublisher(&fakeWriter{err: boom})

	err := p.PublishWagerSettled(context.Background(), NewWagerSettled(sampleWager(), "0.00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestNewPublisher(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	tests := []struct {
		name string
		cfg  config.EventsConfig
		want Publisher
	}{
		{"disabled", config.EventsConfig{}, NopPublisher{}},
		{"enabled", config.EventsConfig{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "f1.wagers.settled"}, &BreakerPublisher{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPublisher(tt.cfg, log)
			assert.IsType(t, tt.want, p)
		})
	}
}
