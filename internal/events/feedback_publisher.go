package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	DefaultFeedbackTopic = "evroute.trip-feedback"
	TripFeedbackType     = "trip.feedback"
)

// FeedbackEvent is the message value published for every trip score.
type FeedbackEvent struct {
	Type       string    `json:"type"`
	TripID     string    `json:"trip_id"`
	Score      int       `json:"score"`
	OccurredAt time.Time `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// FeedbackPublisher publishes trip scores to Kafka, keyed by trip id.
type FeedbackPublisher struct {
	writer messageWriter
	topic  string
	log    *zap.Logger
	now    func() time.Time
}

func NewFeedbackPublisher(brokers []string, topic string, log *zap.Logger) *FeedbackPublisher {
	if topic == "" {
		topic = DefaultFeedbackTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newFeedbackPublisher(w, topic, log)
}

func newFeedbackPublisher(w messageWriter, topic string, log *zap.Logger) *FeedbackPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedbackPublisher{writer: w, topic: topic, log: log.Named("events"), now: time.Now}
}

// Submit publishes a feedback event for the trip.
func (p *FeedbackPublisher) Submit(ctx context.Context, tripID string, good bool) error {
	evt := FeedbackEvent{
		Type:       TripFeedbackType,
		TripID:     tripID,
		OccurredAt: p.now().UTC(),
	}
	if good {
		evt.Score = 1
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal feedback event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(tripID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(TripFeedbackType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish feedback to %s: %w", p.topic, err)
	}

	p.log.Debug("feedback published", zap.String("topic", p.topic), zap.String("trip_id", tripID))
	return nil
}

func (p *FeedbackPublisher) Close() error {
	return p.writer.Close()
}
