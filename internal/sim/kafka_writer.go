package sim

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"sensornet-sim/internal/record"
)

// KafkaWriter publishes step records and events as JSON messages, keyed by
// run id so every record of one run lands on the same partition.
type KafkaWriter struct {
	writer *kafka.Writer
}

// NewKafkaWriter creates a KafkaWriter for the given brokers and topic.
func NewKafkaWriter(brokers []string, topic string) *KafkaWriter {
	return &KafkaWriter{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireAll,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}}
}

// WriteState publishes a step record.
func (w *KafkaWriter) WriteState(rec record.StepRecord) error {
	return w.publish(rec.RunID, rec.Timestamp, rec)
}

// WriteStates publishes multiple step records.
func (w *KafkaWriter) WriteStates(recs []record.StepRecord) error {
	for _, r := range recs {
		if err := w.WriteState(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvent publishes a state-transition event.
func (w *KafkaWriter) WriteEvent(ev record.Event) error {
	return w.publish(ev.RunID, ev.Timestamp, ev)
}

// WriteEvents publishes multiple events.
func (w *KafkaWriter) WriteEvents(events []record.Event) error {
	for _, ev := range events {
		if err := w.WriteEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

func (w *KafkaWriter) publish(key string, ts time.Time, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(key),
		Value: b,
		Time:  ts,
	})
}

// Close closes the underlying Kafka writer.
func (w *KafkaWriter) Close() error {
	return w.writer.Close()
}
