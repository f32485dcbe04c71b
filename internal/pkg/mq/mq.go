// internal/pkg/mq/mq.go
package mq

import (
	"github.com/segmentio/kafka-go"
)

// NewKafkaReader builds a consumer-group reader for one topic.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: 0, // explicit commits only
	})
}
