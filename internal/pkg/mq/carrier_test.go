package mq

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestKafkaHeaderCarrier(t *testing.T) {
	carrier := KafkaHeaderCarrier{}

	carrier.Set("traceparent", "00-abc-def-01")
	require.Equal(t, "00-abc-def-01", carrier.Get("traceparent"))

	// setting an existing key overwrites instead of appending
	carrier.Set("traceparent", "00-abc-def-02")
	require.Equal(t, "00-abc-def-02", carrier.Get("traceparent"))
	require.Len(t, carrier, 1)

	carrier.Set("baggage", "k=v")
	require.ElementsMatch(t, []string{"traceparent", "baggage"}, carrier.Keys())
	require.Equal(t, "", carrier.Get("missing"))
}

func TestKafkaHeaderCarrier_FromMessageHeaders(t *testing.T) {
	headers := []kafka.Header{{Key: "traceparent", Value: []byte("00-abc-def-01")}}
	carrier := KafkaHeaderCarrier(headers)
	require.Equal(t, "00-abc-def-01", carrier.Get("traceparent"))
}
