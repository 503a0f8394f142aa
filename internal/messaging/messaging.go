// Package messaging publishes and consumes the order lifecycle events
// (order.submitted, order.processed) over kafka, propagating trace context
// through message headers.
package messaging

import "github.com/segmentio/kafka-go"

const (
	TopicOrderSubmitted = "order.submitted"
	TopicOrderProcessed = "order.processed"
)

// headerCarrier adapts kafka message headers to the otel TextMapCarrier
// contract so spans link across the produce/consume boundary.
type headerCarrier struct {
	msg *kafka.Message
}

func (c headerCarrier) Get(key string) string {
	for _, h := range c.msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, h := range c.msg.Headers {
		if h.Key == key {
			c.msg.Headers[i].Value = []byte(value)
			return
		}
	}
	c.msg.Headers = append(c.msg.Headers, kafka.Header{
		Key:   key,
		Value: []byte(value),
	})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, len(c.msg.Headers))
	for i, h := range c.msg.Headers {
		keys[i] = h.Key
	}
	return keys
}
