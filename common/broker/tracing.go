package broker

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
)

// InjectTraceContext copies the span context of ctx into AMQP headers so a consumer
// can continue the trace.
//
// Why headers?
// → AMQP has no traceparent field, the message headers are the only carrier
// → A consumer extracts with the same propagator and an AMQPHeadersCarrier
//
// Flow: checkout request span → publish order.finalized (traceparent header)
// → consumer span becomes a child of the request
func InjectTraceContext(ctx context.Context) amqp.Table {
	headers := make(amqp.Table)
	otel.GetTextMapPropagator().Inject(ctx, &AMQPHeadersCarrier{headers: headers})
	return headers
}

// AMQPHeadersCarrier adapts amqp.Table to propagation.TextMapCarrier.
//
// Why the string type check in Get?
// → amqp.Table values are untyped; other publishers may put ints or byte slices there
// → A non-string value reads as absent, so extraction starts a fresh trace
type AMQPHeadersCarrier struct {
	headers amqp.Table
}

func (c *AMQPHeadersCarrier) Get(key string) string {
	if val, ok := c.headers[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func (c *AMQPHeadersCarrier) Set(key, value string) {
	c.headers[key] = value
}

func (c *AMQPHeadersCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for k := range c.headers {
		keys = append(keys, k)
	}
	return keys
}
