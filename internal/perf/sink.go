package perf

import (
	"context"
	"fmt"

	"github.com/ibs-source/es-producer/internal/log"
	"github.com/magiconair/properties"
)

// Sink delivers records to a broker. Send blocks until the broker has
// acknowledged the record according to the sink's configuration.
type Sink interface {
	Send(ctx context.Context, topic string, value []byte) error
	Close() error
}

// AsyncSink is a Sink that can keep many records in flight. done is called
// once per record with the delivery result; Flush waits for all of them.
type AsyncSink interface {
	Sink
	SendAsync(ctx context.Context, topic string, value []byte, done func(error))
	Flush(ctx context.Context) error
}

// SinkFactory builds the sink described by the producer properties
type SinkFactory func(ctx context.Context, p *properties.Properties, logger *log.Logger) (Sink, error)

// NewSink selects the sink by the perf.driver property
func NewSink(ctx context.Context, p *properties.Properties, logger *log.Logger) (Sink, error) {
	switch d := driverOf(p); d {
	case DriverKafka:
		return newKafkaSink(p, logger)
	case DriverMQTT:
		return newMQTTSink(p, logger)
	case DriverRedis:
		return newRedisSink(ctx, p, logger)
	default:
		return nil, fmt.Errorf("unsupported %s %q", PropDriver, d)
	}
}
