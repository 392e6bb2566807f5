package perf

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ibs-source/es-producer/internal/log"
	"github.com/magiconair/properties"
	"github.com/sirupsen/logrus"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"github.com/twmb/franz-go/pkg/sasl/scram"
)

// Kafka producer property keys
const (
	PropBootstrapServers   = "bootstrap.servers"
	PropClientID           = "client.id"
	PropSecurityProtocol   = "security.protocol"
	PropSASLMechanism      = "sasl.mechanism"
	PropSASLJAASConfig     = "sasl.jaas.config"
	PropTruststoreLocation = "ssl.truststore.location"
	PropAcks               = "acks"
	PropLingerMs           = "linger.ms"
	PropCompressionType    = "compression.type"
	PropRequestTimeoutMs   = "request.timeout.ms"
)

var (
	jaasUsername = regexp.MustCompile(`username\s*=\s*"([^"]*)"`)
	jaasPassword = regexp.MustCompile(`password\s*=\s*"([^"]*)"`)
)

type kafkaSink struct {
	cl *kgo.Client
}

var _ AsyncSink = (*kafkaSink)(nil)

func newKafkaSink(p *properties.Properties, logger *log.Logger) (*kafkaSink, error) {
	opts, err := kafkaOpts(p, logger)
	if err != nil {
		return nil, err
	}
	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	logger.Debug("Kafka producer created for %s", p.GetString(PropBootstrapServers, ""))
	return &kafkaSink{cl: cl}, nil
}

// kafkaOpts maps producer.config properties onto franz-go options
func kafkaOpts(p *properties.Properties, logger *log.Logger) ([]kgo.Opt, error) {
	seeds := getList(p, PropBootstrapServers, "localhost:9092")
	if len(seeds) == 0 {
		return nil, fmt.Errorf("%s must not be empty", PropBootstrapServers)
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(seeds...),
		kgo.ClientID(p.GetString(PropClientID, "es-producer")),
		kgo.ProducerLinger(getMillis(p, PropLingerMs, 0)),
		kgo.ProduceRequestTimeout(getMillis(p, PropRequestTimeoutMs, 30*time.Second)),
		kgo.WithLogger(kgoLogger{log: logger}),
	}

	ackOpts, err := acksOpts(p.GetString(PropAcks, "all"))
	if err != nil {
		return nil, err
	}
	opts = append(opts, ackOpts...)

	codec, err := compressionCodec(p.GetString(PropCompressionType, "none"))
	if err != nil {
		return nil, err
	}
	opts = append(opts, kgo.ProducerBatchCompression(codec))

	protocol := strings.ToUpper(strings.TrimSpace(p.GetString(PropSecurityProtocol, "PLAINTEXT")))
	switch protocol {
	case "PLAINTEXT", "SASL_PLAINTEXT":
	case "SSL", "SASL_SSL":
		tlsConfig, err := newTLSConfig(tlsOptions{CACert: p.GetString(PropTruststoreLocation, "")})
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		opts = append(opts, kgo.DialTLSConfig(tlsConfig))
	default:
		return nil, fmt.Errorf("unsupported %s %q", PropSecurityProtocol, protocol)
	}

	if strings.HasPrefix(protocol, "SASL_") {
		mechanism, err := saslMechanism(p)
		if err != nil {
			return nil, err
		}
		opts = append(opts, kgo.SASL(mechanism))
	}
	return opts, nil
}

func acksOpts(acks string) ([]kgo.Opt, error) {
	switch strings.ToLower(strings.TrimSpace(acks)) {
	case "all", "-1":
		return []kgo.Opt{kgo.RequiredAcks(kgo.AllISRAcks())}, nil
	case "1":
		return []kgo.Opt{kgo.RequiredAcks(kgo.LeaderAck()), kgo.DisableIdempotentWrite()}, nil
	case "0":
		return []kgo.Opt{kgo.RequiredAcks(kgo.NoAck()), kgo.DisableIdempotentWrite()}, nil
	default:
		return nil, fmt.Errorf("unsupported %s %q", PropAcks, acks)
	}
}

func compressionCodec(name string) (kgo.CompressionCodec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return kgo.NoCompression(), nil
	case "gzip":
		return kgo.GzipCompression(), nil
	case "snappy":
		return kgo.SnappyCompression(), nil
	case "lz4":
		return kgo.Lz4Compression(), nil
	case "zstd":
		return kgo.ZstdCompression(), nil
	default:
		return kgo.CompressionCodec{}, fmt.Errorf("unsupported %s %q", PropCompressionType, name)
	}
}

// saslMechanism builds the mechanism from sasl.mechanism and the
// credentials embedded in sasl.jaas.config
func saslMechanism(p *properties.Properties) (sasl.Mechanism, error) {
	user, pass, err := jaasCredentials(p.GetString(PropSASLJAASConfig, ""))
	if err != nil {
		return nil, err
	}

	switch m := strings.ToUpper(strings.TrimSpace(p.GetString(PropSASLMechanism, "PLAIN"))); m {
	case "PLAIN":
		return plain.Auth{User: user, Pass: pass}.AsMechanism(), nil
	case "SCRAM-SHA-256":
		return scram.Auth{User: user, Pass: pass}.AsSha256Mechanism(), nil
	case "SCRAM-SHA-512":
		return scram.Auth{User: user, Pass: pass}.AsSha512Mechanism(), nil
	default:
		return nil, fmt.Errorf("unsupported %s %q", PropSASLMechanism, m)
	}
}

func jaasCredentials(jaas string) (user, pass string, err error) {
	u := jaasUsername.FindStringSubmatch(jaas)
	pw := jaasPassword.FindStringSubmatch(jaas)
	if u == nil || pw == nil {
		return "", "", fmt.Errorf("%s must contain username and password", PropSASLJAASConfig)
	}
	return u[1], pw[1], nil
}

func (s *kafkaSink) Send(ctx context.Context, topic string, value []byte) error {
	return s.cl.ProduceSync(ctx, &kgo.Record{Topic: topic, Value: value}).FirstErr()
}

// SendAsync buffers the record in the client; batching follows linger.ms
func (s *kafkaSink) SendAsync(ctx context.Context, topic string, value []byte, done func(error)) {
	s.cl.Produce(ctx, &kgo.Record{Topic: topic, Value: value}, func(_ *kgo.Record, err error) {
		done(err)
	})
}

// Flush waits until every buffered record has been acknowledged or failed
func (s *kafkaSink) Flush(ctx context.Context) error {
	return s.cl.Flush(ctx)
}

func (s *kafkaSink) Close() error {
	s.cl.Close()
	return nil
}

// kgoLogger forwards franz-go client logs; debug output follows LOG_LEVEL
type kgoLogger struct {
	log *log.Logger
}

func (l kgoLogger) Level() kgo.LogLevel {
	if l.log.GetLogrus().IsLevelEnabled(logrus.DebugLevel) {
		return kgo.LogLevelDebug
	}
	return kgo.LogLevelWarn
}

func (l kgoLogger) Log(level kgo.LogLevel, msg string, keyvals ...interface{}) {
	fields := logrus.Fields{"component": "kafka"}
	for i := 0; i+1 < len(keyvals); i += 2 {
		fields[fmt.Sprint(keyvals[i])] = keyvals[i+1]
	}
	switch level {
	case kgo.LogLevelError:
		l.log.ErrorWithFields(fields, "%s", msg)
	case kgo.LogLevelWarn:
		l.log.WithFields(fields).Warn(msg)
	default:
		l.log.DebugWithFields(fields, "%s", msg)
	}
}
