package perf

import (
	"context"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/ibs-source/es-producer/internal/log"
	"github.com/magiconair/properties"
)

// MQTT sink property keys
const (
	PropMQTTBroker            = "mqtt.broker"
	PropMQTTClientID          = "mqtt.client.id"
	PropMQTTQoS               = "mqtt.qos"
	PropMQTTUsername          = "mqtt.username"
	PropMQTTPassword          = "mqtt.password"
	PropMQTTConnectTimeoutMs  = "mqtt.connect.timeout.ms"
	PropMQTTWriteTimeoutMs    = "mqtt.write.timeout.ms"
	PropMQTTDisconnectTimeout = "mqtt.disconnect.timeout.ms"
	PropMQTTTLSEnabled        = "mqtt.tls.enabled"
	PropMQTTTLSCACert         = "mqtt.tls.ca"
	PropMQTTTLSClientCert     = "mqtt.tls.cert"
	PropMQTTTLSClientKey      = "mqtt.tls.key"
	PropMQTTTLSInsecureSkip   = "mqtt.tls.insecure.skip"
)

// mqttSettings is the MQTT part of producer.config
type mqttSettings struct {
	Broker            string
	ClientID          string
	Username          string
	Password          string
	QoS               byte
	ConnectTimeout    time.Duration
	WriteTimeout      time.Duration
	DisconnectTimeout uint
	TLSEnabled        bool
	TLS               tlsOptions
}

func mqttSettingsFrom(p *properties.Properties) (mqttSettings, error) {
	qos := p.GetInt(PropMQTTQoS, 0)
	if qos < 0 || qos > 2 {
		return mqttSettings{}, fmt.Errorf("%s must be 0, 1 or 2, got %d", PropMQTTQoS, qos)
	}
	return mqttSettings{
		Broker:            p.GetString(PropMQTTBroker, "tcp://localhost:1883"),
		ClientID:          p.GetString(PropMQTTClientID, "es-producer"),
		Username:          p.GetString(PropMQTTUsername, ""),
		Password:          p.GetString(PropMQTTPassword, ""),
		QoS:               byte(qos),
		ConnectTimeout:    getMillis(p, PropMQTTConnectTimeoutMs, 10*time.Second),
		WriteTimeout:      getMillis(p, PropMQTTWriteTimeoutMs, 30*time.Second),
		DisconnectTimeout: p.GetUint(PropMQTTDisconnectTimeout, 1000),
		TLSEnabled:        p.GetBool(PropMQTTTLSEnabled, false),
		TLS: tlsOptions{
			CACert:       p.GetString(PropMQTTTLSCACert, ""),
			ClientCert:   p.GetString(PropMQTTTLSClientCert, ""),
			ClientKey:    p.GetString(PropMQTTTLSClientKey, ""),
			InsecureSkip: p.GetBool(PropMQTTTLSInsecureSkip, false),
		},
	}, nil
}

// uniqueClientID suffixes the configured id so concurrent workers and
// processes never share a session
func uniqueClientID(base string) string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s-%s-%d-%s", base, hostname, os.Getpid(), uuid.NewString()[:8])
}

type mqttSink struct {
	client            mqtt.Client
	qos               byte
	writeTimeout      time.Duration
	disconnectTimeout uint
}

func newMQTTSink(p *properties.Properties, logger *log.Logger) (*mqttSink, error) {
	cfg, err := mqttSettingsFrom(p)
	if err != nil {
		return nil, err
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(uniqueClientID(cfg.ClientID))
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetWriteTimeout(cfg.WriteTimeout)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetMessageChannelDepth(10000)
	opts.SetOrderMatters(false)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		if err != nil {
			logger.WithField("broker", cfg.Broker).Errorf("MQTT connection lost: %v", err)
		}
	})
	opts.SetReconnectingHandler(func(_ mqtt.Client, _ *mqtt.ClientOptions) {
		logger.Info("MQTT reconnecting...")
	})

	if cfg.TLSEnabled {
		tlsConfig, err := newTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		opts.SetTLSConfig(tlsConfig)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.ConnectTimeout) {
		return nil, fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT: %w", err)
	}
	logger.Debug("MQTT connected to %s", cfg.Broker)

	return &mqttSink{
		client:            client,
		qos:               cfg.QoS,
		writeTimeout:      cfg.WriteTimeout,
		disconnectTimeout: cfg.DisconnectTimeout,
	}, nil
}

// Send publishes value on topic and waits for the broker according to QoS
func (s *mqttSink) Send(ctx context.Context, topic string, value []byte) error {
	token := s.client.Publish(topic, s.qos, false, value)

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt publish failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.writeTimeout):
		return fmt.Errorf("mqtt publish timeout")
	}
}

// Close disconnects from the MQTT broker
func (s *mqttSink) Close() error {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(s.disconnectTimeout)
	}
	return nil
}
