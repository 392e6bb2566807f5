package perf

import (
	"bytes"
	"testing"

	"github.com/ibs-source/es-producer/internal/log"
	"github.com/magiconair/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

func TestJAASCredentials(t *testing.T) {
	tests := []struct {
		name     string
		jaas     string
		wantUser string
		wantPass string
		wantErr  bool
	}{
		{
			name:     "event streams token",
			jaas:     `org.apache.kafka.common.security.plain.PlainLoginModule required username="token" password="s3cr3t";`,
			wantUser: "token",
			wantPass: "s3cr3t",
		},
		{
			name:     "spaces around equals",
			jaas:     `PlainLoginModule required password = "p" username = "u";`,
			wantUser: "u",
			wantPass: "p",
		},
		{name: "missing password", jaas: `PlainLoginModule required username="u";`, wantErr: true},
		{name: "empty", jaas: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, pass, err := jaasCredentials(tt.jaas)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, user)
			assert.Equal(t, tt.wantPass, pass)
		})
	}
}

func TestAcksOpts(t *testing.T) {
	tests := []struct {
		acks    string
		wantLen int
		wantErr bool
	}{
		{"all", 1, false},
		{"-1", 1, false},
		{"1", 2, false},
		{"0", 2, false},
		{"2", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.acks, func(t *testing.T) {
			opts, err := acksOpts(tt.acks)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, opts, tt.wantLen)
		})
	}
}

func TestCompressionCodec(t *testing.T) {
	for _, name := range []string{"", "none", "gzip", "snappy", "LZ4", "zstd"} {
		_, err := compressionCodec(name)
		assert.NoError(t, err, name)
	}
	_, err := compressionCodec("brotli")
	assert.Error(t, err)
}

func TestKafkaOpts(t *testing.T) {
	logger := log.NewWithOutput(&bytes.Buffer{})

	tests := []struct {
		name    string
		props   string
		wantErr string
	}{
		{name: "defaults", props: ""},
		{name: "plaintext", props: "bootstrap.servers=a:9092, b:9092\nacks=1\ncompression.type=snappy\nlinger.ms=5"},
		{
			name:  "sasl plaintext",
			props: "security.protocol=SASL_PLAINTEXT\nsasl.mechanism=SCRAM-SHA-512\nsasl.jaas.config=x username=\"u\" password=\"p\";",
		},
		{name: "empty bootstrap", props: "bootstrap.servers= , ", wantErr: "must not be empty"},
		{name: "bad protocol", props: "security.protocol=KERBEROS", wantErr: "unsupported security.protocol"},
		{name: "bad mechanism", props: "security.protocol=SASL_PLAINTEXT\nsasl.mechanism=GSSAPI\nsasl.jaas.config=username=\"u\" password=\"p\"", wantErr: "unsupported sasl.mechanism"},
		{name: "sasl without credentials", props: "security.protocol=SASL_PLAINTEXT", wantErr: "sasl.jaas.config"},
		{name: "jks truststore", props: "security.protocol=SSL\nssl.truststore.location=store.jks", wantErr: "not PEM"},
		{name: "bad acks", props: "acks=some", wantErr: "unsupported acks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := properties.MustLoadString(tt.props)
			opts, err := kafkaOpts(p, logger)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, opts)
		})
	}
}

func TestNewKafkaSink_ClientCreation(t *testing.T) {
	// kgo.NewClient does not dial until the first request
	sink, err := newKafkaSink(properties.MustLoadString("bootstrap.servers=127.0.0.1:1"), log.NewWithOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.NoError(t, sink.Close())
}

func TestKgoLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	var buf bytes.Buffer
	l := kgoLogger{log: log.NewWithOutput(&buf)}

	assert.Equal(t, kgo.LogLevelWarn, l.Level())
	l.Log(kgo.LogLevelError, "metadata failed", "broker", "seed_0", "err", "refused")

	out := buf.String()
	assert.Contains(t, out, "metadata failed")
	assert.Contains(t, out, "broker=seed_0")
	assert.Contains(t, out, "component=kafka")
}

func TestKgoLogger_DebugLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	l := kgoLogger{log: log.NewWithOutput(&bytes.Buffer{})}

	assert.Equal(t, kgo.LogLevelDebug, l.Level())
}
