package config

import "github.com/ibs-source/es-producer/internal/workload"

// Defaults used by the tool
const (
	DefaultProducerConfig   = "producer.config"
	DefaultNumRecords       = int64(60000)
	DefaultThroughput       = -1
	DefaultPayloadDelimiter = `\n`
	DefaultNumThreads       = 1
	DefaultRecordSize       = 100
)

// defaultConfig returns a configuration with all default values
func defaultConfig() *Config {
	return &Config{
		ConfigFilePath:   DefaultProducerConfig,
		NumRecords:       DefaultNumRecords,
		Throughput:       DefaultThroughput,
		RecordSize:       DefaultRecordSize,
		PayloadDelimiter: DefaultPayloadDelimiter,
		NumThreads:       DefaultNumThreads,
		Size:             workload.TierNone,
	}
}
