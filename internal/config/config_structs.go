// Package config resolves the producer configuration from defaults, command
// line flags and environment variables, and validates it before dispatch.
package config

import "github.com/ibs-source/es-producer/internal/workload"

// Config holds the resolved producer configuration
type Config struct {
	Topic            string
	ConfigFilePath   string
	NumRecords       int64
	Throughput       int
	RecordSize       int    // <= 0 means absent
	PayloadFilePath  string // empty means absent
	PayloadDelimiter string
	NumThreads       int
	Size             workload.Tier
	PrintMetrics     bool
	GenConfig        bool

	// Overrides records which workload totals came from the environment
	Overrides EnvOverrides

	// Warnings holds message keys of non-fatal inconsistencies found while
	// resolving; callers translate and log them.
	Warnings []string

	recordSizeSet bool

	// envSize holds the raw ES_SIZE value; it is resolved after the
	// command line tier has been reconciled with the env totals.
	envSize    string
	envSizeSet bool
}

// EnvOverrides flags the workload totals overridden by the environment
type EnvOverrides struct {
	Throughput bool
	NumRecords bool
}

// Totals returns the pre-partition workload carried by the configuration
func (c *Config) Totals() workload.Totals {
	return workload.Totals{NumRecords: c.NumRecords, Throughput: c.Throughput}
}

// UsesPayloadFile reports whether records come from the payload file rather
// than being generated with RecordSize bytes.
func (c *Config) UsesPayloadFile() bool {
	return c.PayloadFilePath != ""
}
