package config

import (
	"testing"

	"github.com/ibs-source/es-producer/internal/workload"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"Topic", cfg.Topic, ""},
		{"ConfigFilePath", cfg.ConfigFilePath, "producer.config"},
		{"NumRecords", cfg.NumRecords, int64(60000)},
		{"Throughput", cfg.Throughput, -1},
		{"RecordSize", cfg.RecordSize, 100},
		{"PayloadFilePath", cfg.PayloadFilePath, ""},
		{"PayloadDelimiter", cfg.PayloadDelimiter, `\n`},
		{"NumThreads", cfg.NumThreads, 1},
		{"Size", cfg.Size, workload.TierNone},
		{"PrintMetrics", cfg.PrintMetrics, false},
		{"GenConfig", cfg.GenConfig, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("defaultConfig() %s = %v; want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestDefaultConfig_Independent(t *testing.T) {
	a := defaultConfig()
	b := defaultConfig()
	a.Topic = "changed"
	if b.Topic != "" {
		t.Error("defaultConfig() instances share state")
	}
}
