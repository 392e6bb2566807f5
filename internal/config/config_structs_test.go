package config

import (
	"testing"

	"github.com/ibs-source/es-producer/internal/workload"
)

func TestConfig_Totals(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want workload.Totals
	}{
		{"defaults", *defaultConfig(), workload.Totals{NumRecords: DefaultNumRecords, Throughput: DefaultThroughput}},
		{"explicit", Config{NumRecords: 42, Throughput: 7}, workload.Totals{NumRecords: 42, Throughput: 7}},
		{"tier ignored", Config{NumRecords: 5, Throughput: 3, Size: workload.TierLarge}, workload.Totals{NumRecords: 5, Throughput: 3}},
		{"zero", Config{}, workload.Totals{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Totals(); got != tt.want {
				t.Errorf("Totals() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestConfig_UsesPayloadFile(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"no payload file", Config{RecordSize: 100}, false},
		{"payload file", Config{PayloadFilePath: "p.txt"}, true},
		{"payload file with record size", Config{PayloadFilePath: "p.txt", RecordSize: 10, recordSizeSet: true}, true},
		{"record size absent", Config{RecordSize: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.UsesPayloadFile(); got != tt.want {
				t.Errorf("UsesPayloadFile() = %v; want %v", got, tt.want)
			}
		})
	}
}
