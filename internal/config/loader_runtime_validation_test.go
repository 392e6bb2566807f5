package config

import (
	"testing"

	"github.com/ibs-source/es-producer/internal/workload"
)

func TestNormalizeDelimiter(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`\n`, "\n"},
		{"\n", "\n"},
		{",", ","},
		{`\r\n`, `\r\n`},
		{"", ""},
	}

	for _, tt := range tests {
		cfg := &Config{PayloadDelimiter: tt.in}
		normalizeDelimiter(cfg)
		if cfg.PayloadDelimiter != tt.want {
			t.Errorf("normalizeDelimiter(%q) = %q; want %q", tt.in, cfg.PayloadDelimiter, tt.want)
		}
	}
}

func TestApplyTierOverrides(t *testing.T) {
	tests := []struct {
		name      string
		size      workload.Tier
		overrides EnvOverrides
		wantSize  workload.Tier
		wantWarn  bool
	}{
		{"no overrides keep tier", workload.TierSmall, EnvOverrides{}, workload.TierSmall, false},
		{"both overrides clear tier", workload.TierSmall, EnvOverrides{true, true}, workload.TierNone, false},
		{"throughput only", workload.TierMedium, EnvOverrides{Throughput: true}, workload.TierNone, true},
		{"records only", workload.TierLarge, EnvOverrides{NumRecords: true}, workload.TierNone, true},
		{"records only without tier", workload.TierNone, EnvOverrides{NumRecords: true}, workload.TierNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Size: tt.size, Overrides: tt.overrides}
			applyTierOverrides(cfg)

			if cfg.Size != tt.wantSize {
				t.Errorf("Size = %q; want %q", cfg.Size, tt.wantSize)
			}
			if got := len(cfg.Warnings) == 1; got != tt.wantWarn {
				t.Errorf("warned = %v; want %v (%v)", got, tt.wantWarn, cfg.Warnings)
			}
		})
	}
}

func TestApplyEnvSize(t *testing.T) {
	tests := []struct {
		name     string
		size     workload.Tier
		envSize  string
		set      bool
		wantSize workload.Tier
		wantWarn bool
	}{
		{"unset keeps tier", workload.TierMedium, "", false, workload.TierMedium, false},
		{"selects tier", workload.TierNone, "small", true, workload.TierSmall, false},
		{"replaces flag tier", workload.TierLarge, "medium", true, workload.TierMedium, false},
		{"empty clears tier", workload.TierSmall, "", true, workload.TierNone, false},
		{"unknown warns and clears", workload.TierSmall, "huge", true, workload.TierNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Size: tt.size, envSize: tt.envSize, envSizeSet: tt.set}
			applyEnvSize(cfg)

			if cfg.Size != tt.wantSize {
				t.Errorf("Size = %q; want %q", cfg.Size, tt.wantSize)
			}
			if got := len(cfg.Warnings) == 1 && cfg.Warnings[0] == WarnInvalidEnvSize; got != tt.wantWarn {
				t.Errorf("warned = %v; want %v (%v)", got, tt.wantWarn, cfg.Warnings)
			}
		})
	}
}

func TestApplyPayloadPrecedence(t *testing.T) {
	cfg := &Config{PayloadFilePath: "p.txt", RecordSize: 10}
	applyPayloadPrecedence(cfg)
	if len(cfg.Warnings) != 0 {
		t.Errorf("default record size should not warn: %v", cfg.Warnings)
	}

	cfg.recordSizeSet = true
	applyPayloadPrecedence(cfg)
	if len(cfg.Warnings) != 1 || cfg.Warnings[0] != WarnPayloadPrecedence {
		t.Errorf("Warnings = %v; want [%s]", cfg.Warnings, WarnPayloadPrecedence)
	}
}
