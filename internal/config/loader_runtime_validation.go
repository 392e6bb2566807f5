package config

import "github.com/ibs-source/es-producer/internal/workload"

// Warning message keys recorded in Config.Warnings
const (
	WarnPartialEnvOverride = "producer.envar.warning"
	WarnPayloadPrecedence  = "producer.envar.payloadPrecedence"
	WarnInvalidEnvSize     = "producer.envar.invalidSize"
)

// applyRuntimeNormalization resolves interactions between settings once all
// sources are merged
func applyRuntimeNormalization(cfg *Config) {
	normalizeDelimiter(cfg)
	applyTierOverrides(cfg)
	applyEnvSize(cfg)
	applyPayloadPrecedence(cfg)
}

// normalizeDelimiter turns the two-character literal \n into a newline
func normalizeDelimiter(cfg *Config) {
	if cfg.PayloadDelimiter == `\n` {
		cfg.PayloadDelimiter = "\n"
	}
}

// applyTierOverrides clears the size tier when the environment overrides
// throughput or the record count. A single override while a tier is set is
// reported as a warning.
func applyTierOverrides(cfg *Config) {
	o := cfg.Overrides
	if !o.Throughput && !o.NumRecords {
		return
	}
	if o.Throughput != o.NumRecords && cfg.Size != workload.TierNone {
		cfg.Warnings = append(cfg.Warnings, WarnPartialEnvOverride)
	}
	cfg.Size = workload.TierNone
}

// applyEnvSize applies ES_SIZE after the overrides rule, so a tier chosen
// through the environment wins over ES_THROUGHPUT and ES_NUM_RECORDS. An
// unknown tier is reported and leaves the workload without a preset.
func applyEnvSize(cfg *Config) {
	if !cfg.envSizeSet {
		return
	}
	tier, err := workload.ParseTier(cfg.envSize)
	if err != nil {
		cfg.Warnings = append(cfg.Warnings, WarnInvalidEnvSize)
		cfg.Size = workload.TierNone
		return
	}
	cfg.Size = tier
}

// applyPayloadPrecedence notes that a payload file shadows an explicit
// record size
func applyPayloadPrecedence(cfg *Config) {
	if cfg.UsesPayloadFile() && cfg.recordSizeSet {
		cfg.Warnings = append(cfg.Warnings, WarnPayloadPrecedence)
	}
}
