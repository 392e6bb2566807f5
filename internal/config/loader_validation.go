package config

// Validate checks configuration constraints. The first failing check wins.
func Validate(cfg *Config) error {
	if err := validateRequired(cfg); err != nil {
		return err
	}
	if cfg.NumThreads < 1 {
		return &ValidationError{Err: ErrInvalidThreadCount, MessageKey: "producer.invalidThreads"}
	}
	if cfg.Throughput == 0 || cfg.Throughput < -1 {
		return &ValidationError{Err: ErrInvalidThroughput, MessageKey: "producer.invalidThroughput"}
	}
	return nil
}

// validateRequired checks topic, config file and payload source
func validateRequired(cfg *Config) error {
	hasPayload := cfg.RecordSize > 0 || cfg.PayloadFilePath != ""
	if cfg.Topic == "" || cfg.ConfigFilePath == "" || !hasPayload {
		return &ValidationError{Err: ErrMissingRequired, MessageKey: "producer.argsMissing"}
	}
	return nil
}
