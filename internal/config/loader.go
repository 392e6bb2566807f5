package config

// Load resolves the configuration with precedence: defaults → command line
// flags → environment variables. Validation is skipped in --gen-config mode.
func Load(p *Parser, args []string, env Env) (*Config, error) {
	// Step 1 and 2: defaults, then command line flags
	cfg, err := p.Parse(args)
	if err != nil {
		return nil, err
	}

	// Step 3: environment variables (highest precedence)
	if err := applyEnv(cfg, env); err != nil {
		return nil, err
	}

	// Step 4: runtime normalization
	applyRuntimeNormalization(cfg)

	if cfg.GenConfig {
		return cfg, nil
	}

	// Step 5: validate the final configuration
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
