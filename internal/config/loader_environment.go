package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables overriding the command line
const (
	EnvTopic            = "ES_TOPIC"
	EnvRecordSize       = "ES_RECORD_SIZE"
	EnvNumThreads       = "ES_NUM_THREADS"
	EnvProducerConfig   = "ES_PRODUCER_CONFIG"
	EnvPayloadFile      = "ES_PAYLOAD_FILE"
	EnvPayloadDelimiter = "ES_PAYLOAD_DELIMITER"
	EnvThroughput       = "ES_THROUGHPUT"
	EnvNumRecords       = "ES_NUM_RECORDS"
	EnvSize             = "ES_SIZE"
)

// Env looks up an environment variable; it has the signature of os.LookupEnv
type Env func(key string) (string, bool)

// OSEnv reads the process environment
func OSEnv() Env {
	return os.LookupEnv
}

// MapEnv serves lookups from m
func MapEnv(m map[string]string) Env {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// applyEnv overrides cfg with the environment. Presence, not emptiness,
// decides whether a variable applies.
func applyEnv(cfg *Config, env Env) error {
	loadStringsFromEnv(cfg, env)
	if err := loadIntsFromEnv(cfg, env); err != nil {
		return err
	}
	if err := loadTotalsFromEnv(cfg, env); err != nil {
		return err
	}
	loadSizeFromEnv(cfg, env)
	return nil
}

func loadStringsFromEnv(cfg *Config, env Env) {
	if v, ok := env(EnvTopic); ok {
		cfg.Topic = v
	}
	if v, ok := env(EnvProducerConfig); ok {
		cfg.ConfigFilePath = v
	}
	if v, ok := env(EnvPayloadFile); ok {
		cfg.PayloadFilePath = v
	}
	if v, ok := env(EnvPayloadDelimiter); ok {
		cfg.PayloadDelimiter = v
	}
}

func loadIntsFromEnv(cfg *Config, env Env) error {
	if v, ok, err := getEnvInt(env, EnvRecordSize); err != nil {
		return err
	} else if ok {
		cfg.RecordSize = v
		cfg.recordSizeSet = true
	}
	if v, ok, err := getEnvInt(env, EnvNumThreads); err != nil {
		return err
	} else if ok {
		cfg.NumThreads = v
	}
	return nil
}

func loadTotalsFromEnv(cfg *Config, env Env) error {
	if v, ok, err := getEnvInt(env, EnvThroughput); err != nil {
		return err
	} else if ok {
		cfg.Throughput = v
		cfg.Overrides.Throughput = true
	}
	if v, ok, err := getEnvInt64(env, EnvNumRecords); err != nil {
		return err
	} else if ok {
		cfg.NumRecords = v
		cfg.Overrides.NumRecords = true
	}
	return nil
}

// loadSizeFromEnv only records ES_SIZE; applyEnvSize resolves it
func loadSizeFromEnv(cfg *Config, env Env) {
	if v, ok := env(EnvSize); ok {
		cfg.envSize = v
		cfg.envSizeSet = true
	}
}

// Helper functions for reading environment variables

func getEnvInt(env Env, key string) (int, bool, error) {
	value, ok := env(key)
	if !ok {
		return 0, false, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, &ParseError{Source: key, Err: fmt.Errorf("not a number: %q", value)}
	}
	return intValue, true, nil
}

func getEnvInt64(env Env, key string) (int64, bool, error) {
	value, ok := env(key)
	if !ok {
		return 0, false, nil
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, &ParseError{Source: key, Err: fmt.Errorf("not a number: %q", value)}
	}
	return intValue, true, nil
}
