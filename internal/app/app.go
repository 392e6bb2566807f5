// Package app wires configuration, localization and dispatch into the
// es-producer command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ibs-source/es-producer/internal/config"
	"github.com/ibs-source/es-producer/internal/configgen"
	"github.com/ibs-source/es-producer/internal/dispatch"
	"github.com/ibs-source/es-producer/internal/i18n"
	"github.com/ibs-source/es-producer/internal/log"
	"github.com/ibs-source/es-producer/internal/perf"
)

// EnvPerfCommand selects an external performance tool instead of the
// in-process runner
const EnvPerfCommand = "ES_PERF_COMMAND"

// Exit codes
const (
	ExitOK         = 0
	ExitParseError = 1
)

// Options are the process collaborators. Zero values fall back to the
// process environment and standard streams.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Env    config.Env
	Logger *log.Logger
	Runner dispatch.Runner
	Dir    string
}

func (o *Options) setDefaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Env == nil {
		o.Env = config.OSEnv()
	}
	if o.Logger == nil {
		o.Logger = log.New()
	}
	if o.Dir == "" {
		o.Dir = "."
	}
}

// Run executes one es-producer invocation and returns the exit code
func Run(ctx context.Context, args []string, o Options) int {
	o.setDefaults()
	logger := o.Logger

	bundle, err := i18n.Load(i18n.DetectLocale(o.Env))
	if err != nil {
		logger.Error("Failed to load messages: %v", err)
		return ExitParseError
	}
	msgs := bundle.Messages

	parser := config.NewParser(msgs)
	cfg, err := config.Load(parser, args, o.Env)
	if err != nil {
		return handleLoadError(err, parser, msgs, o)
	}

	for _, key := range cfg.Warnings {
		logger.Warn("%s", msgs.Get(key))
	}

	if cfg.GenConfig {
		return generateConfig(bundle, o)
	}

	logConfig(cfg, logger)
	runner := o.Runner
	if runner == nil {
		runner = selectRunner(o)
	}
	dispatch.New(runner, logger).Dispatch(ctx, cfg)
	return ExitOK
}

func handleLoadError(err error, parser *config.Parser, msgs i18n.Catalog, o Options) int {
	var validationErr *config.ValidationError
	var parseErr *config.ParseError

	switch {
	case errors.Is(err, config.ErrHelp):
		_, _ = fmt.Fprint(o.Stdout, parser.Usage())
		return ExitOK
	case errors.As(err, &validationErr):
		_, _ = fmt.Fprintln(o.Stdout, msgs.Get(validationErr.MessageKey))
		_, _ = fmt.Fprintln(o.Stdout)
		_, _ = fmt.Fprint(o.Stdout, parser.Usage())
		return ExitOK
	case errors.As(err, &parseErr):
		_, _ = fmt.Fprintf(o.Stderr, "es-producer: error: %v\n", parseErr)
		return ExitParseError
	default:
		o.Logger.Error("Failed to load configuration: %v", err)
		return ExitParseError
	}
}

func generateConfig(bundle *i18n.Bundle, o Options) int {
	path, err := configgen.Generate(o.Dir, bundle.Config)
	if err != nil {
		_, _ = fmt.Fprintln(o.Stderr, bundle.Messages.Get("producer.fileGenerationFail"))
		o.Logger.Error("Failed to generate configuration file: %v", err)
		return ExitOK
	}
	_, _ = fmt.Fprintln(o.Stdout, bundle.Messages.Get("producer.fileGenerated"))
	o.Logger.Debug("Configuration file written to %s", path)
	return ExitOK
}

// selectRunner returns the external tool runner when ES_PERF_COMMAND is set,
// the in-process runner otherwise
func selectRunner(o Options) dispatch.Runner {
	if v, ok := o.Env(EnvPerfCommand); ok {
		if command := strings.Fields(v); len(command) > 0 {
			o.Logger.Info("Using external performance command %s", command[0])
			return perf.ExecRunner{Command: command, Stdout: o.Stdout, Stderr: o.Stderr}
		}
	}
	return perf.NewRunner(o.Logger, o.Stdout)
}

func logConfig(cfg *config.Config, logger *log.Logger) {
	logger.Info("Topic: %s, producer config: %s", cfg.Topic, cfg.ConfigFilePath)
	if cfg.Size != "" {
		logger.Info("Workload: size %s, threads %d", cfg.Size, cfg.NumThreads)
	} else {
		logger.Info("Workload: %d records, throughput %d, threads %d", cfg.NumRecords, cfg.Throughput, cfg.NumThreads)
	}
	if cfg.UsesPayloadFile() {
		logger.Info("Payload: file %s, delimiter %q", cfg.PayloadFilePath, cfg.PayloadDelimiter)
	} else {
		logger.Info("Payload: %d byte records", cfg.RecordSize)
	}
}
