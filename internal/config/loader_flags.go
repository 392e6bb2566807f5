package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ibs-source/es-producer/internal/i18n"
	"github.com/ibs-source/es-producer/internal/workload"
	"github.com/spf13/pflag"
)

// Flag names
const (
	flagGenConfig        = "gen-config"
	flagTopic            = "topic"
	flagProducerConfig   = "producer-config"
	flagSize             = "size"
	flagNumRecords       = "num-records"
	flagThroughput       = "throughput"
	flagPayloadDelimiter = "payload-delimiter"
	flagPrintMetrics     = "print-metrics"
	flagNumThreads       = "num-threads"
	flagRecordSize       = "record-size"
	flagPayloadFile      = "payload-file"
	flagHelp             = "help"
)

// flagValues receives the parsed command line
type flagValues struct {
	genConfig        bool
	topic            string
	producerConfig   string
	size             string
	numRecords       int64
	throughput       int
	payloadDelimiter string
	printMetrics     bool
	numThreads       int
	recordSize       int
	payloadFile      string
	help             bool
}

// flagGroup is a titled section of the help text
type flagGroup struct {
	title string
	fs    *pflag.FlagSet
}

// Parser owns the command line definition. Help strings come from the
// injected message catalog.
type Parser struct {
	fs     *pflag.FlagSet
	groups []flagGroup
	values flagValues
	msgs   i18n.Catalog
}

// NewParser builds the es-producer command line
func NewParser(msgs i18n.Catalog) *Parser {
	p := &Parser{msgs: msgs}
	v := &p.values

	genCfg := newGroupSet()
	genCfg.BoolVarP(&v.genConfig, flagGenConfig, "g", false, msgs.Get("producer.genConfig.help"))

	required := newGroupSet()
	required.StringVarP(&v.topic, flagTopic, "t", "", msgs.Get("producer.topic.help"))
	required.StringVarP(&v.producerConfig, flagProducerConfig, "c", DefaultProducerConfig,
		msgs.Get("producer.producerConfigFile.help"))

	general := newGroupSet()
	general.StringVarP(&v.size, flagSize, "s", "", msgs.Get("producer.size.help"))
	general.Int64VarP(&v.numRecords, flagNumRecords, "n", DefaultNumRecords, msgs.Get("producer.numRecords.help"))
	general.IntVarP(&v.throughput, flagThroughput, "T", DefaultThroughput, msgs.Get("producer.throughput.help"))
	general.StringVarP(&v.payloadDelimiter, flagPayloadDelimiter, "d", DefaultPayloadDelimiter,
		msgs.Get("producer.payloadDelimiter.help"))
	general.BoolVarP(&v.printMetrics, flagPrintMetrics, "m", false, msgs.Get("producer.printMetrics.help"))
	general.IntVarP(&v.numThreads, flagNumThreads, "x", DefaultNumThreads, msgs.Get("producer.numThreads.help"))
	general.BoolVarP(&v.help, flagHelp, "h", false, msgs.Get("producer.help.help"))

	payload := newGroupSet()
	payload.IntVarP(&v.recordSize, flagRecordSize, "r", DefaultRecordSize, msgs.Get("producer.recordSize.help"))
	payload.StringVarP(&v.payloadFile, flagPayloadFile, "f", "", msgs.Get("producer.payloadFile.help"))

	p.groups = []flagGroup{
		{title: msgs.Get("producer.configSection"), fs: genCfg},
		{title: msgs.Get("producer.requiredConfigSection"), fs: required},
		{title: msgs.Get("producer.generalConfigSection"), fs: general},
		{title: msgs.Get("producer.payload.options"), fs: payload},
	}

	p.fs = pflag.NewFlagSet("es-producer", pflag.ContinueOnError)
	p.fs.SetOutput(io.Discard)
	p.fs.SortFlags = false
	for _, g := range p.groups {
		p.fs.AddFlagSet(g.fs)
	}
	return p
}

func newGroupSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("", pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

// Parse applies the command line over the defaults
func (p *Parser) Parse(args []string) (*Config, error) {
	if err := p.fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, &ParseError{Source: "command line", Err: err}
	}
	if p.values.help {
		return nil, ErrHelp
	}
	if rest := p.fs.Args(); len(rest) > 0 {
		return nil, &ParseError{
			Source: "command line",
			Err:    fmt.Errorf("unrecognized arguments: %s", strings.Join(rest, " ")),
		}
	}
	if p.isFlagSet(flagRecordSize) && p.isFlagSet(flagPayloadFile) {
		return nil, &ParseError{
			Source: "command line",
			Err:    fmt.Errorf("argument --%s: not allowed with argument --%s", flagPayloadFile, flagRecordSize),
		}
	}

	cfg := defaultConfig()
	if err := p.applyFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies explicitly set flags into cfg
func (p *Parser) applyFlags(cfg *Config) error {
	v := &p.values

	if p.isFlagSet(flagGenConfig) {
		cfg.GenConfig = v.genConfig
	}
	if p.isFlagSet(flagTopic) {
		cfg.Topic = v.topic
	}
	if p.isFlagSet(flagProducerConfig) {
		cfg.ConfigFilePath = v.producerConfig
	}
	if p.isFlagSet(flagSize) {
		tier, err := workload.ParseTier(v.size)
		if err != nil {
			return &ParseError{Source: "command line", Err: fmt.Errorf("argument --%s: %w", flagSize, err)}
		}
		cfg.Size = tier
	}
	if p.isFlagSet(flagNumRecords) {
		cfg.NumRecords = v.numRecords
	}
	if p.isFlagSet(flagThroughput) {
		cfg.Throughput = v.throughput
	}
	if p.isFlagSet(flagPayloadDelimiter) {
		cfg.PayloadDelimiter = v.payloadDelimiter
	}
	if p.isFlagSet(flagPrintMetrics) {
		cfg.PrintMetrics = v.printMetrics
	}
	if p.isFlagSet(flagNumThreads) {
		cfg.NumThreads = v.numThreads
	}
	if p.isFlagSet(flagRecordSize) {
		cfg.RecordSize = v.recordSize
		cfg.recordSizeSet = true
	}
	if p.isFlagSet(flagPayloadFile) {
		cfg.PayloadFilePath = v.payloadFile
	}
	return nil
}

// isFlagSet checks if a flag was explicitly set on the command line
func (p *Parser) isFlagSet(name string) bool {
	return p.fs.Changed(name)
}

// Usage renders the localized help text, one section per flag group
func (p *Parser) Usage() string {
	var b strings.Builder
	b.WriteString(p.msgs.Get("producer.usage"))
	b.WriteString("\n\n")
	b.WriteString(p.msgs.Get("producer.summary"))
	b.WriteString("\n")
	for _, g := range p.groups {
		b.WriteString("\n")
		b.WriteString(g.title)
		b.WriteString(":\n")
		b.WriteString(g.fs.FlagUsages())
	}
	return b.String()
}
