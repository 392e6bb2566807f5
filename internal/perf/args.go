// Package perf is the performance runner each producer worker invokes. It
// sends a fixed number of records to one topic at a target rate and prints
// throughput and latency statistics.
package perf

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// Options is the parsed runner argument vector
type Options struct {
	Topic            string
	NumRecords       int64
	Throughput       int
	ConfigPath       string
	PrintMetrics     bool
	RecordSize       int
	PayloadFile      string
	PayloadDelimiter string
}

// ParseArgs parses the argument vector built by the dispatcher
func ParseArgs(args []string) (Options, error) {
	var o Options
	fs := pflag.NewFlagSet("perf", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.Topic, "topic", "", "topic to produce to")
	fs.Int64Var(&o.NumRecords, "num-records", 0, "number of records to produce")
	fs.IntVar(&o.Throughput, "throughput", -1, "maximum records per second, -1 for no limit")
	fs.StringVar(&o.ConfigPath, "producer.config", "", "producer configuration properties file")
	fs.BoolVar(&o.PrintMetrics, "print-metrics", false, "print metrics at the end of the run")
	fs.IntVar(&o.RecordSize, "record-size", 0, "size of each record in bytes")
	fs.StringVar(&o.PayloadFile, "payload-file", "", "file to read record payloads from")
	fs.StringVar(&o.PayloadDelimiter, "payload-delimiter", "\n", "delimiter between payloads in the payload file")

	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("invalid runner arguments: %w", err)
	}
	if fs.NArg() > 0 {
		return Options{}, fmt.Errorf("unexpected runner arguments: %v", fs.Args())
	}
	if err := o.validate(fs.Changed("record-size")); err != nil {
		return Options{}, err
	}
	return o, nil
}

func (o Options) validate(recordSizeSet bool) error {
	if o.Topic == "" {
		return errors.New("--topic is required")
	}
	if o.ConfigPath == "" {
		return errors.New("--producer.config is required")
	}
	if o.NumRecords < 0 {
		return fmt.Errorf("--num-records must not be negative, got %d", o.NumRecords)
	}
	switch {
	case recordSizeSet && o.PayloadFile != "":
		return errors.New("--record-size and --payload-file are mutually exclusive")
	case !recordSizeSet && o.PayloadFile == "":
		return errors.New("either --record-size or --payload-file is required")
	case recordSizeSet && o.RecordSize <= 0:
		return fmt.Errorf("--record-size must be positive, got %d", o.RecordSize)
	}
	return nil
}
