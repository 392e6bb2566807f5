package perf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/ibs-source/es-producer/internal/log"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Runner produces records in-process. One Runner is shared by all workers;
// each Run call owns its own sink and statistics.
type Runner struct {
	log            *log.Logger
	out            io.Writer
	mu             sync.Mutex
	newSink        SinkFactory
	reportInterval time.Duration
	now            func() time.Time
	seed           func() int64
}

// Option configures a Runner
type Option func(*Runner)

// WithSinkFactory replaces the driver-based sink selection
func WithSinkFactory(f SinkFactory) Option {
	return func(r *Runner) { r.newSink = f }
}

// WithReportInterval sets how often a window line is printed
func WithReportInterval(d time.Duration) Option {
	return func(r *Runner) { r.reportInterval = d }
}

// NewRunner creates a runner printing its report lines to out
func NewRunner(logger *log.Logger, out io.Writer, opts ...Option) *Runner {
	r := &Runner{
		log:            logger,
		out:            out,
		newSink:        NewSink,
		reportInterval: defaultReportInterval,
		now:            time.Now,
		seed:           func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run parses args, sends NumRecords records and prints the statistics.
// It returns an error when setup fails, the context is cancelled or any
// record could not be delivered.
func (r *Runner) Run(ctx context.Context, args []string) error {
	o, err := ParseArgs(args)
	if err != nil {
		return err
	}
	props, err := LoadProperties(o.ConfigPath)
	if err != nil {
		return err
	}
	// #nosec G404 - payload content only
	next, err := newPayloadSource(o, rand.New(rand.NewSource(r.seed())))
	if err != nil {
		return err
	}

	sink, err := r.newSink(ctx, props, r.log)
	if err != nil {
		return fmt.Errorf("failed to create %s sink: %w", driverOf(props), err)
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			r.log.Warn("failed to close sink: %v", cerr)
		}
	}()

	snap, err := r.produce(ctx, o, sink, next)
	if o.PrintMetrics {
		r.printf("%s\n", snap.MetricsJSON())
	}
	if err != nil {
		return err
	}
	if snap.Errors > 0 {
		return fmt.Errorf("%d of %d records failed", snap.Errors, o.NumRecords)
	}
	return nil
}

// produce is the send loop; it always returns the statistics gathered so far.
// Sinks implementing AsyncSink keep records in flight and are flushed before
// the final snapshot.
func (r *Runner) produce(ctx context.Context, o Options, sink Sink, next payloadSource) (Snapshot, error) {
	limiter := newLimiter(o.Throughput)
	st := newStats(o.Topic, o.NumRecords, r.reportInterval, r.now, r.printf)
	fields := logrus.Fields{"topic": o.Topic, "records": o.NumRecords, "throughput": o.Throughput}
	failures := &sendFailures{log: r.log, fields: fields}
	async, _ := sink.(AsyncSink)
	r.log.DebugWithFields(fields, "Producing (async=%v)", async != nil)

	var loopErr error
	for i := int64(0); i < o.NumRecords; i++ {
		if err := limiter.Wait(ctx); err != nil {
			loopErr = err
			break
		}
		payload := next()
		start := r.now()
		if async != nil {
			size := len(payload)
			async.SendAsync(ctx, o.Topic, payload, func(err error) {
				st.record(r.now().Sub(start), size, err)
				if err != nil && ctx.Err() == nil {
					failures.report(err)
				}
			})
			continue
		}
		err := sink.Send(ctx, o.Topic, payload)
		st.record(r.now().Sub(start), len(payload), err)
		if err != nil {
			if ctx.Err() != nil {
				loopErr = ctx.Err()
				break
			}
			failures.report(err)
		}
	}

	if async != nil {
		if err := async.Flush(ctx); err != nil && loopErr == nil {
			loopErr = err
		}
	}

	snap := st.snapshot()
	st.printTotal(snap)
	return snap, loopErr
}

// sendFailures logs a send error unless it repeats the previous one
type sendFailures struct {
	mu     sync.Mutex
	log    *log.Logger
	fields logrus.Fields
	last   string
}

func (f *sendFailures) report(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg := err.Error(); msg != f.last {
		f.log.ErrorWithFields(f.fields, "Send failed: %v", err)
		f.last = msg
	}
}

// newLimiter allows throughput records per second; zero or negative is
// unlimited
func newLimiter(throughput int) *rate.Limiter {
	if throughput <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(throughput), 1)
}

func (r *Runner) printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// ExecRunner runs an external performance tool once per worker, appending
// the worker arguments to Command
type ExecRunner struct {
	Command []string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Run starts the command and waits for it to exit
func (e ExecRunner) Run(ctx context.Context, args []string) error {
	if len(e.Command) == 0 {
		return errors.New("no performance command configured")
	}
	argv := append(append([]string(nil), e.Command[1:]...), args...)
	cmd := exec.CommandContext(ctx, e.Command[0], argv...) // #nosec G204 - operator supplied command
	cmd.Stdout = writerOr(e.Stdout, os.Stdout)
	cmd.Stderr = writerOr(e.Stderr, os.Stderr)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", e.Command[0], err)
	}
	return nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
