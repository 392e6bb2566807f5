// Package dispatch fans the resolved workload out to producer workers, each
// invoking the performance runner with its own argument vector.
package dispatch

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ibs-source/es-producer/internal/config"
	"github.com/ibs-source/es-producer/internal/log"
	"github.com/ibs-source/es-producer/internal/workload"
	"github.com/sirupsen/logrus"
)

// Runner is the performance runner invoked by every worker
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// Dispatcher starts one worker per configured thread
type Dispatcher struct {
	runner Runner
	log    *log.Logger
}

// Result is the outcome of one worker
type Result struct {
	Name       string
	Assignment workload.Assignment
	Args       []string
	Err        error
	Elapsed    time.Duration
}

// Summary collects the results of one dispatch, ordered by worker index
type Summary struct {
	RunID   string
	Results []Result
}

// Failed returns the number of workers whose runner returned an error
func (s Summary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// New creates a dispatcher around runner
func New(runner Runner, logger *log.Logger) *Dispatcher {
	return &Dispatcher{runner: runner, log: logger}
}

// worker is the unit handed to a goroutine; it is built per iteration and
// run exactly once
type worker struct {
	name       string
	assignment workload.Assignment
	args       []string
}

// Dispatch spawns cfg.NumThreads workers and waits for all of them. Worker
// failures are logged and recorded; they never stop sibling workers.
func (d *Dispatcher) Dispatch(ctx context.Context, cfg *config.Config) Summary {
	summary := Summary{
		RunID:   uuid.NewString(),
		Results: make([]Result, cfg.NumThreads),
	}
	d.log.InfoWithFields(logrus.Fields{
		"run":     summary.RunID,
		"topic":   cfg.Topic,
		"threads": cfg.NumThreads,
		"size":    string(cfg.Size),
	}, "Starting %d producer workers", cfg.NumThreads)

	var wg sync.WaitGroup
	for i := 0; i < cfg.NumThreads; i++ {
		a := workload.Partition(cfg.Totals(), i, cfg.NumThreads, cfg.Size)
		w := worker{
			name:       fmt.Sprintf("producer%d", i),
			assignment: a,
			args:       BuildArgs(cfg, a),
		}
		d.startWorker(ctx, &wg, summary.RunID, w, &summary.Results[i])
	}
	wg.Wait()

	if failed := summary.Failed(); failed > 0 {
		d.log.Warn("%d of %d producer workers failed", failed, cfg.NumThreads)
	} else {
		d.log.Info("All %d producer workers completed", cfg.NumThreads)
	}
	return summary
}

// startWorker runs w in its own goroutine and stores the outcome in res
func (d *Dispatcher) startWorker(ctx context.Context, wg *sync.WaitGroup, runID string, w worker, res *Result) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		start := time.Now()
		err := d.invoke(ctx, w)
		*res = Result{
			Name:       w.name,
			Assignment: w.assignment,
			Args:       w.args,
			Err:        err,
			Elapsed:    time.Since(start),
		}

		fields := logrus.Fields{"run": runID, "worker": w.name, "records": w.assignment.Records}
		if err != nil {
			d.log.ErrorWithFields(fields, "Failed to execute: %v", err)
			return
		}
		d.log.DebugWithFields(fields, "Worker finished in %v", res.Elapsed)
	}()
}

// invoke calls the runner, turning a panic into an error so that one
// worker cannot take the process down
func (d *Dispatcher) invoke(ctx context.Context, w worker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("runner panic: %v", r)
		}
	}()
	return d.runner.Run(ctx, w.args)
}

// BuildArgs builds the runner argument vector for one worker
func BuildArgs(cfg *config.Config, a workload.Assignment) []string {
	args := []string{
		"--topic", cfg.Topic,
		"--num-records", strconv.FormatInt(a.Records, 10),
		"--throughput", strconv.Itoa(a.Throughput),
		"--producer.config", cfg.ConfigFilePath,
	}

	if cfg.PrintMetrics {
		args = append(args, "--print-metrics")
	}

	if !cfg.UsesPayloadFile() {
		args = append(args, "--record-size", strconv.Itoa(cfg.RecordSize))
	} else {
		args = append(args,
			"--payload-file", cfg.PayloadFilePath,
			"--payload-delimiter", cfg.PayloadDelimiter,
		)
	}
	return args
}
