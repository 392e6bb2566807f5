// Package main starts the es-producer workload generator.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ibs-source/es-producer/internal/app"
	"github.com/ibs-source/es-producer/internal/log"
)

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, os.Args[1:], app.Options{Logger: log.New()})
}

func main() {
	// Keep main minimal to ensure defers in run() execute correctly.
	os.Exit(run())
}
