package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/FloodSight/backend/internal/api"
	"github.com/GriffinCanCode/FloodSight/backend/internal/app"
	"github.com/GriffinCanCode/FloodSight/backend/internal/startup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run wires the application registry and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	registry := app.NewRegistry()
	if err := api.Register(registry); err != nil {
		return handleExitError(stderr, err)
	}

	err := startup.Run(ctx, startup.Options{
		Stdout:   stdout,
		Stderr:   stderr,
		Args:     args,
		Registry: registry,
	})
	return handleExitError(stderr, err)
}

func handleExitError(stderr io.Writer, err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return 0
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}
