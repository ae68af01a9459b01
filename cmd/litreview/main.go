package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"litreview-ai/internal/service"
	"litreview-ai/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	if err := a.execute(ctx, a.newRootCmd()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps domain failures to distinct exit statuses for scripts.
func exitCode(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, storage.ErrNotFound):
		return 2
	case errors.Is(err, service.ErrRateLimited):
		return 3
	case errors.Is(err, service.ErrExternalService):
		return 4
	}
	var se *storage.Error
	if errors.As(err, &se) {
		return 2
	}
	return 1
}
