package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/meldgrid/internal/cli"
	mgerrors "github.com/matzehuels/meldgrid/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps error codes to distinct exit statuses so scripts can tell
// bad input from an unreachable store.
func exitCode(err error) int {
	switch code := mgerrors.GetCode(err); {
	case code.Invalid():
		return 2
	case code == mgerrors.ErrCodeNotFound:
		return 3
	case code == mgerrors.ErrCodeStoreUnavailable:
		return 4
	default:
		return 1
	}
}
