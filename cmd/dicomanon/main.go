package main

import (
	"context"
	"os"
	"os/signal"
)

// Anonymizes the patient-identifying fields of one or more DICOM files. Inputs
// and outputs are comma-separated and paired by position.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand(os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
