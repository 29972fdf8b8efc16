// Package main is the entry point for the verba server. The binary serves
// the vocabulary and conjugation practice API and carries the operational
// commands: schema migrations, bulk imports and password hashing.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
