package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"raffler/cmd"

	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx); err != nil {
		log.WithError(err).Error("Command failed")
		cancel()
		os.Exit(1)
	}
}
