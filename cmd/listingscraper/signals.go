package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"listingscraper/pkg/logger"
	"listingscraper/pkg/models"
)

// watchInterrupts maps the first SIGINT/SIGTERM to a graceful stop through
// token and the second to cancelling the run context. The returned func
// stops watching.
func watchInterrupts(token *models.CancellationToken, abort context.CancelFunc, log logger.Logger) func() {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	quit := make(chan struct{})

	go func() {
		for {
			select {
			case <-quit:
				return
			case sig := <-sigs:
				if token.Cancel() {
					log.WithField("signal", sig.String()).Warn("Stopping after in-flight downloads, interrupt again to abort")
					continue
				}
				log.WithField("signal", sig.String()).Warn("Aborting in-flight downloads")
				abort()
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(quit)
	}
}
