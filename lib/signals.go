package lib

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"
)

// SignalContext returns a context canceled on the first SIGINT or SIGTERM.
// A second SIGINT exits the process without waiting for the command.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC,
		syscall.SIGTERM, // graceful shutdown
		syscall.SIGINT,  // graceful-then-fast shutdown
	)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer signal.Stop(sigC)
		watchSignals(sigC, stop, cancel, os.Exit)
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() { close(stop) })
		<-done
		cancel()
	}
}

// watchSignals cancels on the first signal and calls exit on a second SIGINT.
// It returns once stop is closed.
func watchSignals(sigC <-chan os.Signal, stop <-chan struct{}, cancel context.CancelFunc, exit func(int)) {
	var alreadyInterrupted bool
	for {
		select {
		case <-stop:
			return
		case sig := <-sigC:
			if alreadyInterrupted && sig == syscall.SIGINT {
				log.Warn("Interrupted twice, exiting")
				exit(1)
				return
			}
			log.Infof("Received %v, canceling...", sig)
			alreadyInterrupted = true
			cancel()
		}
	}
}
