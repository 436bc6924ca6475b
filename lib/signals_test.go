package lib

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchSignals(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigC := make(chan os.Signal)
	stop := make(chan struct{})
	done := make(chan struct{})
	exitCodes := make(chan int, 1)

	go func() {
		defer close(done)
		watchSignals(sigC, stop, cancel, func(code int) { exitCodes <- code })
	}()

	sigC <- syscall.SIGTERM
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context is not canceled after the first signal")
	}
	require.Empty(t, exitCodes)

	sigC <- syscall.SIGINT
	select {
	case code := <-exitCodes:
		require.Equal(t, 1, code)
	case <-time.After(time.Second):
		t.Fatal("second interrupt did not exit")
	}
	<-done
}

func TestWatchSignalsStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		watchSignals(make(chan os.Signal), stop, cancel, func(int) { t.Error("unexpected exit") })
	}()

	close(stop)
	<-done
	require.NoError(t, ctx.Err())
}

func TestSignalContextCancel(t *testing.T) {
	ctx, cancel := SignalContext(context.Background())
	require.NoError(t, ctx.Err())
	cancel()
	require.Error(t, ctx.Err())
	// Calling it again is a no-op.
	cancel()
}
