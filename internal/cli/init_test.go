package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	applog "budgetpace/internal/log"
)

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Output: io.Discard})
}

func TestGracefulShutdown(t *testing.T) {
	tests := []struct {
		name    string
		cleanup func(context.Context)
		timeout time.Duration
	}{
		{name: "cleanup finishes", cleanup: func(context.Context) {}, timeout: time.Second},
		{name: "no cleanup", timeout: time.Second},
		{
			name:    "cleanup outlives timeout",
			cleanup: func(ctx context.Context) { <-ctx.Done(); time.Sleep(10 * time.Millisecond) },
			timeout: 20 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, done := shutdownOn(quietLogger(), tt.timeout, tt.cleanup, syscall.SIGUSR1)
			if err := syscall.Kill(os.Getpid(), syscall.SIGUSR1); err != nil {
				t.Fatal(err)
			}

			finished := make(chan struct{})
			go func() {
				WaitForShutdown(ctx, done)
				close(finished)
			}()
			select {
			case <-finished:
			case <-time.After(2 * time.Second):
				t.Fatal("shutdown did not complete")
			}
			if ctx.Err() == nil {
				t.Fatal("context not cancelled")
			}
		})
	}
}

func TestInitSQLite(t *testing.T) {
	repo := InitSQLite(quietLogger(), filepath.Join(t.TempDir(), "cli.db"))
	defer repo.Close()
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
