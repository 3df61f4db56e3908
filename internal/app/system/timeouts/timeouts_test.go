package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure_KeepsZeroFields(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: time.Second})
	if Short() != time.Second {
		t.Errorf("Short() = %v", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium() = %v, want default", Medium())
	}
}

func TestWithTimeout_LogsDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.New(core), "dashboard")
	<-ctx.Done()
	cancel()

	if logs.Len() != 1 {
		t.Fatalf("want one warning, got %d", logs.Len())
	}
	if op := logs.All()[0].ContextMap()["operation"]; op != "dashboard" {
		t.Errorf("operation = %v", op)
	}
}
