package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.FileDetected()
	m.FileDetected()
	m.ScanFailed()
	m.ObserveScan(10 * time.Millisecond)
	m.MessagePushed("pcap")
	m.MessageConsumed("pcap")
	m.MessageInvalid("state")
	m.ReadMiss("state")
	m.ReadMiss("state")

	if got := testutil.ToFloat64(m.filesDetected); got != 2 {
		t.Errorf("files detected: expected 2, got %v", got)
	}
	if got := testutil.ToFloat64(m.scanErrors); got != 1 {
		t.Errorf("scan errors: expected 1, got %v", got)
	}
	if got := testutil.CollectAndCount(m.scanDuration); got != 1 {
		t.Errorf("scan duration: expected 1 series, got %d", got)
	}
	if got := testutil.ToFloat64(m.messagesPushed.WithLabelValues("pcap")); got != 1 {
		t.Errorf("pushed: expected 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.messagesConsumed.WithLabelValues("pcap")); got != 1 {
		t.Errorf("consumed: expected 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.invalidMessages.WithLabelValues("state")); got != 1 {
		t.Errorf("invalid: expected 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.readMisses.WithLabelValues("state")); got != 2 {
		t.Errorf("read misses: expected 2, got %v", got)
	}
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics

	// Ни один вызов не должен паниковать
	m.FileDetected()
	m.ScanFailed()
	m.ObserveScan(time.Second)
	m.MessagePushed("q")
	m.MessageConsumed("q")
	m.MessageInvalid("q")
	m.ReadMiss("q")
}

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"DEBUG": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"ERROR": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for value, want := range tests {
		t.Setenv("LOG_LEVEL", value)
		if got := LogLevel(); got != want {
			t.Errorf("LOG_LEVEL=%q: expected %s, got %s", value, want, got)
		}
	}
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	WithJobID(WithFile(base, "/in/a.pcap"), "job-1").Info("hello")

	out := buf.String()
	if !strings.Contains(out, "file=/in/a.pcap") || !strings.Contains(out, "job_id=job-1") {
		t.Errorf("missing attributes: %s", out)
	}

	ctx := WithLogger(context.Background(), base)
	if FromContext(ctx) != base {
		t.Error("logger should be taken from context")
	}
	if FromContext(context.Background()) != slog.Default() {
		t.Error("missing logger should fall back to default")
	}
}
