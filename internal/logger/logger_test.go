package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	base := &Logger{SugaredLogger: zap.New(core).Sugar()}

	base.With("service", "payments").Warn("transfer conflict", "job_id", int64(7))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["service"] != "payments" {
		t.Fatalf("expected service field, got %#v", fields)
	}
	if fields["job_id"] != int64(7) {
		t.Fatalf("expected job_id field, got %#v", fields)
	}
	if entries[0].Level != zap.WarnLevel {
		t.Fatalf("expected warn level, got %s", entries[0].Level)
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"production", "development"} {
		log, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q) error: %v", mode, err)
		}
		log.Info("ready", "mode", mode)
	}
	NewNop().Error("discarded")
}
