package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExpvarMetricsRecorderAggregates(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	rec.Observe(context.Background(), OpAddPerson, true, 2*time.Millisecond)
	rec.Observe(context.Background(), OpAddPerson, false, 3*time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Second)

	snap := rec.Snapshot()
	if snap.DurationsMS[OpAddPerson] != 5 {
		t.Fatalf("expected 5ms total, got %v", snap.DurationsMS[OpAddPerson])
	}
	if snap.Outcomes[OpAddPerson]["success"] != 1 || snap.Outcomes[OpAddPerson]["error"] != 1 {
		t.Fatalf("unexpected outcomes %+v", snap.Outcomes)
	}
	if _, ok := snap.Outcomes[""]; ok {
		t.Fatalf("empty operation names are ignored")
	}
	published := expvar.Get(rec.Name())
	if published == nil || !strings.Contains(published.String(), OpAddPerson) {
		t.Fatalf("expected recorder published under %s", rec.Name())
	}
}

func TestJSONTracerWritesEntries(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), OpUndo)
	span.End(errors.New("boom"))
	_, span = tracer.Start(context.Background(), OpRedo)
	span.End(nil)

	entries := tracer.Entries()
	if len(entries) != 2 || entries[0].Status != "error" || entries[0].Error != "boom" || entries[1].Status != "success" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two JSON lines, got %q", buf.String())
	}
	var decoded JSONTraceEntry
	mustNoError(t, "decode", json.Unmarshal([]byte(lines[1]), &decoded))
	if decoded.Operation != OpRedo {
		t.Fatalf("unexpected decoded entry %+v", decoded)
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	mustNoError(t, "new recorder", err)
	rec.Observe(context.Background(), OpAddAttendance, true, 10*time.Millisecond)
	rec.Observe(context.Background(), OpAddAttendance, true, 10*time.Millisecond)
	rec.Observe(context.Background(), OpAddAttendance, false, time.Millisecond)

	if got := testutil.ToFloat64(rec.total.WithLabelValues(OpAddAttendance, "success")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(rec.total.WithLabelValues(OpAddAttendance, "error")); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
	if n := testutil.CollectAndCount(rec.duration); n != 1 {
		t.Fatalf("expected one histogram series, got %d", n)
	}
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestServiceWithPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	mustNoError(t, "new recorder", err)
	svc := NewService(newClubModel(t), nil, WithMetricsRecorder(rec))
	_, err = svc.Mutate(context.Background(), OpAddAttendance, "Orientation", addAttendance("Orientation", "Alex"))
	mustNoError(t, "add", err)
	expected := `
# HELP memberbook_operations_total Service operations by outcome.
# TYPE memberbook_operations_total counter
memberbook_operations_total{operation="add_attendance",status="success"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "memberbook_operations_total"); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}

func TestLogAuditRecorderLevels(t *testing.T) {
	logger := &recordingLogger{}
	rec := NewLogAuditRecorder(logger)
	rec.Record(context.Background(), AuditEntry{Operation: OpAddAttendance, Status: AuditStatusSuccess})
	rec.Record(context.Background(), AuditEntry{Operation: OpMarkAttendance, Status: AuditStatusError, Error: "Event not found"})
	if len(logger.infos) != 1 || len(logger.warnings) != 1 {
		t.Fatalf("expected one info and one warning, got %v / %v", logger.infos, logger.warnings)
	}
	NewLogAuditRecorder(nil).Record(context.Background(), AuditEntry{})
}
