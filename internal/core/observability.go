package core

import (
	"context"
	"time"
)

// Logger is the structured logging surface used by the model and service.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Clock supplies timestamps for the change journal and audit entries.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// MetricsRecorder observes the outcome and latency of service operations.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer starts a span per service operation.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is ended exactly once with the operation error, if any.
type TraceSpan interface {
	End(err error)
}

// AuditStatus is the outcome recorded in an AuditEntry.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry describes one state-changing operation.
type AuditEntry struct {
	Operation string
	Entity    EntityType
	Action    Action
	EntityID  string
	Status    AuditStatus
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// AuditRecorder receives an entry for every audited operation.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(context.Context, AuditEntry) {}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

type auditMeta struct {
	entity EntityType
	action Action
}

// auditedOperations lists the operations that produce audit entries. Reads
// are traced and measured but not audited.
var auditedOperations = map[string]auditMeta{
	OpAddPerson:      {EntityPerson, ActionCreate},
	OpDeletePerson:   {EntityPerson, ActionDelete},
	OpAddEvent:       {EntityEvent, ActionCreate},
	OpDeleteEvent:    {EntityEvent, ActionDelete},
	OpAddTask:        {EntityTask, ActionCreate},
	OpCompleteTask:   {EntityTask, ActionUpdate},
	OpAddAttendance:  {EntityAttendance, ActionCreate},
	OpMarkAttendance: {EntityAttendance, ActionUpdate},
	OpSetBudget:      {EntityBudget, ActionUpdate},
	OpClearBudget:    {EntityBudget, ActionDelete},
	OpResetData:      {EntityDataset, ActionReset},
	OpUndo:           {EntityDataset, ActionReset},
	OpRedo:           {EntityDataset, ActionReset},
}

// Operation names used for audit, metrics and tracing.
const (
	OpAddPerson      = "add_person"
	OpDeletePerson   = "delete_person"
	OpAddEvent       = "add_event"
	OpDeleteEvent    = "delete_event"
	OpAddTask        = "add_task"
	OpCompleteTask   = "complete_task"
	OpAddAttendance  = "add_attendance"
	OpMarkAttendance = "mark_attendance"
	OpShowAttendance = "show_attendance"
	OpSetBudget      = "set_budget"
	OpClearBudget    = "clear_budget"
	OpBudgetSummary  = "budget_summary"
	OpResetData      = "reset_data"
	OpUndo           = "undo"
	OpRedo           = "redo"
)
