// Package command holds the typed commands a front end hands to memberbook,
// their structured results and the executor that runs them.
package command

import (
	"context"

	"memberbook/internal/core"
	"memberbook/pkg/domain"
)

// Kind tags the payload carried by a Result.
type Kind string

const (
	KindAddAttendance  Kind = "add_attendance"
	KindMarkAttendance Kind = "mark_attendance"
	KindShowAttendance Kind = "show_attendance"
	KindPerson         Kind = "person"
	KindEvent          Kind = "event"
	KindTask           Kind = "task"
	KindBudget         Kind = "budget"
	KindHistory        Kind = "history"
	KindReset          Kind = "reset"
)

// Result is the structured outcome of a command. Payload holds the typed
// result for Kind (for example core.AddAttendanceResult) and Feedback the
// message shown to the user.
type Result struct {
	Kind     Kind
	Payload  any
	Feedback string
	Warnings []domain.Violation
}

// Command is one user operation.
type Command interface {
	// Name is the operation name used for audit, metrics and tracing.
	Name() string
	Execute(ctx context.Context, svc *core.Service) (Result, error)
}
