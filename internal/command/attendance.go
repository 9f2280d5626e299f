package command

import (
	"context"
	"fmt"
	"slices"

	"memberbook/internal/core"
	"memberbook/pkg/domain"
)

// AddAttendance puts members on an event's attendance list.
type AddAttendance struct {
	EventID domain.EventID
	Members []domain.Name
}

func (AddAttendance) Name() string { return core.OpAddAttendance }

func (c AddAttendance) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	var out core.AddAttendanceResult
	res, err := svc.Mutate(ctx, c.Name(), string(c.EventID), func(m *core.Model) error {
		var err error
		out, err = m.AddAttendance(ctx, c.EventID, slices.Clone(c.Members))
		return err
	})
	if err != nil {
		return Result{}, err
	}
	duplicates := ""
	if d := out.Duplicates(); len(d) > 0 {
		duplicates = "\n" + formatAlreadyAdded(d)
	}
	return Result{
		Kind:     KindAddAttendance,
		Payload:  out,
		Feedback: fmt.Sprintf(MessageAddAttendance, out.Event().Description, FormatNames(out.Added()), duplicates),
		Warnings: res.Warnings(),
	}, nil
}

// MarkAttendance marks members as having attended an event.
type MarkAttendance struct {
	EventID domain.EventID
	Members []domain.Name
}

func (MarkAttendance) Name() string { return core.OpMarkAttendance }

func (c MarkAttendance) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	var out core.MarkAttendanceResult
	res, err := svc.Mutate(ctx, c.Name(), string(c.EventID), func(m *core.Model) error {
		var err error
		out, err = m.MarkAttendance(ctx, c.EventID, slices.Clone(c.Members))
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Kind:    KindMarkAttendance,
		Payload: out,
		Feedback: fmt.Sprintf(MessageMarkAttendance, out.Event().Description,
			FormatNames(out.NewlyMarked()), FormatNames(out.AlreadyMarked())),
		Warnings: res.Warnings(),
	}, nil
}

// ShowAttendance summarises an event's attendance list.
type ShowAttendance struct {
	EventID domain.EventID
}

func (ShowAttendance) Name() string { return core.OpShowAttendance }

func (c ShowAttendance) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	var out core.AttendanceSummary
	err := svc.Query(ctx, c.Name(), func(m *core.Model) error {
		var err error
		out, err = m.ShowAttendance(ctx, c.EventID)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Kind:    KindShowAttendance,
		Payload: out,
		Feedback: fmt.Sprintf(MessageShowAttendance, out.Event().Description,
			out.AttendedCount(), FormatNames(out.Attended()),
			out.AbsentCount(), FormatNames(out.Absent())),
	}, nil
}
