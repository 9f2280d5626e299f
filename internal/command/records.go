package command

import (
	"context"
	"errors"
	"fmt"

	"memberbook/internal/core"
	"memberbook/pkg/domain"
)

// Sentinels for duplicate records, wrapping domain.ErrDuplicateEntity.
var (
	ErrDuplicatePerson = fmt.Errorf("%s: %w", MessageDuplicatePerson, domain.ErrDuplicateEntity)
	ErrDuplicateEvent  = fmt.Errorf("%s: %w", MessageDuplicateEvent, domain.ErrDuplicateEntity)
	ErrDuplicateTask   = fmt.Errorf("%s: %w", MessageDuplicateTask, domain.ErrDuplicateEntity)
)

// AddPerson adds a member.
type AddPerson struct {
	Person domain.Person
}

func (AddPerson) Name() string { return core.OpAddPerson }

func (c AddPerson) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	res, err := svc.Mutate(ctx, c.Name(), string(c.Person.Name), func(m *core.Model) error {
		if m.HasPerson(c.Person) {
			return ErrDuplicatePerson
		}
		return m.AddPerson(c.Person)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: KindPerson, Payload: c.Person, Feedback: fmt.Sprintf(MessageAddPerson, FormatPerson(c.Person)), Warnings: res.Warnings()}, nil
}

// DeletePerson removes a member by name. Attendance rows are kept; the
// attendance integrity rule warns about them.
type DeletePerson struct {
	Member domain.Name
}

func (DeletePerson) Name() string { return core.OpDeletePerson }

func (c DeletePerson) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	var removed domain.Person
	res, err := svc.Mutate(ctx, c.Name(), string(c.Member), func(m *core.Model) error {
		p, ok := m.FindPerson(c.Member)
		if !ok {
			return &domain.EntityError{Kind: domain.ErrEntityNotFound, Entity: domain.EntityPerson, Key: string(c.Member)}
		}
		removed = p
		return m.DeletePerson(p)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: KindPerson, Payload: removed, Feedback: fmt.Sprintf(MessageDeletePerson, FormatPerson(removed)), Warnings: res.Warnings()}, nil
}

// AddEvent adds an event.
type AddEvent struct {
	Event domain.Event
}

func (AddEvent) Name() string { return core.OpAddEvent }

func (c AddEvent) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	res, err := svc.Mutate(ctx, c.Name(), string(c.Event.ID), func(m *core.Model) error {
		if m.HasEvent(c.Event) {
			return ErrDuplicateEvent
		}
		return m.AddEvent(c.Event)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: KindEvent, Payload: c.Event, Feedback: fmt.Sprintf(MessageAddEvent, FormatEvent(c.Event)), Warnings: res.Warnings()}, nil
}

// DeleteEvent removes an event by id.
type DeleteEvent struct {
	EventID domain.EventID
}

func (DeleteEvent) Name() string { return core.OpDeleteEvent }

func (c DeleteEvent) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	var removed domain.Event
	res, err := svc.Mutate(ctx, c.Name(), string(c.EventID), func(m *core.Model) error {
		e, ok := m.EventByID(c.EventID)
		if !ok {
			return &domain.EntityError{Kind: domain.ErrEntityNotFound, Entity: domain.EntityEvent, Key: string(c.EventID)}
		}
		removed = e
		return m.DeleteEvent(e)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: KindEvent, Payload: removed, Feedback: fmt.Sprintf(MessageDeleteEvent, FormatEvent(removed)), Warnings: res.Warnings()}, nil
}

// AddTask adds a task. Tasks whose titles match ignoring case are duplicates.
type AddTask struct {
	Task domain.Task
}

func (AddTask) Name() string { return core.OpAddTask }

func (c AddTask) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	res, err := svc.Mutate(ctx, c.Name(), c.Task.Title, func(m *core.Model) error {
		if m.HasTask(c.Task) {
			return ErrDuplicateTask
		}
		return m.AddTask(c.Task)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: KindTask, Payload: c.Task, Feedback: fmt.Sprintf(MessageAddTask, FormatTask(c.Task)), Warnings: res.Warnings()}, nil
}

// CompleteTask marks the task with a matching title as done.
type CompleteTask struct {
	Title string
}

func (CompleteTask) Name() string { return core.OpCompleteTask }

func (c CompleteTask) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	var done domain.Task
	res, err := svc.Mutate(ctx, c.Name(), c.Title, func(m *core.Model) error {
		wanted := domain.Task{Title: c.Title}
		for _, t := range m.View().Tasks() {
			if !t.SameTask(wanted) {
				continue
			}
			done = t
			done.Done = true
			return m.SetTask(t, done)
		}
		return &domain.EntityError{Kind: domain.ErrEntityNotFound, Entity: domain.EntityTask, Key: c.Title}
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: KindTask, Payload: done, Feedback: fmt.Sprintf(MessageCompleteTask, FormatTask(done)), Warnings: res.Warnings()}, nil
}

// IsNotFound reports whether err stems from a missing person, event or task.
func IsNotFound(err error) bool { return errors.Is(err, domain.ErrEntityNotFound) }

// IsDuplicate reports whether err stems from a duplicate record.
func IsDuplicate(err error) bool { return errors.Is(err, domain.ErrDuplicateEntity) }
