package command

import (
	"context"
	"fmt"

	"memberbook/internal/core"
	"memberbook/pkg/domain"
)

// Undo reverts the most recent undoable command.
type Undo struct{}

func (Undo) Name() string { return core.OpUndo }

func (Undo) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	ok, err := svc.Undo(ctx)
	if err != nil {
		return Result{}, err
	}
	msg := MessageUndoSuccess
	if !ok {
		msg = MessageUndoFailure
	}
	return Result{Kind: KindHistory, Payload: ok, Feedback: msg}, nil
}

// Redo reapplies the most recently undone command.
type Redo struct{}

func (Redo) Name() string { return core.OpRedo }

func (Redo) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	ok, err := svc.Redo(ctx)
	if err != nil {
		return Result{}, err
	}
	msg := MessageRedoSuccess
	if !ok {
		msg = MessageRedoFailure
	}
	return Result{Kind: KindHistory, Payload: ok, Feedback: msg}, nil
}

// ResetData replaces the whole dataset, for example from an archive. The
// replacement is undoable.
type ResetData struct {
	Snapshot domain.Snapshot
	// Source labels the audit entry, e.g. an archive key.
	Source string
}

func (ResetData) Name() string { return core.OpResetData }

func (c ResetData) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	res, err := svc.Mutate(ctx, c.Name(), c.Source, func(m *core.Model) error {
		return m.ResetData(c.Snapshot)
	})
	if err != nil {
		return Result{}, err
	}
	s := c.Snapshot
	return Result{
		Kind:     KindReset,
		Feedback: fmt.Sprintf(MessageResetData, len(s.Persons), len(s.Events), len(s.Tasks)),
		Warnings: res.Warnings(),
	}, nil
}
