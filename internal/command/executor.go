package command

import (
	"context"
	"errors"

	"memberbook/internal/core"
)

// Executor runs commands one at a time against a service.
type Executor struct {
	svc    *core.Service
	logger core.Logger
}

// NewExecutor returns an executor over svc. logger may be nil.
func NewExecutor(svc *core.Service, logger core.Logger) *Executor {
	return &Executor{svc: svc, logger: logger}
}

// Service returns the wrapped service.
func (e *Executor) Service() *core.Service { return e.svc }

// Execute runs cmd and logs its outcome.
func (e *Executor) Execute(ctx context.Context, cmd Command) (Result, error) {
	if cmd == nil {
		return Result{}, errors.New("command is nil")
	}
	res, err := cmd.Execute(ctx, e.svc)
	if e.logger == nil {
		return res, err
	}
	if err != nil {
		e.logger.Info("command rejected", "command", cmd.Name(), "reason", err.Error())
		return res, err
	}
	e.logger.Info("command executed", "command", cmd.Name(), "warnings", len(res.Warnings))
	return res, nil
}
