package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"memberbook/pkg/domain"
)

// Service is the transactional boundary around a Model. Each mutating call is
// committed first, restored on failure, checked against the rules engine and
// persisted on success. Every call is traced, measured and, for state
// changes, audited.
type Service struct {
	model   *Model
	store   PersistentStore
	engine  *domain.RulesEngine
	clock   Clock
	logger  Logger
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
}

// NewService wraps model. store may be nil for an unpersisted session.
func NewService(model *Model, store PersistentStore, opts ...Option) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		o.engine = NewDefaultRulesEngine()
	}
	return &Service{
		model:   model,
		store:   store,
		engine:  o.engine,
		clock:   o.clock,
		logger:  o.logger,
		audit:   o.audit,
		metrics: o.metrics,
		tracer:  o.tracer,
	}
}

// Model returns the wrapped model for read access.
func (s *Service) Model() *Model { return s.model }

// Mutate runs fn as one undoable step. entityID labels the audit entry.
//
// When fn fails the dataset is restored to its state before the call. When fn
// changes nothing, no undo step is kept. A blocking rule result restores the
// prior state and is returned as RuleViolationError.
func (s *Service) Mutate(ctx context.Context, op, entityID string, fn func(*Model) error) (Result, error) {
	var res Result
	err := s.run(ctx, op, entityID, func(ctx context.Context) error {
		m := s.model
		m.Commit()
		if err := fn(m); err != nil {
			m.RestoreLastCommit()
			return err
		}
		changes := m.PendingChanges()
		if len(changes) == 0 {
			m.RollbackLastCommit()
			return nil
		}
		evaluated, err := s.engine.Evaluate(ctx, m.View(), changes)
		if err != nil {
			m.RestoreLastCommit()
			return fmt.Errorf("evaluate rules: %w", err)
		}
		res = evaluated
		if res.HasBlocking() {
			m.RestoreLastCommit()
			return RuleViolationError{Result: res}
		}
		if err := s.persist(ctx); err != nil {
			m.RestoreLastCommit()
			return err
		}
		for _, v := range res.Warnings() {
			s.logger.Warn("rule warning", "operation", op, "rule", v.Rule, "message", v.Message)
		}
		return nil
	})
	return res, err
}

// Query runs a read-only fn with tracing and metrics.
func (s *Service) Query(ctx context.Context, op string, fn func(*Model) error) error {
	return s.run(ctx, op, "", func(context.Context) error { return fn(s.model) })
}

// Undo restores the previous undo step and persists the result. It reports
// false when there is nothing to undo.
func (s *Service) Undo(ctx context.Context) (bool, error) {
	return s.moveHistory(ctx, OpUndo, s.model.Undo, s.model.Redo)
}

// Redo reapplies the last undone step and persists the result.
func (s *Service) Redo(ctx context.Context) (bool, error) {
	return s.moveHistory(ctx, OpRedo, s.model.Redo, s.model.Undo)
}

func (s *Service) moveHistory(ctx context.Context, op string, move, revert func() bool) (bool, error) {
	var moved bool
	err := s.run(ctx, op, "", func(ctx context.Context) error {
		moved = move()
		if !moved {
			return nil
		}
		if err := s.persist(ctx); err != nil {
			revert()
			moved = false
			return err
		}
		return nil
	})
	return moved, err
}

func (s *Service) persist(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, s.model.Snapshot()); err != nil {
		return fmt.Errorf("persist dataset: %w", err)
	}
	return nil
}

func (s *Service) run(ctx context.Context, op, entityID string, fn func(context.Context) error) (err error) {
	start := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, op)
	defer func() {
		duration := s.clock.Now().Sub(start)
		if duration < 0 {
			duration = 0
		}
		span.End(err)
		s.metrics.Observe(ctx, op, err == nil, duration)
		if err != nil {
			s.recordAuditError(ctx, op, entityID, duration, err)
			s.logger.Error("operation failed", "operation", op, "error", err)
			return
		}
		s.recordAuditSuccess(ctx, op, entityID, duration)
		s.logger.Debug("operation completed", "operation", op, "duration", duration)
	}()
	return fn(ctx)
}

func (s *Service) recordAuditSuccess(ctx context.Context, op, entityID string, duration time.Duration) {
	s.recordAudit(ctx, op, entityID, AuditStatusSuccess, duration, nil)
}

func (s *Service) recordAuditError(ctx context.Context, op, entityID string, duration time.Duration, err error) {
	s.recordAudit(ctx, op, entityID, AuditStatusError, duration, err)
}

func (s *Service) recordAudit(ctx context.Context, op, entityID string, status AuditStatus, duration time.Duration, err error) {
	meta, ok := auditedOperations[op]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: op,
		Entity:    meta.entity,
		Action:    meta.action,
		EntityID:  entityID,
		Status:    status,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
}

// IsRuleViolation reports whether err carries blocking rule violations.
func IsRuleViolation(err error) (RuleViolationError, bool) {
	var rv RuleViolationError
	ok := errors.As(err, &rv)
	return rv, ok
}
