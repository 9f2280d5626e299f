package core

import (
	"github.com/google/uuid"

	"memberbook/pkg/domain"
)

// VersionedStore holds the current dataset plus undo and redo stacks of whole
// dataset copies. Entity mutators apply directly to the current dataset and
// are journaled until the next history operation. Deciding when to commit,
// roll back or restore is left to the caller.
type VersionedStore struct {
	current *domain.Dataset
	undo    []*domain.Dataset
	redo    []*domain.Dataset
	limit   int
	pending []domain.Change
	clock   Clock

	// redo stack cleared and undo entries trimmed by the latest Commit,
	// handed back when that commit is rolled back or restored.
	parkedRedo    []*domain.Dataset
	parkedTrimmed []*domain.Dataset
	parked        bool
}

// NewVersionedStore wraps initial, or an empty dataset when initial is nil.
// limit caps the undo stack; zero or less keeps every snapshot.
func NewVersionedStore(initial *domain.Dataset, limit int) *VersionedStore {
	if initial == nil {
		initial = domain.NewDataset()
	}
	return &VersionedStore{current: initial.Clone(), limit: limit, clock: systemClock{}}
}

// Current exposes the live dataset for reads.
func (s *VersionedStore) Current() domain.RuleView { return s.current }

// Snapshot returns the serialisable form of the current dataset.
func (s *VersionedStore) Snapshot() domain.Snapshot { return s.current.Snapshot() }

// Commit pushes a copy of the current dataset onto the undo stack and clears
// the redo stack.
func (s *VersionedStore) Commit() {
	s.parkedTrimmed = s.pushUndo(s.current.Clone())
	s.parkedRedo, s.parked = s.redo, true
	s.redo = nil
	s.pending = nil
}

// Undo restores the most recent snapshot. It reports false and changes
// nothing when the undo stack is empty.
func (s *VersionedStore) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	s.redo = append(s.redo, s.current)
	s.current = pop(&s.undo)
	s.afterHistoryMove()
	return true
}

// Redo reapplies the most recently undone state.
func (s *VersionedStore) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	s.pushUndo(s.current)
	s.current = pop(&s.redo)
	s.afterHistoryMove()
	return true
}

// CanUndo reports whether Undo would succeed.
func (s *VersionedStore) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (s *VersionedStore) CanRedo() bool { return len(s.redo) > 0 }

// UndoCount is the depth of the undo stack.
func (s *VersionedStore) UndoCount() int { return len(s.undo) }

// RedoCount is the depth of the redo stack.
func (s *VersionedStore) RedoCount() int { return len(s.redo) }

// RollbackLastCommit discards the newest undo entry and leaves the current
// dataset as it is.
func (s *VersionedStore) RollbackLastCommit() bool {
	if len(s.undo) == 0 {
		return false
	}
	pop(&s.undo)
	s.unpark()
	return true
}

// RestoreLastCommit pops the newest undo entry back into the current dataset,
// dropping every mutation made since that commit.
func (s *VersionedStore) RestoreLastCommit() bool {
	if len(s.undo) == 0 {
		return false
	}
	s.current = pop(&s.undo)
	s.pending = nil
	s.unpark()
	return true
}

// PendingChanges lists the mutations journaled since the last history operation.
func (s *VersionedStore) PendingChanges() []domain.Change {
	out := make([]domain.Change, len(s.pending))
	copy(out, s.pending)
	return out
}

func (s *VersionedStore) afterHistoryMove() {
	s.pending = nil
	s.parkedRedo, s.parkedTrimmed, s.parked = nil, nil, false
}

// unpark hands back what the latest Commit displaced, so a cancelled commit
// leaves both stacks as they were.
func (s *VersionedStore) unpark() {
	if s.parked {
		s.redo = s.parkedRedo
		if len(s.parkedTrimmed) > 0 {
			s.undo = append(s.parkedTrimmed, s.undo...)
		}
	}
	s.parkedRedo, s.parkedTrimmed, s.parked = nil, nil, false
}

// pushUndo appends d and returns the oldest entries dropped to honour limit.
func (s *VersionedStore) pushUndo(d *domain.Dataset) []*domain.Dataset {
	s.undo = append(s.undo, d)
	if s.limit <= 0 || len(s.undo) <= s.limit {
		return nil
	}
	cut := len(s.undo) - s.limit
	trimmed := append([]*domain.Dataset(nil), s.undo[:cut]...)
	s.undo = append(s.undo[:0:0], s.undo[cut:]...)
	return trimmed
}

func pop(stack *[]*domain.Dataset) *domain.Dataset {
	st := *stack
	top := st[len(st)-1]
	st[len(st)-1] = nil
	*stack = st[:len(st)-1]
	return top
}

func (s *VersionedStore) journal(entity EntityType, action Action, key string, before, after any) {
	s.pending = append(s.pending, domain.Change{
		ID:     uuid.New(),
		Entity: entity,
		Action: action,
		Key:    key,
		Before: payloadOf(before),
		After:  payloadOf(after),
		At:     s.clock.Now(),
	})
}

func payloadOf(v any) domain.ChangePayload {
	if v == nil {
		return domain.UndefinedChangePayload()
	}
	p, err := domain.NewChangePayloadFromValue(v)
	if err != nil {
		return domain.UndefinedChangePayload()
	}
	return p
}

// AddPerson adds p to the current dataset.
func (s *VersionedStore) AddPerson(p domain.Person) error {
	if err := s.current.AddPerson(p); err != nil {
		return err
	}
	s.journal(EntityPerson, ActionCreate, string(p.Name), nil, p)
	return nil
}

// RemovePerson removes p.
func (s *VersionedStore) RemovePerson(p domain.Person) error {
	before, _ := s.current.FindPerson(p.Name)
	if err := s.current.RemovePerson(p); err != nil {
		return err
	}
	s.journal(EntityPerson, ActionDelete, string(p.Name), before, nil)
	return nil
}

// SetPerson replaces target with replacement.
func (s *VersionedStore) SetPerson(target, replacement domain.Person) error {
	before, _ := s.current.FindPerson(target.Name)
	if err := s.current.SetPerson(target, replacement); err != nil {
		return err
	}
	s.journal(EntityPerson, ActionUpdate, string(target.Name), before, replacement)
	return nil
}

// AddEvent adds e.
func (s *VersionedStore) AddEvent(e domain.Event) error {
	if err := s.current.AddEvent(e); err != nil {
		return err
	}
	s.journal(EntityEvent, ActionCreate, string(e.ID), nil, e)
	return nil
}

// RemoveEvent removes e.
func (s *VersionedStore) RemoveEvent(e domain.Event) error {
	before, _ := s.current.FindEvent(e.ID)
	if err := s.current.RemoveEvent(e); err != nil {
		return err
	}
	s.journal(EntityEvent, ActionDelete, string(e.ID), before, nil)
	return nil
}

// SetEvent replaces target with replacement.
func (s *VersionedStore) SetEvent(target, replacement domain.Event) error {
	before, _ := s.current.FindEvent(target.ID)
	if err := s.current.SetEvent(target, replacement); err != nil {
		return err
	}
	s.journal(EntityEvent, ActionUpdate, string(target.ID), before, replacement)
	return nil
}

// AddTask adds t.
func (s *VersionedStore) AddTask(t domain.Task) error {
	if err := s.current.AddTask(t); err != nil {
		return err
	}
	s.journal(EntityTask, ActionCreate, t.Title, nil, t)
	return nil
}

// RemoveTask removes t.
func (s *VersionedStore) RemoveTask(t domain.Task) error {
	if err := s.current.RemoveTask(t); err != nil {
		return err
	}
	s.journal(EntityTask, ActionDelete, t.Title, t, nil)
	return nil
}

// SetTask replaces target with replacement.
func (s *VersionedStore) SetTask(target, replacement domain.Task) error {
	if err := s.current.SetTask(target, replacement); err != nil {
		return err
	}
	s.journal(EntityTask, ActionUpdate, target.Title, target, replacement)
	return nil
}

// AddAttendance adds a.
func (s *VersionedStore) AddAttendance(a domain.Attendance) error {
	if err := s.current.AddAttendance(a); err != nil {
		return err
	}
	s.journal(EntityAttendance, ActionCreate, a.Key().String(), nil, a)
	return nil
}

// RemoveAttendance removes a.
func (s *VersionedStore) RemoveAttendance(a domain.Attendance) error {
	if err := s.current.RemoveAttendance(a); err != nil {
		return err
	}
	s.journal(EntityAttendance, ActionDelete, a.Key().String(), a, nil)
	return nil
}

// SetAttendance replaces target with replacement.
func (s *VersionedStore) SetAttendance(target, replacement domain.Attendance) error {
	if err := s.current.SetAttendance(target, replacement); err != nil {
		return err
	}
	s.journal(EntityAttendance, ActionUpdate, target.Key().String(), target, replacement)
	return nil
}

// SetBudget installs b.
func (s *VersionedStore) SetBudget(b domain.Budget) {
	var before any
	if prev, ok := s.current.Budget(); ok {
		before = prev
	}
	s.current.SetBudget(b)
	s.journal(EntityBudget, ActionUpdate, string(EntityBudget), before, b)
}

// ClearBudget removes the budget. It is a no-op when none is set.
func (s *VersionedStore) ClearBudget() {
	prev, ok := s.current.Budget()
	if !ok {
		return
	}
	s.current.ClearBudget()
	s.journal(EntityBudget, ActionDelete, string(EntityBudget), prev, nil)
}

// Reset replaces the current dataset with a copy of data.
func (s *VersionedStore) Reset(data *domain.Dataset) {
	if data == nil {
		data = domain.NewDataset()
	}
	s.current = data.Clone()
	s.journal(EntityDataset, ActionReset, "", nil, nil)
}

func (s *VersionedStore) dataset() *domain.Dataset { return s.current }
