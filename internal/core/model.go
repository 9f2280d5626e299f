package core

import (
	"fmt"
	"time"

	"memberbook/internal/config"
	"memberbook/pkg/domain"
)

// ModelConfig configures a Model.
type ModelConfig struct {
	// HistoryLimit caps the undo stack; zero keeps everything.
	HistoryLimit int
	Prefs        config.Prefs
	Logger       Logger
	Clock        Clock
}

// Model is the in-memory data manager: entity operations over a
// VersionedStore, filtered views, budget queries, history and preferences.
// It is not safe for concurrent use.
type Model struct {
	store  *VersionedStore
	logger Logger
	prefs  config.Prefs

	personFilter func(domain.Person) bool
	eventFilter  func(domain.Event) bool
	taskFilter   func(domain.Task) bool
}

// NewModel builds a model over a copy of data.
func NewModel(data *domain.Dataset, cfg ModelConfig) *Model {
	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	store := NewVersionedStore(data, cfg.HistoryLimit)
	if cfg.Clock != nil {
		store.clock = cfg.Clock
	}
	prefs := cfg.Prefs
	prefs.Normalize()
	m := &Model{store: store, logger: logger, prefs: prefs}
	logger.Debug("model initialised",
		"persons", len(store.current.Persons()),
		"events", len(store.current.Events()),
		"tasks", len(store.current.Tasks()))
	return m
}

// Prefs returns the user preferences.
func (m *Model) Prefs() config.Prefs { return m.prefs }

// SetPrefs replaces the user preferences.
func (m *Model) SetPrefs(p config.Prefs) {
	p.Normalize()
	m.prefs = p
}

// View is a read-only view of the current dataset.
func (m *Model) View() domain.RuleView { return m.store.Current() }

// Snapshot returns the serialisable current dataset.
func (m *Model) Snapshot() domain.Snapshot { return m.store.Snapshot() }

// ResetData replaces the whole dataset with the content of snapshot.
func (m *Model) ResetData(snapshot domain.Snapshot) error {
	data, err := domain.DatasetFromSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("reset data: %w", err)
	}
	m.store.Reset(data)
	m.showAll()
	m.logger.Info("dataset replaced", "persons", len(snapshot.Persons), "events", len(snapshot.Events))
	return nil
}

// Persons.

// HasPerson reports whether a member with p's name exists.
func (m *Model) HasPerson(p domain.Person) bool { return m.store.current.HasPerson(p) }

// FindPerson looks a member up by name.
func (m *Model) FindPerson(name domain.Name) (domain.Person, bool) {
	return m.store.current.FindPerson(name)
}

// AddPerson adds a member and resets the person filter.
func (m *Model) AddPerson(p domain.Person) error {
	if err := m.store.AddPerson(p); err != nil {
		return err
	}
	m.personFilter = nil
	m.logger.Info("person added", "name", p.Name)
	return nil
}

// DeletePerson removes a member.
func (m *Model) DeletePerson(p domain.Person) error {
	if err := m.store.RemovePerson(p); err != nil {
		return err
	}
	m.logger.Info("person deleted", "name", p.Name)
	return nil
}

// SetPerson replaces target with edited.
func (m *Model) SetPerson(target, edited domain.Person) error {
	return m.store.SetPerson(target, edited)
}

// Events.

// HasEvent reports whether an event with e's id exists.
func (m *Model) HasEvent(e domain.Event) bool { return m.store.current.HasEvent(e) }

// EventByID looks an event up by id.
func (m *Model) EventByID(id domain.EventID) (domain.Event, bool) {
	return m.store.current.FindEvent(id)
}

// AddEvent adds an event and resets the event filter.
func (m *Model) AddEvent(e domain.Event) error {
	if err := m.store.AddEvent(e); err != nil {
		return err
	}
	m.eventFilter = nil
	m.logger.Info("event added", "event", e.ID)
	return nil
}

// DeleteEvent removes an event.
func (m *Model) DeleteEvent(e domain.Event) error {
	if err := m.store.RemoveEvent(e); err != nil {
		return err
	}
	m.logger.Info("event deleted", "event", e.ID)
	return nil
}

// SetEvent replaces target with edited.
func (m *Model) SetEvent(target, edited domain.Event) error {
	return m.store.SetEvent(target, edited)
}

// EventsWithin lists events dated in [start, end], inclusive.
func (m *Model) EventsWithin(start, end time.Time) []domain.Event {
	return m.store.current.FilterEvents(func(e domain.Event) bool { return e.Within(start, end) })
}

// Tasks.

// HasTask reports whether the same task already exists.
func (m *Model) HasTask(t domain.Task) bool { return m.store.current.HasTask(t) }

// AddTask adds a task and resets the task filter.
func (m *Model) AddTask(t domain.Task) error {
	if err := m.store.AddTask(t); err != nil {
		return err
	}
	m.taskFilter = nil
	m.logger.Info("task added", "title", t.Title)
	return nil
}

// DeleteTask removes a task.
func (m *Model) DeleteTask(t domain.Task) error {
	return m.store.RemoveTask(t)
}

// SetTask replaces target with edited.
func (m *Model) SetTask(target, edited domain.Task) error {
	return m.store.SetTask(target, edited)
}

// Budget.

// Budget returns the budget if one is set.
func (m *Model) Budget() (domain.Budget, bool) { return m.store.current.Budget() }

// SetBudget installs or replaces the budget.
func (m *Model) SetBudget(b domain.Budget) {
	m.store.SetBudget(b)
	m.logger.Info("budget set", "amount", b.Amount.String(),
		"start", b.Start.Format(time.DateOnly), "end", b.End.Format(time.DateOnly))
}

// ClearBudget removes the budget.
func (m *Model) ClearBudget() { m.store.ClearBudget() }

// TotalExpensesWithin sums event expenses dated in [start, end].
func (m *Model) TotalExpensesWithin(start, end time.Time) domain.Money {
	return m.store.current.TotalExpensesWithin(start, end)
}

// Filtered views.

// SetPersonFilter narrows FilteredPersons. nil shows everything.
func (m *Model) SetPersonFilter(pred func(domain.Person) bool) { m.personFilter = pred }

// SetEventFilter narrows FilteredEvents. nil shows everything.
func (m *Model) SetEventFilter(pred func(domain.Event) bool) { m.eventFilter = pred }

// SetTaskFilter narrows FilteredTasks. nil shows everything.
func (m *Model) SetTaskFilter(pred func(domain.Task) bool) { m.taskFilter = pred }

// FilteredPersons returns a fresh list of members matching the person filter.
func (m *Model) FilteredPersons() []domain.Person {
	return m.store.current.FilterPersons(m.personFilter)
}

// FilteredEvents returns a fresh list of events matching the event filter.
func (m *Model) FilteredEvents() []domain.Event {
	return m.store.current.FilterEvents(m.eventFilter)
}

// FilteredTasks returns a fresh list of tasks matching the task filter.
func (m *Model) FilteredTasks() []domain.Task {
	return m.store.current.FilterTasks(m.taskFilter)
}

func (m *Model) showAll() {
	m.personFilter, m.eventFilter, m.taskFilter = nil, nil, nil
}

// History.

// Commit snapshots the current dataset for undo.
func (m *Model) Commit() {
	m.store.Commit()
	m.logger.Debug("state committed", "undo_depth", m.store.UndoCount())
}

// Undo restores the previous snapshot and shows every record again.
func (m *Model) Undo() bool {
	if !m.store.Undo() {
		m.logger.Warn("undo failed: no operations to undo")
		return false
	}
	m.showAll()
	m.logger.Info("undo applied", "undo_depth", m.store.UndoCount())
	return true
}

// Redo reapplies the last undone state and shows every record again.
func (m *Model) Redo() bool {
	if !m.store.Redo() {
		m.logger.Warn("redo failed: no operations to redo")
		return false
	}
	m.showAll()
	m.logger.Info("redo applied", "redo_depth", m.store.RedoCount())
	return true
}

// CanUndo reports whether Undo would succeed.
func (m *Model) CanUndo() bool { return m.store.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (m *Model) CanRedo() bool { return m.store.CanRedo() }

// RollbackLastCommit drops the newest snapshot without touching current state.
func (m *Model) RollbackLastCommit() bool {
	ok := m.store.RollbackLastCommit()
	m.logger.Debug("last commit rolled back", "ok", ok, "undo_depth", m.store.UndoCount())
	return ok
}

// RestoreLastCommit returns the dataset to the newest snapshot.
func (m *Model) RestoreLastCommit() bool {
	ok := m.store.RestoreLastCommit()
	m.logger.Debug("last commit restored", "ok", ok, "undo_depth", m.store.UndoCount())
	return ok
}

// PendingChanges lists the mutations since the last history operation.
func (m *Model) PendingChanges() []domain.Change { return m.store.PendingChanges() }
