package domain

import "time"

// Dataset is the aggregate root: members, events, tasks, attendance and an
// optional budget.
type Dataset struct {
	persons    *UniqueList[Name, Person]
	events     *UniqueList[EventID, Event]
	tasks      *UniqueList[string, Task]
	attendance *UniqueList[AttendanceKey, Attendance]
	budget     *Budget
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{
		persons:    NewUniqueList(EntityPerson, func(p Person) Name { return p.Name }, clonePerson),
		events:     NewUniqueList(EntityEvent, func(e Event) EventID { return e.ID }, nil),
		tasks:      NewUniqueList(EntityTask, taskKey, cloneTask),
		attendance: NewUniqueList(EntityAttendance, Attendance.Key, nil),
	}
}

// Persons lists members in insertion order.
func (d *Dataset) Persons() []Person { return d.persons.Items() }

// FilterPersons lists members matching pred.
func (d *Dataset) FilterPersons(pred func(Person) bool) []Person { return d.persons.Filter(pred) }

// FindPerson looks a member up by name.
func (d *Dataset) FindPerson(name Name) (Person, bool) { return d.persons.Get(name) }

// HasPerson reports whether a member with the same name exists.
func (d *Dataset) HasPerson(p Person) bool { return d.persons.Contains(p) }

// AddPerson appends a member.
func (d *Dataset) AddPerson(p Person) error { return d.persons.Add(p) }

// RemovePerson deletes a member.
func (d *Dataset) RemovePerson(p Person) error { return d.persons.Remove(p) }

// SetPerson replaces target with replacement.
func (d *Dataset) SetPerson(target, replacement Person) error {
	return d.persons.Set(target, replacement)
}

// Events lists events in insertion order.
func (d *Dataset) Events() []Event { return d.events.Items() }

// FilterEvents lists events matching pred.
func (d *Dataset) FilterEvents(pred func(Event) bool) []Event { return d.events.Filter(pred) }

// FindEvent looks an event up by id.
func (d *Dataset) FindEvent(id EventID) (Event, bool) { return d.events.Get(id) }

// HasEvent reports whether an event with the same id exists.
func (d *Dataset) HasEvent(e Event) bool { return d.events.Contains(e) }

// AddEvent appends an event.
func (d *Dataset) AddEvent(e Event) error { return d.events.Add(e) }

// RemoveEvent deletes an event.
func (d *Dataset) RemoveEvent(e Event) error { return d.events.Remove(e) }

// SetEvent replaces target with replacement.
func (d *Dataset) SetEvent(target, replacement Event) error {
	return d.events.Set(target, replacement)
}

// Tasks lists tasks in insertion order.
func (d *Dataset) Tasks() []Task { return d.tasks.Items() }

// FilterTasks lists tasks matching pred.
func (d *Dataset) FilterTasks(pred func(Task) bool) []Task { return d.tasks.Filter(pred) }

// HasTask reports whether the same task already exists.
func (d *Dataset) HasTask(t Task) bool { return d.tasks.Contains(t) }

// AddTask appends a task.
func (d *Dataset) AddTask(t Task) error { return d.tasks.Add(t) }

// RemoveTask deletes a task.
func (d *Dataset) RemoveTask(t Task) error { return d.tasks.Remove(t) }

// SetTask replaces target with replacement.
func (d *Dataset) SetTask(target, replacement Task) error {
	return d.tasks.Set(target, replacement)
}

// Attendance lists every attendance row in insertion order.
func (d *Dataset) Attendance() []Attendance { return d.attendance.Items() }

// AttendanceFor lists the rows of one event in insertion order.
func (d *Dataset) AttendanceFor(id EventID) []Attendance {
	return d.attendance.Filter(func(a Attendance) bool { return a.EventID == id })
}

// FindAttendance looks up the row for one member at one event.
func (d *Dataset) FindAttendance(id EventID, member Name) (Attendance, bool) {
	return d.attendance.Get(AttendanceKey{EventID: id, Member: member})
}

// HasAttendance reports whether a row with the same key exists.
func (d *Dataset) HasAttendance(a Attendance) bool { return d.attendance.Contains(a) }

// AddAttendance appends an attendance row.
func (d *Dataset) AddAttendance(a Attendance) error { return d.attendance.Add(a) }

// RemoveAttendance deletes an attendance row.
func (d *Dataset) RemoveAttendance(a Attendance) error { return d.attendance.Remove(a) }

// SetAttendance replaces target with replacement.
func (d *Dataset) SetAttendance(target, replacement Attendance) error {
	return d.attendance.Set(target, replacement)
}

// Budget returns the budget if one is set.
func (d *Dataset) Budget() (Budget, bool) {
	if d.budget == nil {
		return Budget{}, false
	}
	return *d.budget, true
}

// SetBudget installs or replaces the budget.
func (d *Dataset) SetBudget(b Budget) { d.budget = &b }

// ClearBudget removes the budget.
func (d *Dataset) ClearBudget() { d.budget = nil }

// TotalExpensesWithin sums the expenses of events dated within [start, end].
func (d *Dataset) TotalExpensesWithin(start, end time.Time) Money {
	total := ZeroMoney()
	for _, e := range d.events.items {
		if e.Within(start, end) {
			total = total.Plus(e.Expense)
		}
	}
	return total
}

// Clone returns a copy that shares no mutable state with d.
func (d *Dataset) Clone() *Dataset {
	cp := &Dataset{
		persons:    d.persons.Clone(),
		events:     d.events.Clone(),
		tasks:      d.tasks.Clone(),
		attendance: d.attendance.Clone(),
	}
	if d.budget != nil {
		b := *d.budget
		cp.budget = &b
	}
	return cp
}

// Equal reports structural equality of all collections and the budget.
func (d *Dataset) Equal(other *Dataset) bool {
	if d == nil || other == nil {
		return d == other
	}
	if (d.budget == nil) != (other.budget == nil) {
		return false
	}
	if d.budget != nil && !d.budget.Equal(*other.budget) {
		return false
	}
	return d.persons.Equal(other.persons, Person.Equal) &&
		d.events.Equal(other.events, Event.Equal) &&
		d.tasks.Equal(other.tasks, Task.Equal) &&
		d.attendance.Equal(other.attendance, func(a, b Attendance) bool { return a == b })
}
