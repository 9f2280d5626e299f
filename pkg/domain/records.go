package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ErrInvalidRecord is wrapped by record constructors when a field is malformed.
var ErrInvalidRecord = errors.New("invalid record")

// Person is a club member. Identity is the Name.
type Person struct {
	Name  Name     `json:"name"`
	Phone string   `json:"phone,omitempty"`
	Email string   `json:"email,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// SamePerson reports whether both records describe the same member.
func (p Person) SamePerson(other Person) bool { return p.Name == other.Name }

// Equal reports full field equality.
func (p Person) Equal(other Person) bool {
	return p.Name == other.Name && p.Phone == other.Phone && p.Email == other.Email &&
		slices.Equal(p.Tags, other.Tags)
}

func clonePerson(p Person) Person {
	cp := p
	if p.Tags != nil {
		cp.Tags = slices.Clone(p.Tags)
	}
	return cp
}

// Event is a dated club event with an associated expense. Identity is the ID.
type Event struct {
	ID          EventID   `json:"id"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Expense     Money     `json:"expense"`
}

// NewEvent builds an event with its date truncated to a calendar day.
func NewEvent(id EventID, description string, date time.Time, expense Money) (Event, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Event{}, fmt.Errorf("%w: event %q has no description", ErrInvalidRecord, id)
	}
	if date.IsZero() {
		return Event{}, fmt.Errorf("%w: event %q has no date", ErrInvalidRecord, id)
	}
	return Event{ID: id, Description: description, Date: CalendarDate(date), Expense: expense}, nil
}

// Equal reports full field equality.
func (e Event) Equal(other Event) bool {
	return e.ID == other.ID && e.Description == other.Description &&
		e.Date.Equal(other.Date) && e.Expense.Equal(other.Expense)
}

// Within reports whether the event date lies in [start, end], compared by calendar day.
func (e Event) Within(start, end time.Time) bool {
	d := CalendarDate(e.Date)
	return !d.Before(CalendarDate(start)) && !d.After(CalendarDate(end))
}

// CalendarDate normalises t to midnight UTC of its calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Task is a to-do item. Two tasks are the same task when their titles match
// ignoring case and surrounding space.
type Task struct {
	Title    string     `json:"title"`
	Deadline *time.Time `json:"deadline,omitempty"`
	Done     bool       `json:"done,omitempty"`
}

// NewTask builds a task with a trimmed title.
func NewTask(title string, deadline *time.Time) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, fmt.Errorf("%w: task title is blank", ErrInvalidRecord)
	}
	task := Task{Title: title}
	if deadline != nil {
		d := CalendarDate(*deadline)
		task.Deadline = &d
	}
	return task, nil
}

// SameTask is the weaker identity used to reject duplicate tasks.
func (t Task) SameTask(other Task) bool { return taskKey(t) == taskKey(other) }

// Equal reports full field equality.
func (t Task) Equal(other Task) bool {
	if t.Title != other.Title || t.Done != other.Done {
		return false
	}
	switch {
	case t.Deadline == nil && other.Deadline == nil:
		return true
	case t.Deadline == nil || other.Deadline == nil:
		return false
	default:
		return t.Deadline.Equal(*other.Deadline)
	}
}

func taskKey(t Task) string { return strings.ToLower(strings.TrimSpace(t.Title)) }

func cloneTask(t Task) Task {
	cp := t
	if t.Deadline != nil {
		d := *t.Deadline
		cp.Deadline = &d
	}
	return cp
}

// Attendance records whether one member attended one event.
type Attendance struct {
	EventID  EventID `json:"event_id"`
	Member   Name    `json:"member"`
	Attended bool    `json:"attended"`
}

// AttendanceKey is the composite identity of an attendance row.
type AttendanceKey struct {
	EventID EventID
	Member  Name
}

func (k AttendanceKey) String() string { return string(k.EventID) + "/" + string(k.Member) }

// NewAttendance returns an unmarked attendance row.
func NewAttendance(eventID EventID, member Name) Attendance {
	return Attendance{EventID: eventID, Member: member}
}

// Key returns the composite identity.
func (a Attendance) Key() AttendanceKey { return AttendanceKey{EventID: a.EventID, Member: a.Member} }

// MarkAttended returns a copy with Attended set. The receiver is unchanged.
func (a Attendance) MarkAttended() Attendance {
	a.Attended = true
	return a
}

// Budget bounds club spending within an inclusive date window.
type Budget struct {
	Amount Money     `json:"amount"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// NewBudget validates that the window is not inverted.
func NewBudget(amount Money, start, end time.Time) (Budget, error) {
	start, end = CalendarDate(start), CalendarDate(end)
	if end.Before(start) {
		return Budget{}, fmt.Errorf("%w: budget end %s is before start %s", ErrInvalidRecord,
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return Budget{Amount: amount, Start: start, End: end}, nil
}

// Equal reports full field equality.
func (b Budget) Equal(other Budget) bool {
	return b.Amount.Equal(other.Amount) && b.Start.Equal(other.Start) && b.End.Equal(other.End)
}
