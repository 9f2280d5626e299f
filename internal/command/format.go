package command

import (
	"fmt"
	"strings"
	"time"

	"memberbook/pkg/domain"
)

// User-facing message templates.
const (
	MessageAddAttendance  = "Attendance list for %s updated.\nAdded: %s%s"
	MessageMarkAttendance = "Attendance for %s marked.\nNewly marked: %s\nAlready marked: %s"
	MessageShowAttendance = "Attendance summary for %s:\nAttended (%d): %s\nAbsent (%d): %s"

	MessageAlreadyAddedSingle = "Member already in attendance list: %s"
	MessageAlreadyAddedPlural = "Members already in attendance list: %s"

	MessageAddPerson       = "New person added: %s"
	MessageDeletePerson    = "Deleted person: %s"
	MessageDuplicatePerson = "This person already exists in the address book"
	MessageAddEvent        = "New event added: %s"
	MessageDeleteEvent     = "Deleted event: %s"
	MessageDuplicateEvent  = "This event already exists in the address book"
	MessageAddTask         = "New task added: %s"
	MessageCompleteTask    = "Task completed: %s"
	MessageDuplicateTask   = "This task already exists in the task list"
	MessageSetBudget       = "Budget set: %s from %s to %s"
	MessageClearBudget     = "Budget cleared"
	MessageNoBudget        = "No budget set"
	MessageBudgetSummary   = "Budget %s from %s to %s\nSpent: %s across %d event(s)\nRemaining: %s"
	MessageOverBudget      = "Budget %s from %s to %s\nSpent: %s across %d event(s)\nOver budget by: %s"
	MessageUndoSuccess     = "Undo success!"
	MessageUndoFailure     = "No more commands to undo!"
	MessageRedoSuccess     = "Redo success!"
	MessageRedoFailure     = "No more commands to redo!"
	MessageResetData       = "Data replaced: %d person(s), %d event(s), %d task(s)"

	labelNone = "None"
)

// FormatNames joins names with ", ", or returns "None" for an empty list.
func FormatNames(names []domain.Name) string {
	if len(names) == 0 {
		return labelNone
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}

func formatAlreadyAdded(names []domain.Name) string {
	label := MessageAlreadyAddedPlural
	if len(names) == 1 {
		label = MessageAlreadyAddedSingle
	}
	return fmt.Sprintf(label, FormatNames(names))
}

func formatDate(t time.Time) string { return t.Format(time.DateOnly) }

// FormatPerson renders a member for feedback lines.
func FormatPerson(p domain.Person) string {
	var b strings.Builder
	b.WriteString(string(p.Name))
	if p.Phone != "" {
		b.WriteString("; Phone: " + p.Phone)
	}
	if p.Email != "" {
		b.WriteString("; Email: " + p.Email)
	}
	if len(p.Tags) > 0 {
		b.WriteString("; Tags: " + strings.Join(p.Tags, ", "))
	}
	return b.String()
}

// FormatEvent renders an event for feedback lines.
func FormatEvent(e domain.Event) string {
	return fmt.Sprintf("%s; Description: %s; Date: %s; Expense: %s", e.ID, e.Description, formatDate(e.Date), e.Expense)
}

// FormatTask renders a task for feedback lines.
func FormatTask(t domain.Task) string {
	if t.Deadline == nil {
		return t.Title
	}
	return fmt.Sprintf("%s; Deadline: %s", t.Title, formatDate(*t.Deadline))
}
