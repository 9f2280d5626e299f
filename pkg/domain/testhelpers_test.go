package domain

import (
	"testing"
	"time"
)

// mustNoError simplifies tests that expect helper methods to succeed.
func mustNoError(t *testing.T, label string, err error) {
	t.Helper()
	if err != nil {
		if label == "" {
			t.Fatalf("unexpected error: %v", err)
		}
		t.Fatalf("%s: %v", label, err)
	}
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, value)
	mustNoError(t, "parse date", err)
	return d
}

func sampleDataset(t *testing.T) *Dataset {
	t.Helper()
	d := NewDataset()
	mustNoError(t, "add alex", d.AddPerson(Person{Name: "Alex Yeoh", Tags: []string{"exco"}}))
	mustNoError(t, "add bernice", d.AddPerson(Person{Name: "Bernice Yu"}))
	event, err := NewEvent("Orientation", "Freshman orientation", day(t, "2025-08-01"), MustMoney("120.50"))
	mustNoError(t, "new event", err)
	mustNoError(t, "add event", d.AddEvent(event))
	deadline := day(t, "2025-07-30")
	task, err := NewTask("Book venue", &deadline)
	mustNoError(t, "new task", err)
	mustNoError(t, "add task", d.AddTask(task))
	mustNoError(t, "add attendance", d.AddAttendance(NewAttendance("Orientation", "Alex Yeoh")))
	budget, err := NewBudget(MustMoney("500"), day(t, "2025-01-01"), day(t, "2025-12-31"))
	mustNoError(t, "new budget", err)
	d.SetBudget(budget)
	return d
}
