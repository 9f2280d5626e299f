package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"memberbook/pkg/domain"
)

func mustNoError(t *testing.T, label string, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", label, err)
	}
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, value)
	mustNoError(t, "parse date", err)
	return d
}

func names(raw ...string) []domain.Name {
	out := make([]domain.Name, len(raw))
	for i, r := range raw {
		out[i] = domain.MustName(r)
	}
	return out
}

// clubDataset has two members, one event with no attendance and a budget.
func clubDataset(t *testing.T) *domain.Dataset {
	t.Helper()
	d := domain.NewDataset()
	mustNoError(t, "add alex", d.AddPerson(domain.Person{Name: "Alex", Tags: []string{"exco"}}))
	mustNoError(t, "add bernice", d.AddPerson(domain.Person{Name: "Bernice"}))
	mustNoError(t, "add charlotte", d.AddPerson(domain.Person{Name: "Charlotte"}))
	event, err := domain.NewEvent("Orientation", "Freshman orientation", day(t, "2025-08-01"), domain.MustMoney("120.50"))
	mustNoError(t, "new event", err)
	mustNoError(t, "add event", d.AddEvent(event))
	budget, err := domain.NewBudget(domain.MustMoney("500"), day(t, "2025-01-01"), day(t, "2025-12-31"))
	mustNoError(t, "new budget", err)
	d.SetBudget(budget)
	return d
}

func newClubModel(t *testing.T) *Model {
	t.Helper()
	return NewModel(clubDataset(t), ModelConfig{})
}

func sameNames(got, want []domain.Name) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

type memoryPersistence struct {
	saved   []domain.Snapshot
	failing bool
}

func (m *memoryPersistence) Load(context.Context) (domain.Snapshot, error) {
	if len(m.saved) == 0 {
		return domain.Snapshot{}, nil
	}
	return m.saved[len(m.saved)-1], nil
}

func (m *memoryPersistence) Save(_ context.Context, s domain.Snapshot) error {
	if m.failing {
		return errors.New("disk full")
	}
	m.saved = append(m.saved, s)
	return nil
}
