package domain

import (
	"fmt"
)

// Snapshot is the serialisable form of a Dataset.
type Snapshot struct {
	Persons    []Person     `json:"persons"`
	Events     []Event      `json:"events"`
	Tasks      []Task       `json:"tasks"`
	Attendance []Attendance `json:"attendance"`
	Budget     *Budget      `json:"budget,omitempty"`
}

// Normalize replaces nil collections with empty ones so encoders emit [].
func (s *Snapshot) Normalize() {
	if s.Persons == nil {
		s.Persons = []Person{}
	}
	if s.Events == nil {
		s.Events = []Event{}
	}
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	if s.Attendance == nil {
		s.Attendance = []Attendance{}
	}
}

// Snapshot captures the dataset as plain slices.
func (d *Dataset) Snapshot() Snapshot {
	s := Snapshot{
		Persons:    d.persons.Items(),
		Events:     d.events.Items(),
		Tasks:      d.tasks.Items(),
		Attendance: d.attendance.Items(),
	}
	if b, ok := d.Budget(); ok {
		s.Budget = &b
	}
	return s
}

// DatasetFromSnapshot validates s and rebuilds a dataset from it. Values are
// re-validated since snapshots usually come from disk.
func DatasetFromSnapshot(s Snapshot) (*Dataset, error) {
	d := NewDataset()
	for _, p := range s.Persons {
		name, err := NewName(string(p.Name))
		if err != nil {
			return nil, fmt.Errorf("person: %w", err)
		}
		p.Name = name
		if err := d.persons.Add(p); err != nil {
			return nil, err
		}
	}
	for _, e := range s.Events {
		id, err := NewEventID(string(e.ID))
		if err != nil {
			return nil, fmt.Errorf("event: %w", err)
		}
		e.ID = id
		e.Date = CalendarDate(e.Date)
		if err := d.events.Add(e); err != nil {
			return nil, err
		}
	}
	for _, t := range s.Tasks {
		task, err := NewTask(t.Title, t.Deadline)
		if err != nil {
			return nil, err
		}
		task.Done = t.Done
		if err := d.tasks.Add(task); err != nil {
			return nil, err
		}
	}
	for _, a := range s.Attendance {
		id, err := NewEventID(string(a.EventID))
		if err != nil {
			return nil, fmt.Errorf("attendance: %w", err)
		}
		member, err := NewName(string(a.Member))
		if err != nil {
			return nil, fmt.Errorf("attendance: %w", err)
		}
		a.EventID, a.Member = id, member
		if err := d.attendance.Add(a); err != nil {
			return nil, err
		}
	}
	if s.Budget != nil {
		b, err := NewBudget(s.Budget.Amount, s.Budget.Start, s.Budget.End)
		if err != nil {
			return nil, err
		}
		d.SetBudget(b)
	}
	return d, nil
}
