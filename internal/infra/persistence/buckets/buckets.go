// Package buckets splits a dataset snapshot into one JSON payload per
// collection for the SQL backends, which keep them in a two-column
// state(bucket, payload) table.
package buckets

import (
	"encoding/json"
	"fmt"

	"memberbook/pkg/domain"
)

// Bucket names, in write order.
const (
	Persons    = "persons"
	Events     = "events"
	Tasks      = "tasks"
	Attendance = "attendance"
	Budget     = "budget"
)

// Names lists every bucket in write order.
var Names = []string{Persons, Events, Tasks, Attendance, Budget}

// Payload is one row of the state table.
type Payload struct {
	Bucket string
	Data   []byte
}

// Encode marshals each collection of s into its own payload. An absent
// budget is encoded as JSON null.
func Encode(s domain.Snapshot) ([]Payload, error) {
	s.Normalize()
	values := map[string]any{
		Persons:    s.Persons,
		Events:     s.Events,
		Tasks:      s.Tasks,
		Attendance: s.Attendance,
		Budget:     s.Budget,
	}
	out := make([]Payload, 0, len(Names))
	for _, name := range Names {
		data, err := json.Marshal(values[name])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		out = append(out, Payload{Bucket: name, Data: data})
	}
	return out, nil
}

// Decode rebuilds a snapshot from stored payloads. Unknown buckets are
// ignored and missing ones stay empty.
func Decode(rows []Payload) (domain.Snapshot, error) {
	var s domain.Snapshot
	targets := map[string]any{
		Persons:    &s.Persons,
		Events:     &s.Events,
		Tasks:      &s.Tasks,
		Attendance: &s.Attendance,
		Budget:     &s.Budget,
	}
	for _, row := range rows {
		target, ok := targets[row.Bucket]
		if !ok || len(row.Data) == 0 {
			continue
		}
		if err := json.Unmarshal(row.Data, target); err != nil {
			return domain.Snapshot{}, fmt.Errorf("decode %s: %w", row.Bucket, err)
		}
	}
	s.Normalize()
	return s, nil
}
