// Package domain defines the records, value types, collections and rule
// evaluation primitives used by memberbook.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntityType identifies the type of record stored in the dataset.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityPerson identifies a club member record.
	EntityPerson EntityType = "person"
	// EntityEvent identifies an event record.
	EntityEvent EntityType = "event"
	// EntityTask identifies a task record.
	EntityTask EntityType = "task"
	// EntityAttendance identifies an attendance row for one member at one event.
	EntityAttendance EntityType = "attendance"
	// EntityBudget identifies the optional dataset budget.
	EntityBudget EntityType = "budget"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks the command from being kept.
	SeverityBlock Severity = "block"
	// SeverityWarn is reported to the caller but allows the command.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Change describes a mutation applied to the dataset since the last commit.
type Change struct {
	ID     uuid.UUID
	Entity EntityType
	Action Action
	Key    string
	Before ChangePayload
	After  ChangePayload
	At     time.Time
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate the mutations captured in the change journal.
const (
	// ActionCreate indicates an entity was added.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was replaced.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionReset indicates the whole dataset was replaced.
	ActionReset Action = "reset"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// Warnings returns the non-blocking violations in evaluation order.
func (r Result) Warnings() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity != SeverityBlock {
			out = append(out, v)
		}
	}
	return out
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	var msgs []string
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			msgs = append(msgs, fmt.Sprintf("%s: %s", v.Rule, v.Message))
		}
	}
	if len(msgs) == 0 {
		return "command blocked by rules"
	}
	return "command blocked by rules: " + strings.Join(msgs, "; ")
}
