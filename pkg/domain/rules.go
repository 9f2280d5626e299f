package domain

import (
	"context"
	"time"
)

// RuleView provides read-only access to the dataset for rule evaluation.
// *Dataset satisfies it.
type RuleView interface {
	Persons() []Person
	Events() []Event
	Tasks() []Task
	Attendance() []Attendance
	FindPerson(name Name) (Person, bool)
	FindEvent(id EventID) (Event, bool)
	Budget() (Budget, bool)
	TotalExpensesWithin(start, end time.Time) Money
}

// Rule defines an evaluation executed after a mutating command.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rule names in evaluation order.
func (e *RulesEngine) Rules() []string {
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		names = append(names, r.Name())
	}
	return names
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, changes)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
