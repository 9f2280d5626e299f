package core

import (
	"context"
	"fmt"
	"time"

	"memberbook/pkg/domain"
)

const budgetLimitRule = "budget_limit"

// NewBudgetLimitRule warns when event expenses inside the budget window exceed
// the budget amount.
func NewBudgetLimitRule() domain.Rule {
	return budgetLimit{}
}

type budgetLimit struct{}

func (budgetLimit) Name() string { return budgetLimitRule }

func (budgetLimit) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	if !touches(changes, EntityEvent, EntityBudget) {
		return domain.Result{}, nil
	}
	budget, ok := view.Budget()
	if !ok {
		return domain.Result{}, nil
	}
	spent := view.TotalExpensesWithin(budget.Start, budget.End)
	if spent.Cmp(budget.Amount) <= 0 {
		return domain.Result{}, nil
	}
	return domain.Result{Violations: []domain.Violation{{
		Rule:     budgetLimitRule,
		Severity: domain.SeverityWarn,
		Message: fmt.Sprintf("expenses %s exceed budget %s for %s to %s", spent, budget.Amount,
			budget.Start.Format(time.DateOnly), budget.End.Format(time.DateOnly)),
		Entity: domain.EntityBudget,
	}}}, nil
}
