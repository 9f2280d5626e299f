package command

import (
	"context"
	"errors"
	"fmt"

	"memberbook/internal/core"
	"memberbook/pkg/domain"
)

// ErrNoBudget is returned by BudgetSummary when no budget is set.
var ErrNoBudget = errors.New(MessageNoBudget)

// SetBudget installs or replaces the budget.
type SetBudget struct {
	Budget domain.Budget
}

func (SetBudget) Name() string { return core.OpSetBudget }

func (c SetBudget) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	res, err := svc.Mutate(ctx, c.Name(), string(domain.EntityBudget), func(m *core.Model) error {
		m.SetBudget(c.Budget)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	b := c.Budget
	return Result{
		Kind:     KindBudget,
		Payload:  b,
		Feedback: fmt.Sprintf(MessageSetBudget, b.Amount, formatDate(b.Start), formatDate(b.End)),
		Warnings: res.Warnings(),
	}, nil
}

// ClearBudget removes the budget.
type ClearBudget struct{}

func (ClearBudget) Name() string { return core.OpClearBudget }

func (c ClearBudget) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	if _, err := svc.Mutate(ctx, c.Name(), string(domain.EntityBudget), func(m *core.Model) error {
		m.ClearBudget()
		return nil
	}); err != nil {
		return Result{}, err
	}
	return Result{Kind: KindBudget, Feedback: MessageClearBudget}, nil
}

// BudgetReport is the payload of BudgetSummary.
type BudgetReport struct {
	Budget domain.Budget
	Spent  domain.Money
	Events []domain.Event
}

// OverBudget reports whether spending exceeds the budget amount.
func (r BudgetReport) OverBudget() bool { return r.Spent.Cmp(r.Budget.Amount) > 0 }

// BudgetSummary reports spending against the budget window.
type BudgetSummary struct{}

func (BudgetSummary) Name() string { return core.OpBudgetSummary }

func (c BudgetSummary) Execute(ctx context.Context, svc *core.Service) (Result, error) {
	var report BudgetReport
	err := svc.Query(ctx, c.Name(), func(m *core.Model) error {
		b, ok := m.Budget()
		if !ok {
			return ErrNoBudget
		}
		report = BudgetReport{
			Budget: b,
			Spent:  m.TotalExpensesWithin(b.Start, b.End),
			Events: m.EventsWithin(b.Start, b.End),
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	b := report.Budget
	diff := b.Amount.Decimal().Sub(report.Spent.Decimal())
	template := MessageBudgetSummary
	if report.OverBudget() {
		template = MessageOverBudget
		diff = diff.Neg()
	}
	return Result{
		Kind:    KindBudget,
		Payload: report,
		Feedback: fmt.Sprintf(template, b.Amount, formatDate(b.Start), formatDate(b.End),
			report.Spent, len(report.Events), diff.StringFixed(2)),
	}, nil
}
