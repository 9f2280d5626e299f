package core

import "memberbook/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in rule set.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewAttendanceIntegrityRule())
	engine.Register(NewBudgetLimitRule())
	return engine
}

func touches(changes []domain.Change, entities ...EntityType) bool {
	for _, c := range changes {
		if c.Entity == EntityDataset {
			return true
		}
		for _, e := range entities {
			if c.Entity == e {
				return true
			}
		}
	}
	return false
}
