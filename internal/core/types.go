package core

import "memberbook/pkg/domain"

type (
	EntityType         = domain.EntityType
	Severity           = domain.Severity
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	PersistentStore    = domain.PersistentStore
)

const (
	EntityPerson     = domain.EntityPerson
	EntityEvent      = domain.EntityEvent
	EntityTask       = domain.EntityTask
	EntityAttendance = domain.EntityAttendance
	EntityBudget     = domain.EntityBudget
	// EntityDataset tags history operations that swap the whole dataset.
	EntityDataset EntityType = "dataset"
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
	ActionReset  = domain.ActionReset
)
