package core

import (
	"context"
	"fmt"

	"memberbook/pkg/domain"
)

const attendanceIntegrityRule = "attendance_integrity"

// NewAttendanceIntegrityRule blocks duplicate (event, member) rows and warns
// about rows whose event or member no longer exists.
func NewAttendanceIntegrityRule() domain.Rule {
	return attendanceIntegrity{}
}

type attendanceIntegrity struct{}

func (attendanceIntegrity) Name() string { return attendanceIntegrityRule }

func (attendanceIntegrity) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	if !touches(changes, EntityAttendance, EntityPerson, EntityEvent) {
		return domain.Result{}, nil
	}
	res := domain.Result{}
	seen := make(map[domain.AttendanceKey]struct{})
	for _, row := range view.Attendance() {
		key := row.Key()
		if _, dup := seen[key]; dup {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     attendanceIntegrityRule,
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("member %s listed twice for event %s", row.Member, row.EventID),
				Entity:   domain.EntityAttendance,
				EntityID: key.String(),
			})
			continue
		}
		seen[key] = struct{}{}
		if _, ok := view.FindEvent(row.EventID); !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     attendanceIntegrityRule,
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("attendance row for unknown event %s", row.EventID),
				Entity:   domain.EntityAttendance,
				EntityID: key.String(),
			})
		}
		if _, ok := view.FindPerson(row.Member); !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     attendanceIntegrityRule,
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("attendance row for unknown member %s", row.Member),
				Entity:   domain.EntityAttendance,
				EntityID: key.String(),
			})
		}
	}
	return res, nil
}
