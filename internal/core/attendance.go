package core

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"memberbook/pkg/domain"
)

// Attendance failure kinds. AttendanceError unwraps to one of them.
var (
	ErrEventNotFound         = errors.New("event not found")
	ErrMemberNotFound        = errors.New("member not found")
	ErrMemberNotInAttendance = errors.New("member not in attendance list")
)

// AttendanceError is the single failure type of the attendance operations.
// Its message is the user-facing reason.
type AttendanceError struct {
	Kind    error
	EventID domain.EventID
	Member  domain.Name
}

func (e *AttendanceError) Error() string {
	switch e.Kind {
	case ErrEventNotFound:
		return "Event not found"
	case ErrMemberNotFound:
		return fmt.Sprintf("Member not found: %s", e.Member)
	case ErrMemberNotInAttendance:
		return fmt.Sprintf("Member not found in attendance list: %s", e.Member)
	default:
		return e.Kind.Error()
	}
}

func (e *AttendanceError) Unwrap() error { return e.Kind }

// AddAttendanceResult reports which members were added to an event and which
// were already on its list.
type AddAttendanceResult struct {
	event      domain.Event
	added      []domain.Name
	duplicates []domain.Name
}

// Event is the resolved event.
func (r AddAttendanceResult) Event() domain.Event { return r.event }

// Added lists newly added members in request order.
func (r AddAttendanceResult) Added() []domain.Name { return slices.Clone(r.added) }

// Duplicates lists members that already had a row, in request order.
func (r AddAttendanceResult) Duplicates() []domain.Name { return slices.Clone(r.duplicates) }

// MarkAttendanceResult reports which members were marked by the call.
type MarkAttendanceResult struct {
	event         domain.Event
	newlyMarked   []domain.Name
	alreadyMarked []domain.Name
}

// Event is the resolved event.
func (r MarkAttendanceResult) Event() domain.Event { return r.event }

// NewlyMarked lists members flipped to attended by this call.
func (r MarkAttendanceResult) NewlyMarked() []domain.Name { return slices.Clone(r.newlyMarked) }

// AlreadyMarked lists members that were attended before the call.
func (r MarkAttendanceResult) AlreadyMarked() []domain.Name { return slices.Clone(r.alreadyMarked) }

// AttendanceSummary partitions one event's attendance list.
type AttendanceSummary struct {
	event    domain.Event
	attended []domain.Name
	absent   []domain.Name
}

// Event is the resolved event.
func (s AttendanceSummary) Event() domain.Event { return s.event }

// Attended lists members marked attended, in list order.
func (s AttendanceSummary) Attended() []domain.Name { return slices.Clone(s.attended) }

// Absent lists members not marked, in list order.
func (s AttendanceSummary) Absent() []domain.Name { return slices.Clone(s.absent) }

// AttendedCount is len(Attended()).
func (s AttendanceSummary) AttendedCount() int { return len(s.attended) }

// AbsentCount is len(Absent()).
func (s AttendanceSummary) AbsentCount() int { return len(s.absent) }

// dedupeNames drops repeats and keeps the first occurrence of each name.
func dedupeNames(names []domain.Name) []domain.Name {
	seen := make(map[domain.Name]struct{}, len(names))
	out := make([]domain.Name, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// AddAttendance puts members on the attendance list of event id.
//
// Names are processed in first-occurrence order. The first unknown member
// aborts the call with ErrMemberNotFound; rows already added by the same call
// stay in place and the caller decides whether to restore the last commit.
func (m *Model) AddAttendance(_ context.Context, id domain.EventID, names []domain.Name) (AddAttendanceResult, error) {
	data := m.store.dataset()
	event, ok := data.FindEvent(id)
	if !ok {
		return AddAttendanceResult{}, &AttendanceError{Kind: ErrEventNotFound, EventID: id}
	}
	res := AddAttendanceResult{event: event}
	for _, name := range dedupeNames(names) {
		if _, ok := data.FindPerson(name); !ok {
			m.logger.Warn("attendance add aborted", "event", id, "member", name)
			return AddAttendanceResult{}, &AttendanceError{Kind: ErrMemberNotFound, EventID: id, Member: name}
		}
		if _, exists := data.FindAttendance(id, name); exists {
			res.duplicates = append(res.duplicates, name)
			continue
		}
		if err := m.store.AddAttendance(domain.NewAttendance(id, name)); err != nil {
			return AddAttendanceResult{}, err
		}
		res.added = append(res.added, name)
	}
	m.logger.Info("attendance added", "event", id, "added", len(res.added), "duplicates", len(res.duplicates))
	return res, nil
}

// MarkAttendance marks members of event id as attended. Every member must
// already be on the event's attendance list; the first one that is not aborts
// the call with ErrMemberNotInAttendance, keeping marks made before it.
func (m *Model) MarkAttendance(_ context.Context, id domain.EventID, names []domain.Name) (MarkAttendanceResult, error) {
	data := m.store.dataset()
	event, ok := data.FindEvent(id)
	if !ok {
		return MarkAttendanceResult{}, &AttendanceError{Kind: ErrEventNotFound, EventID: id}
	}
	index := m.attendanceIndex(data, id)
	res := MarkAttendanceResult{event: event}
	for _, name := range dedupeNames(names) {
		row, ok := index[name]
		if !ok {
			m.logger.Warn("attendance mark aborted", "event", id, "member", name)
			return MarkAttendanceResult{}, &AttendanceError{Kind: ErrMemberNotInAttendance, EventID: id, Member: name}
		}
		if row.Attended {
			res.alreadyMarked = append(res.alreadyMarked, name)
			continue
		}
		marked := row.MarkAttended()
		if err := m.store.SetAttendance(row, marked); err != nil {
			return MarkAttendanceResult{}, err
		}
		index[name] = marked
		res.newlyMarked = append(res.newlyMarked, name)
	}
	m.logger.Info("attendance marked", "event", id, "newly", len(res.newlyMarked), "already", len(res.alreadyMarked))
	return res, nil
}

// ShowAttendance partitions the attendance list of event id into attended and
// absent members without mutating anything.
func (m *Model) ShowAttendance(_ context.Context, id domain.EventID) (AttendanceSummary, error) {
	data := m.store.dataset()
	event, ok := data.FindEvent(id)
	if !ok {
		return AttendanceSummary{}, &AttendanceError{Kind: ErrEventNotFound, EventID: id}
	}
	summary := AttendanceSummary{event: event}
	for _, row := range data.AttendanceFor(id) {
		if row.Attended {
			summary.attended = append(summary.attended, row.Member)
		} else {
			summary.absent = append(summary.absent, row.Member)
		}
	}
	return summary, nil
}

// HasAttendance reports whether member has a row for event id.
func (m *Model) HasAttendance(id domain.EventID, member domain.Name) bool {
	_, ok := m.store.dataset().FindAttendance(id, member)
	return ok
}

// attendanceIndex maps member to row for one event.
func (m *Model) attendanceIndex(data *domain.Dataset, id domain.EventID) map[domain.Name]domain.Attendance {
	return indexAttendance(m.logger, data.AttendanceFor(id))
}

// indexAttendance keys rows by member. Rows read from a Dataset cannot repeat a
// member, since its attendance list is keyed by (EventID, Member) and rejects a
// second row on Add. The duplicate branch therefore only fires for slices built
// outside a Dataset, or if that key ever changes; the row is reported through
// invariantViolated and ignored.
func indexAttendance(logger Logger, rows []domain.Attendance) map[domain.Name]domain.Attendance {
	index := make(map[domain.Name]domain.Attendance, len(rows))
	for _, row := range rows {
		if _, dup := index[row.Member]; dup {
			invariantViolated(logger, "duplicate attendance row", "event", row.EventID, "member", row.Member)
			continue
		}
		index[row.Member] = row
	}
	return index
}
