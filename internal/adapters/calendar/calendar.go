// Package calendar renders club events as an iCalendar feed and reads such a
// feed back.
package calendar

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"memberbook/pkg/domain"
)

const (
	productID = "-//memberbook//events//EN"
	uidSuffix = "@memberbook"
)

// Export renders one all-day VEVENT per event. The description carries the
// expense and the attended/absent counts from attendance. stamp is written as
// DTSTAMP on every event.
func Export(events []domain.Event, attendance []domain.Attendance, stamp time.Time) string {
	attended := make(map[domain.EventID]int)
	absent := make(map[domain.EventID]int)
	for _, row := range attendance {
		if row.Attended {
			attended[row.EventID]++
		} else {
			absent[row.EventID]++
		}
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	for _, e := range events {
		date := domain.CalendarDate(e.Date)
		ev := cal.AddEvent(string(e.ID) + uidSuffix)
		ev.SetDtStampTime(stamp.UTC())
		ev.SetAllDayStartAt(date)
		ev.SetAllDayEndAt(date.AddDate(0, 0, 1))
		ev.SetSummary(e.Description)
		ev.SetDescription(fmt.Sprintf("Expense: %s\nAttended: %d\nAbsent: %d",
			e.Expense, attended[e.ID], absent[e.ID]))
	}
	return cal.Serialize()
}

// ImportedEvent is an event read back from a feed.
type ImportedEvent struct {
	ID      domain.EventID
	Summary string
	Date    time.Time
	Expense domain.Money
}

// ParseEvents reads the events of a feed produced by Export. VEVENTs whose
// UID was not issued by Export are skipped. The expense comes from the
// description's "Expense:" line and is zero when that line is absent.
func ParseEvents(r io.Reader) ([]ImportedEvent, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}
	var out []ImportedEvent
	for _, ve := range cal.Events() {
		uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
		if uid == nil || !strings.HasSuffix(uid.Value, uidSuffix) {
			continue
		}
		id, err := domain.NewEventID(strings.TrimSuffix(uid.Value, uidSuffix))
		if err != nil {
			return nil, fmt.Errorf("event uid %q: %w", uid.Value, err)
		}
		imported := ImportedEvent{ID: id}
		if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
			imported.Summary = p.Value
		}
		start, err := ve.GetAllDayStartAt()
		if err != nil {
			return nil, fmt.Errorf("event %s start: %w", id, err)
		}
		imported.Date = domain.CalendarDate(start)
		imported.Expense = domain.ZeroMoney()
		if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
			if imported.Expense, err = expenseFromDescription(p.Value); err != nil {
				return nil, fmt.Errorf("event %s: %w", id, err)
			}
		}
		out = append(out, imported)
	}
	return out, nil
}

func expenseFromDescription(desc string) (domain.Money, error) {
	desc = strings.ReplaceAll(desc, `\n`, "\n")
	for _, line := range strings.Split(desc, "\n") {
		if raw, ok := strings.CutPrefix(strings.TrimSpace(line), "Expense:"); ok {
			return domain.NewMoney(raw)
		}
	}
	return domain.ZeroMoney(), nil
}

// ParseEventIDs returns the event ids of a feed in feed order.
func ParseEventIDs(feed string) ([]domain.EventID, error) {
	if strings.TrimSpace(feed) == "" {
		return nil, errors.New("empty calendar feed")
	}
	events, err := ParseEvents(strings.NewReader(feed))
	if err != nil {
		return nil, err
	}
	ids := make([]domain.EventID, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids, nil
}
