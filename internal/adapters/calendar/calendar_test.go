package calendar

import (
	"errors"
	"strings"
	"testing"
	"time"

	"memberbook/pkg/domain"
)

func sampleEvents() []domain.Event {
	return []domain.Event{
		{ID: "Orientation2023", Description: "Freshman orientation", Date: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), Expense: domain.MustMoney("120.5")},
		{ID: "Camp", Description: "Leadership camp", Date: time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC), Expense: domain.ZeroMoney()},
	}
}

func TestExportRendersAllDayEvents(t *testing.T) {
	attendance := []domain.Attendance{
		{EventID: "Orientation2023", Member: "Alex", Attended: true},
		{EventID: "Orientation2023", Member: "Bernice"},
	}
	feed := Export(sampleEvents(), attendance, time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC))

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"PRODID:-//memberbook//events//EN",
		"UID:Orientation2023@memberbook",
		"SUMMARY:Freshman orientation",
		"DTSTART;VALUE=DATE:20250801",
		"DTEND;VALUE=DATE:20250802",
		"UID:Camp@memberbook",
	} {
		if !strings.Contains(feed, want) {
			t.Fatalf("feed missing %q:\n%s", want, feed)
		}
	}
	if !strings.Contains(feed, `Attended: 1\nAbsent: 1`) {
		t.Fatalf("expected escaped attendance counts in description:\n%s", feed)
	}
}

func TestParseRoundTrip(t *testing.T) {
	feed := Export(sampleEvents(), nil, time.Now())
	ids, err := ParseEventIDs(feed)
	if err != nil {
		t.Fatalf("parse ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != "Orientation2023" || ids[1] != "Camp" {
		t.Fatalf("unexpected ids %v", ids)
	}
	events, err := ParseEvents(strings.NewReader(feed))
	if err != nil {
		t.Fatalf("parse events: %v", err)
	}
	if events[1].Summary != "Leadership camp" || !events[1].Date.Equal(time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected imported event %+v", events[1])
	}
	if !events[0].Expense.Equal(domain.MustMoney("120.50")) || !events[1].Expense.IsZero() {
		t.Fatalf("expected expenses to survive the round trip, got %s and %s", events[0].Expense, events[1].Expense)
	}
}

func TestParseEventsRejectsMalformedExpense(t *testing.T) {
	feed := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//memberbook//events//EN\r\nBEGIN:VEVENT\r\nUID:Camp@memberbook\r\nDTSTART;VALUE=DATE:20250912\r\nSUMMARY:Camp\r\nDESCRIPTION:Expense: lots\\nAttended: 0\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
	if _, err := ParseEvents(strings.NewReader(feed)); !errors.Is(err, domain.ErrInvalidMoney) {
		t.Fatalf("expected invalid money error, got %v", err)
	}
}

func TestParseSkipsForeignEventsAndRejectsEmptyFeed(t *testing.T) {
	foreign := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//other//EN\r\nBEGIN:VEVENT\r\nUID:abc@example.com\r\nDTSTART;VALUE=DATE:20250101\r\nSUMMARY:Other\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
	ids, err := ParseEventIDs(foreign)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected foreign events to be skipped, got %v", ids)
	}
	if _, err := ParseEventIDs("  "); err == nil {
		t.Fatalf("expected empty feed error")
	}
}
