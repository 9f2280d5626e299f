//go:build !release

package core

import (
	"errors"
	"testing"

	"memberbook/pkg/domain"
)

func TestDuplicateAttendanceIndexPanicsInStrictBuilds(t *testing.T) {
	if !strictInvariants {
		t.Skipf("strict invariants disabled")
	}
	rows := []domain.Attendance{
		domain.NewAttendance("Orientation", "Alex"),
		domain.NewAttendance("Orientation", "Alex"),
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected duplicate index entry to panic")
		}
	}()
	indexAttendance(noopLogger{}, rows)
}

func TestAttendanceIndexKeysByMember(t *testing.T) {
	rows := []domain.Attendance{
		domain.NewAttendance("Orientation", "Alex"),
		{EventID: "Orientation", Member: "Bernice", Attended: true},
	}
	index := indexAttendance(noopLogger{}, rows)
	if len(index) != 2 || !index["Bernice"].Attended {
		t.Fatalf("unexpected index %+v", index)
	}
}

func TestDatasetRowsNeverRepeatAMemberPerEvent(t *testing.T) {
	data := domain.NewDataset()
	mustNoError(t, "first row", data.AddAttendance(domain.NewAttendance("Orientation", "Alex")))
	if err := data.AddAttendance(domain.NewAttendance("Orientation", "Alex")); !errors.Is(err, domain.ErrDuplicateEntity) {
		t.Fatalf("expected duplicate row to be rejected, got %v", err)
	}
	mustNoError(t, "other event", data.AddAttendance(domain.NewAttendance("Camp", "Alex")))

	index := indexAttendance(noopLogger{}, data.AttendanceFor("Orientation"))
	if len(index) != 1 || index["Alex"].EventID != "Orientation" {
		t.Fatalf("unexpected index %+v", index)
	}
}
