package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MEMBERBOOK_STORAGE_DRIVER", "file")
	t.Setenv("MEMBERBOOK_STORAGE_FILE_PATH", filepath.Join(dir, "data", "memberbook.json"))
	t.Setenv("MEMBERBOOK_PREFS_PATH", filepath.Join(dir, "preferences.yaml"))
	t.Setenv("MEMBERBOOK_BLOB_DRIVER", "fs")
	t.Setenv("MEMBERBOOK_BLOB_FS_ROOT", filepath.Join(dir, "archive"))
	t.Setenv("MEMBERBOOK_LOG_LEVEL", "error")
	t.Setenv("MEMBERBOOK_METRICS_ADDR", "")
	t.Setenv("MEMBERBOOK_OTEL_ENDPOINT", "")
	return dir
}

func runCLI(t *testing.T, wantCode int, args ...string) string {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := cli(context.Background(), args, &stdout, &stderr)
	if code != wantCode {
		t.Fatalf("%v: expected exit %d, got %d\nstdout: %s\nstderr: %s", args, wantCode, code, stdout.String(), stderr.String())
	}
	if wantCode != 0 {
		return stderr.String()
	}
	return stdout.String()
}

func TestCLIAttendanceWorkflow(t *testing.T) {
	dir := useTempWorkspace(t)
	runCLI(t, 0, "add-person", "-name", "Alex", "-email", "alex@example.com")
	runCLI(t, 0, "add-person", "-name", "Bernice")
	out := runCLI(t, 0, "add-event", "-id", "Orientation", "-desc", "Freshman orientation", "-date", "2025-08-01", "-expense", "120.50")
	if !strings.Contains(out, "New event added") {
		t.Fatalf("unexpected add-event output %q", out)
	}

	out = runCLI(t, 0, "add-attendance", "-event", "Orientation", "-members", "Alex/Bernice")
	if !strings.Contains(out, "Added: Alex, Bernice") {
		t.Fatalf("unexpected add output %q", out)
	}
	out = runCLI(t, 0, "add-attendance", "-event", "Orientation", "-members", "Alex")
	if !strings.Contains(out, "Member already in attendance list: Alex") {
		t.Fatalf("expected duplicate notice, got %q", out)
	}
	runCLI(t, 0, "mark-attendance", "-event", "Orientation", "-members", "Alex")

	out = runCLI(t, 0, "show-attendance", "-event", "Orientation")
	if !strings.Contains(out, "Attended (1): Alex") || !strings.Contains(out, "Absent (1): Bernice") {
		t.Fatalf("unexpected summary %q", out)
	}

	out = runCLI(t, 0, "summary")
	if !strings.Contains(out, "Persons: 2") || !strings.Contains(out, "Attendance: 2 (1 attended)") || !strings.Contains(out, "No budget set") {
		t.Fatalf("unexpected summary %q", out)
	}
	runCLI(t, 0, "set-budget", "-amount", "500", "-start", "2025-01-01", "-end", "2025-12-31")
	out = runCLI(t, 0, "summary")
	if !strings.Contains(out, "Spent: 120.50 across 1 event(s)") {
		t.Fatalf("expected budget totals, got %q", out)
	}

	icsPath := filepath.Join(dir, "events.ics")
	runCLI(t, 0, "export-ics", "-out", icsPath)
	raw, err := os.ReadFile(icsPath)
	if err != nil {
		t.Fatalf("read ics: %v", err)
	}
	if !strings.Contains(string(raw), "UID:Orientation@memberbook") {
		t.Fatalf("calendar missing event:\n%s", raw)
	}
}

func TestCLIBackupAndRestore(t *testing.T) {
	useTempWorkspace(t)
	runCLI(t, 0, "add-person", "-name", "Alex")
	out := runCLI(t, 0, "backup", "-keep", "3")
	if !strings.Contains(out, "Backup written: backups/") {
		t.Fatalf("unexpected backup output %q", out)
	}
	runCLI(t, 0, "add-person", "-name", "Bernice")

	out = runCLI(t, 0, "restore")
	if !strings.Contains(out, "Data replaced: 1 person(s), 0 event(s), 0 task(s)") {
		t.Fatalf("unexpected restore output %q", out)
	}
	out = runCLI(t, 0, "summary")
	if !strings.Contains(out, "Persons: 1") {
		t.Fatalf("restore should drop Bernice, got %q", out)
	}
}

func TestCLIErrors(t *testing.T) {
	useTempWorkspace(t)
	if errOut := runCLI(t, 2); !strings.Contains(errOut, "usage") {
		t.Fatalf("expected usage, got %q", errOut)
	}
	if errOut := runCLI(t, 2, "frobnicate"); !strings.Contains(errOut, "unknown subcommand") {
		t.Fatalf("expected unknown subcommand, got %q", errOut)
	}
	if errOut := runCLI(t, 1, "show-attendance", "-event", "Missing"); !strings.Contains(errOut, "Event not found") {
		t.Fatalf("expected event not found, got %q", errOut)
	}
	if errOut := runCLI(t, 1, "add-attendance", "-event", "Missing", "-members", " "); !strings.Contains(errOut, "no members given") {
		t.Fatalf("expected empty member list error, got %q", errOut)
	}
	if errOut := runCLI(t, 1, "restore"); !strings.Contains(errOut, "no archives") {
		t.Fatalf("expected missing archive error, got %q", errOut)
	}

	t.Setenv("MEMBERBOOK_STORAGE_DRIVER", "floppy")
	if errOut := runCLI(t, 1, "summary"); !strings.Contains(errOut, "unknown storage driver") {
		t.Fatalf("expected config error, got %q", errOut)
	}
}

func TestParseMembersRejectsBlankSegments(t *testing.T) {
	for _, raw := range []string{"Alex//Bernice", "Alex/", "/Alex", "Alex/ /Bernice"} {
		if names, err := parseMembers(raw); err == nil || !strings.Contains(err.Error(), "empty member name") {
			t.Fatalf("parseMembers(%q) = %v, %v; want empty member error", raw, names, err)
		}
	}
	names, err := parseMembers(" Alex / Bernice ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(names) != 2 || names[0] != "Alex" || names[1] != "Bernice" {
		t.Fatalf("expected trimmed names, got %v", names)
	}
}

func TestCLIRejectsBlankMemberSegment(t *testing.T) {
	useTempWorkspace(t)
	errOut := runCLI(t, 1, "add-attendance", "-event", "Orientation", "-members", "Alex//Bernice")
	if !strings.Contains(errOut, "empty member name at position 2") {
		t.Fatalf("expected blank segment error, got %q", errOut)
	}
}

func TestCLIImportICSAddsNewEventsAndSkipsExisting(t *testing.T) {
	dir := useTempWorkspace(t)
	runCLI(t, 0, "add-event", "-id", "Orientation", "-desc", "Freshman orientation", "-date", "2025-08-01", "-expense", "120.50")
	runCLI(t, 0, "add-event", "-id", "Camp", "-desc", "Leadership camp", "-date", "2025-09-12")
	icsPath := filepath.Join(dir, "events.ics")
	runCLI(t, 0, "export-ics", "-out", icsPath)

	useTempWorkspace(t)
	runCLI(t, 0, "add-event", "-id", "Camp", "-desc", "Camp kept locally", "-date", "2025-09-13")
	out := runCLI(t, 0, "import-ics", "-in", icsPath)
	if !strings.Contains(out, "Skipped existing event: Camp") || !strings.Contains(out, "Calendar imported: 1 added, 1 skipped") {
		t.Fatalf("unexpected import output %q", out)
	}
	runCLI(t, 0, "set-budget", "-amount", "500", "-start", "2025-01-01", "-end", "2025-12-31")
	out = runCLI(t, 0, "summary")
	if !strings.Contains(out, "Events: 2") || !strings.Contains(out, "Spent: 120.50 across 2 event(s)") {
		t.Fatalf("expected imported event with its expense, got %q", out)
	}

	if errOut := runCLI(t, 1, "import-ics"); !strings.Contains(errOut, "-in is required") {
		t.Fatalf("expected missing flag error, got %q", errOut)
	}
	if errOut := runCLI(t, 1, "import-ics", "-in", filepath.Join(dir, "missing.ics")); !strings.Contains(errOut, "open calendar") {
		t.Fatalf("expected open error, got %q", errOut)
	}
}
