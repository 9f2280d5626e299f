// Command memberbook manages a club's members, events, tasks, attendance and
// budget from the command line.
//
// Usage:
//
//	memberbook <subcommand> [flags]
//
// Configuration comes from MEMBERBOOK_* environment variables; see
// internal/config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"memberbook/internal/adapters/calendar"
	"memberbook/internal/command"
	"memberbook/pkg/domain"
)

var exitFunc = os.Exit

const usage = `usage: memberbook <subcommand> [flags]

subcommands:
  add-person      -name NAME [-phone P] [-email E]
  add-event       -id ID -desc TEXT -date YYYY-MM-DD [-expense AMOUNT]
  add-attendance  -event ID -members A/B/C
  mark-attendance -event ID -members A/B/C
  show-attendance -event ID
  set-budget      -amount AMOUNT -start YYYY-MM-DD -end YYYY-MM-DD
  summary
  backup          [-keep N]
  restore         [-key KEY]
  export-ics      [-out FILE]
  import-ics      -in FILE
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	exitFunc(code)
}

func cli(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	sub, ok := subcommands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown subcommand %q\n%s", args[0], usage)
		return 2
	}
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	run := sub(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	a, err := setup(ctx, stderr)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := a.close(closeCtx); cerr != nil {
			fmt.Fprintf(stderr, "shutdown: %v\n", cerr)
		}
	}()
	if err != nil {
		fmt.Fprintf(stderr, "memberbook: %v\n", err)
		return 1
	}
	if err := run(ctx, a, stdout); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	return 0
}

type runFunc func(ctx context.Context, a *app, stdout io.Writer) error

// subcommands registers flags on fs and returns the action to run after
// parsing.
var subcommands = map[string]func(fs *flag.FlagSet) runFunc{
	"add-person":      addPersonCmd,
	"add-event":       addEventCmd,
	"add-attendance":  attendanceCmd(false),
	"mark-attendance": attendanceCmd(true),
	"show-attendance": showAttendanceCmd,
	"set-budget":      setBudgetCmd,
	"summary":         summaryCmd,
	"backup":          backupCmd,
	"restore":         restoreCmd,
	"export-ics":      exportICSCmd,
	"import-ics":      importICSCmd,
}

func execute(ctx context.Context, a *app, stdout io.Writer, cmd command.Command) error {
	res, err := a.exec.Execute(ctx, cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, res.Feedback)
	for _, w := range res.Warnings {
		fmt.Fprintf(stdout, "warning: %s\n", w.Message)
	}
	return nil
}

func addPersonCmd(fs *flag.FlagSet) runFunc {
	name := fs.String("name", "", "member name")
	phone := fs.String("phone", "", "phone number")
	email := fs.String("email", "", "email address")
	return func(ctx context.Context, a *app, stdout io.Writer) error {
		n, err := domain.NewName(*name)
		if err != nil {
			return err
		}
		p := domain.Person{Name: n, Phone: strings.TrimSpace(*phone), Email: strings.TrimSpace(*email)}
		return execute(ctx, a, stdout, command.AddPerson{Person: p})
	}
}

func addEventCmd(fs *flag.FlagSet) runFunc {
	id := fs.String("id", "", "event id")
	desc := fs.String("desc", "", "event description")
	date := fs.String("date", "", "event date (YYYY-MM-DD)")
	expense := fs.String("expense", "0", "event expense")
	return func(ctx context.Context, a *app, stdout io.Writer) error {
		eventID, err := domain.NewEventID(*id)
		if err != nil {
			return err
		}
		day, err := parseDate(*date)
		if err != nil {
			return err
		}
		money, err := domain.NewMoney(*expense)
		if err != nil {
			return err
		}
		e, err := domain.NewEvent(eventID, *desc, day, money)
		if err != nil {
			return err
		}
		return execute(ctx, a, stdout, command.AddEvent{Event: e})
	}
}

func attendanceCmd(mark bool) func(fs *flag.FlagSet) runFunc {
	return func(fs *flag.FlagSet) runFunc {
		event := fs.String("event", "", "event id")
		members := fs.String("members", "", "member names separated by '/'")
		return func(ctx context.Context, a *app, stdout io.Writer) error {
			id, err := domain.NewEventID(*event)
			if err != nil {
				return err
			}
			names, err := parseMembers(*members)
			if err != nil {
				return err
			}
			if mark {
				return execute(ctx, a, stdout, command.MarkAttendance{EventID: id, Members: names})
			}
			return execute(ctx, a, stdout, command.AddAttendance{EventID: id, Members: names})
		}
	}
}

func showAttendanceCmd(fs *flag.FlagSet) runFunc {
	event := fs.String("event", "", "event id")
	return func(ctx context.Context, a *app, stdout io.Writer) error {
		id, err := domain.NewEventID(*event)
		if err != nil {
			return err
		}
		return execute(ctx, a, stdout, command.ShowAttendance{EventID: id})
	}
}

func setBudgetCmd(fs *flag.FlagSet) runFunc {
	amount := fs.String("amount", "", "budget amount")
	start := fs.String("start", "", "window start (YYYY-MM-DD)")
	end := fs.String("end", "", "window end (YYYY-MM-DD)")
	return func(ctx context.Context, a *app, stdout io.Writer) error {
		money, err := domain.NewMoney(*amount)
		if err != nil {
			return err
		}
		from, err := parseDate(*start)
		if err != nil {
			return err
		}
		to, err := parseDate(*end)
		if err != nil {
			return err
		}
		b, err := domain.NewBudget(money, from, to)
		if err != nil {
			return err
		}
		return execute(ctx, a, stdout, command.SetBudget{Budget: b})
	}
}

func summaryCmd(*flag.FlagSet) runFunc {
	return func(ctx context.Context, a *app, stdout io.Writer) error {
		s := a.exec.Service().Model().Snapshot()
		attended := 0
		for _, row := range s.Attendance {
			if row.Attended {
				attended++
			}
		}
		fmt.Fprintf(stdout, "Persons: %d\nEvents: %d\nTasks: %d\nAttendance: %d (%d attended)\n",
			len(s.Persons), len(s.Events), len(s.Tasks), len(s.Attendance), attended)
		res, err := a.exec.Execute(ctx, command.BudgetSummary{})
		if errors.Is(err, command.ErrNoBudget) {
			fmt.Fprintln(stdout, command.MessageNoBudget)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, res.Feedback)
		return nil
	}
}

func backupCmd(fs *flag.FlagSet) runFunc {
	keep := fs.Int("keep", 0, "prune to the newest N archives after backup (0 keeps all)")
	return func(ctx context.Context, a *app, stdout io.Writer) error {
		info, err := a.archiver.Backup(ctx, a.exec.Service().Model().Snapshot())
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Backup written: %s\n", info.Key)
		if *keep <= 0 {
			return nil
		}
		removed, err := a.archiver.Prune(ctx, *keep)
		if err != nil {
			return err
		}
		for _, key := range removed {
			fmt.Fprintf(stdout, "Pruned: %s\n", key)
		}
		return nil
	}
}

func restoreCmd(fs *flag.FlagSet) runFunc {
	key := fs.String("key", "", "archive key (default latest)")
	return func(ctx context.Context, a *app, stdout io.Writer) error {
		k := strings.TrimSpace(*key)
		if k == "" {
			latest, err := a.archiver.Latest(ctx)
			if err != nil {
				return err
			}
			k = latest.Key
		}
		snapshot, err := a.archiver.Restore(ctx, k)
		if err != nil {
			return err
		}
		return execute(ctx, a, stdout, command.ResetData{Snapshot: snapshot, Source: k})
	}
}

func exportICSCmd(fs *flag.FlagSet) runFunc {
	out := fs.String("out", "", "output file (default stdout)")
	return func(_ context.Context, a *app, stdout io.Writer) error {
		s := a.exec.Service().Model().Snapshot()
		feed := calendar.Export(s.Events, s.Attendance, time.Now().UTC())
		if *out == "" {
			_, err := io.WriteString(stdout, feed)
			return err
		}
		if err := os.WriteFile(*out, []byte(feed), 0o600); err != nil {
			return fmt.Errorf("write calendar: %w", err)
		}
		fmt.Fprintf(stdout, "Calendar written: %s (%d events)\n", *out, len(s.Events))
		return nil
	}
}

// importICSCmd adds the events of a feed written by export-ics. Events whose
// id is already taken are reported and skipped.
func importICSCmd(fs *flag.FlagSet) runFunc {
	in := fs.String("in", "", "calendar file to read")
	return func(ctx context.Context, a *app, stdout io.Writer) error {
		if strings.TrimSpace(*in) == "" {
			return errors.New("import-ics: -in is required")
		}
		f, err := os.Open(*in)
		if err != nil {
			return fmt.Errorf("open calendar: %w", err)
		}
		defer f.Close()
		imported, err := calendar.ParseEvents(f)
		if err != nil {
			return err
		}
		added, skipped := 0, 0
		for _, ie := range imported {
			e, err := domain.NewEvent(ie.ID, ie.Summary, ie.Date, ie.Expense)
			if err != nil {
				return fmt.Errorf("event %s: %w", ie.ID, err)
			}
			err = execute(ctx, a, stdout, command.AddEvent{Event: e})
			switch {
			case command.IsDuplicate(err):
				fmt.Fprintf(stdout, "Skipped existing event: %s\n", ie.ID)
				skipped++
			case err != nil:
				return err
			default:
				added++
			}
		}
		fmt.Fprintf(stdout, "Calendar imported: %d added, %d skipped\n", added, skipped)
		return nil
	}
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", raw)
	}
	return t, nil
}

// parseMembers splits a '/'-separated list into validated names. Blank
// segments are rejected rather than skipped.
func parseMembers(raw string) ([]domain.Name, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("no members given")
	}
	parts := strings.Split(raw, "/")
	names := make([]domain.Name, 0, len(parts))
	for i, part := range parts {
		if strings.TrimSpace(part) == "" {
			return nil, fmt.Errorf("empty member name at position %d in %q", i+1, raw)
		}
		n, err := domain.NewName(part)
		if err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, nil
}
