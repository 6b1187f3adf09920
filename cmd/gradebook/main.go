// Package main is the GradePulse command line client. It keeps a local
// copy of the subject collection in sync with the REST API and prints the
// analytics report computed from that copy.
//
// Usage:
//
//	gradebook [-api URL] [-timeout 10s] [-v] <command> [flags]
//
// Commands: list, report, add, update-marks, delete, books.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gradepulse/gradepulse/config"
	"github.com/gradepulse/gradepulse/internal/application/command"
	"github.com/gradepulse/gradepulse/internal/application/query"
	"github.com/gradepulse/gradepulse/internal/application/store"
	"github.com/gradepulse/gradepulse/internal/application/view"
	"github.com/gradepulse/gradepulse/internal/domain/library"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
	"github.com/gradepulse/gradepulse/internal/infrastructure/external/subjectsapi"
	"github.com/gradepulse/gradepulse/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles what every subcommand needs.
type app struct {
	ctrl    *command.Controller
	catalog *library.Catalog
	board   view.Dashboard
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	timeout time.Duration
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("gradebook", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", cfg.Remote.BaseURL, "subjects API base URL")
	timeout := fs.Duration("timeout", cfg.Remote.RequestTimeout, "timeout per command")
	verbose := fs.Bool("v", false, "log debug output to stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: gradebook [flags] <list|report|add|update-marks|delete|books> [command flags]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	level := logger.LevelWarn
	if *verbose {
		level = logger.LevelDebug
	}
	log := logger.New(logger.Options{Output: stderr, Level: level, Format: logger.FormatText})

	clientCfg := subjectsapi.DefaultClientConfig(*apiURL)
	clientCfg.Timeout = cfg.Remote.RequestTimeout
	clientCfg.BreakerThreshold = cfg.Remote.CircuitBreakerThreshold
	clientCfg.BreakerCooldown = cfg.Remote.CircuitBreakerTimeout
	clientCfg.Logger = log

	catalog, err := library.DefaultCatalog()
	if err != nil {
		return err
	}

	a := &app{
		ctrl:    command.NewController(subjectsapi.NewClient(clientCfg), store.New(log), log),
		catalog: catalog,
		board:   view.NewDashboard(),
		in:      bufio.NewReader(stdin),
		out:     stdout,
		errOut:  stderr,
		timeout: *timeout,
	}

	name, rest := fs.Arg(0), fs.Args()[1:]
	switch name {
	case "list":
		return a.list(ctx)
	case "report":
		return a.report(ctx)
	case "add":
		return a.add(ctx, rest)
	case "update-marks":
		return a.updateMarks(ctx, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "books":
		return a.books(ctx, rest)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", name)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

func (a *app) list(ctx context.Context) error {
	if err := a.load(ctx); err != nil {
		return err
	}
	renderSubjects(a.out, a.ctrl.Store().Snapshot())
	return nil
}

func (a *app) report(ctx context.Context) error {
	if err := a.load(ctx); err != nil {
		return err
	}
	rep, err := query.NewGetReportHandler(a.ctrl.Store()).Handle(ctx)
	if err != nil {
		return err
	}
	renderReport(a.out, rep)
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	name := fs.String("name", "", "subject name")
	marks := fs.String("marks", "", "marks, 0-100")
	credits := fs.String("credits", "", "credits, > 0")
	exam := fs.String("exam", string(subject.ExamMidterm), "exam type: Quiz, Midterm, Final or Assignment")
	if err := fs.Parse(args); err != nil {
		return err
	}

	examType, err := subject.ParseExamType(*exam)
	if err != nil {
		return err
	}

	form := view.NewEntryForm().
		Reduce(view.FieldChanged{Field: subject.FieldName, Value: *name}).
		Reduce(view.FieldChanged{Field: subject.FieldMarks, Value: *marks}).
		Reduce(view.FieldChanged{Field: subject.FieldCredits, Value: *credits}).
		Reduce(view.ExamTypeChanged{ExamType: examType}).
		Reduce(view.SubmitStarted{})
	if !form.Submitting {
		renderFieldErrors(a.errOut, form.Errors)
		return &subject.ValidationError{Fields: form.Errors}
	}

	opCtx, cancel := a.opContext(ctx)
	defer cancel()

	a.apply(view.OperationStarted{Kind: command.KindAdd})
	rec, err := a.ctrl.Add(opCtx, command.AddSubjectCommand{Draft: form.Draft, ExamType: form.ExamType})
	if err != nil {
		return a.fail(command.KindAdd, err)
	}
	a.apply(view.OperationSucceeded{Kind: command.KindAdd, ID: rec.ID, Record: rec})
	renderSubjects(a.out, []subject.Record{rec})
	return nil
}

func (a *app) updateMarks(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update-marks", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	id := fs.String("id", "", "subject id")
	marks := fs.String("marks", "", "new marks, 0-100")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// The record must be in the store for the notice to carry its name.
	if err := a.load(ctx); err != nil {
		return err
	}

	opCtx, cancel := a.opContext(ctx)
	defer cancel()

	a.apply(view.OperationStarted{Kind: command.KindUpdateMarks})
	rec, err := a.ctrl.UpdateMarks(opCtx, command.UpdateMarksCommand{ID: *id, Marks: *marks})
	if err != nil {
		return a.fail(command.KindUpdateMarks, err)
	}
	a.apply(view.OperationSucceeded{Kind: command.KindUpdateMarks, ID: rec.ID, Record: rec})
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	id := fs.String("id", "", "subject id")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*id) == "" {
		return errors.New("delete: -id is required")
	}

	a.apply(view.DeleteRequested{ID: *id})
	if !*yes && !a.confirm(fmt.Sprintf("Delete subject %s? [y/N] ", *id)) {
		a.apply(view.DeleteCancelled{})
		fmt.Fprintln(a.out, "Deletion cancelled.")
		return nil
	}

	opCtx, cancel := a.opContext(ctx)
	defer cancel()

	a.apply(view.OperationStarted{Kind: command.KindDelete})
	if err := a.ctrl.Delete(opCtx, command.DeleteSubjectCommand{ID: *id}); err != nil {
		return a.fail(command.KindDelete, err)
	}
	a.apply(view.OperationSucceeded{Kind: command.KindDelete, ID: *id})
	return nil
}

func (a *app) books(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("books", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	subj := fs.String("subject", "", "subject name (default: first subject)")
	page := fs.Int("page", 1, "number of pages to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.load(ctx); err != nil {
		return err
	}
	res, err := query.NewSuggestBooksHandler(a.ctrl.Store(), a.catalog).
		Handle(ctx, query.SuggestBooksQuery{Subject: *subj, Page: *page})
	if err != nil {
		return err
	}
	renderBooks(a.out, res)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func (a *app) load(ctx context.Context) error {
	opCtx, cancel := a.opContext(ctx)
	defer cancel()

	a.apply(view.OperationStarted{Kind: command.KindLoad})
	if err := a.ctrl.Load(opCtx); err != nil {
		return a.fail(command.KindLoad, err)
	}
	a.apply(view.OperationSucceeded{Kind: command.KindLoad})
	return nil
}

func (a *app) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

// apply reduces intent into the dashboard and prints a new toast.
func (a *app) apply(intent view.DashboardIntent) {
	before := a.board.Toast
	a.board = a.board.Reduce(intent)
	if t := a.board.Toast; t != nil && t != before {
		w := a.out
		if t.Kind == view.ToastError {
			w = a.errOut
		}
		fmt.Fprintln(w, t.Message)
	}
}

func (a *app) fail(kind command.Kind, err error) error {
	a.apply(view.OperationFailed{Kind: kind, Err: err})
	var ve *subject.ValidationError
	if errors.As(err, &ve) {
		renderFieldErrors(a.errOut, ve.Fields)
	}
	return err
}

func (a *app) confirm(prompt string) bool {
	fmt.Fprint(a.out, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
