package view

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/gradepulse/gradepulse/internal/application/command"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
)

// Section is a top-level area of the dashboard.
type Section string

const (
	SectionEntry    Section = "entry"
	SectionOverview Section = "overview"
	SectionReport   Section = "report"
	SectionBooks    Section = "books"
)

// ToastKind styles a notice.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// ToastDuration is how long a notice stays up.
const ToastDuration = 5 * time.Second

// maxDetail bounds the error detail quoted in a toast.
const maxDetail = 50

// Toast is a transient notice. Seq lets a stale expiry be ignored.
type Toast struct {
	Seq     int
	Kind    ToastKind
	Message string
}

// EditRow is an inline marks edit.
type EditRow struct {
	ID    string
	Marks string
}

// Dashboard holds everything the dashboard renders besides the records.
type Dashboard struct {
	Section       Section
	PendingDelete string
	Edit          *EditRow
	Toast         *Toast
	Busy          bool

	toastSeq int
}

// NewDashboard opens on the entry section.
func NewDashboard() Dashboard {
	return Dashboard{Section: SectionEntry}
}

// DashboardIntent is an event applied to a Dashboard.
type DashboardIntent interface {
	dashboardIntent()
}

type (
	SectionSelected struct{ Section Section }
	// DeleteRequested opens the confirmation modal.
	DeleteRequested struct{ ID string }
	DeleteCancelled struct{}
	EditStarted     struct {
		ID    string
		Marks float64
	}
	EditChanged   struct{ Marks string }
	EditCancelled struct{}
	// OperationStarted marks a remote call as outstanding.
	OperationStarted struct{ Kind command.Kind }
	// OperationSucceeded carries the confirmed record when there is one.
	OperationSucceeded struct {
		Kind   command.Kind
		ID     string
		Record subject.Record
	}
	OperationFailed struct {
		Kind command.Kind
		Err  error
	}
	// ToastExpired hides the toast with the given sequence number.
	ToastExpired struct{ Seq int }
)

func (SectionSelected) dashboardIntent()    {}
func (DeleteRequested) dashboardIntent()    {}
func (DeleteCancelled) dashboardIntent()    {}
func (EditStarted) dashboardIntent()        {}
func (EditChanged) dashboardIntent()        {}
func (EditCancelled) dashboardIntent()      {}
func (OperationStarted) dashboardIntent()   {}
func (OperationSucceeded) dashboardIntent() {}
func (OperationFailed) dashboardIntent()    {}
func (ToastExpired) dashboardIntent()       {}

// Reduce returns the dashboard after intent.
func (d Dashboard) Reduce(intent DashboardIntent) Dashboard {
	next := d
	if d.Edit != nil {
		e := *d.Edit
		next.Edit = &e
	}

	switch in := intent.(type) {
	case SectionSelected:
		next.Section = in.Section

	case DeleteRequested:
		if !d.Busy {
			next.PendingDelete = in.ID
		}
	case DeleteCancelled:
		next.PendingDelete = ""

	case EditStarted:
		next.Edit = &EditRow{ID: in.ID, Marks: formatMarks(in.Marks)}
	case EditChanged:
		if next.Edit != nil {
			next.Edit.Marks = in.Marks
		}
	case EditCancelled:
		next.Edit = nil

	case OperationStarted:
		next.Busy = true
		if in.Kind == command.KindDelete {
			// The modal closes as soon as the deletion is sent.
			next.PendingDelete = ""
		}

	case OperationSucceeded:
		next.Busy = false
		switch in.Kind {
		case command.KindAdd:
			next = next.withToast(ToastSuccess, fmt.Sprintf("Subject '%s' added successfully!", in.Record.Name))
		case command.KindDelete:
			next = next.withToast(ToastSuccess, fmt.Sprintf("Subject (ID: %s) successfully deleted.", in.ID))
		case command.KindUpdateMarks:
			next.Edit = nil
			next = next.withToast(ToastSuccess, fmt.Sprintf("Marks for '%s' updated to %s.", in.Record.Name, formatMarks(in.Record.Marks)))
		}

	case OperationFailed:
		next.Busy = false
		next = next.withToast(ToastError, failureMessage(in.Kind, in.Err))

	case ToastExpired:
		if d.Toast != nil && d.Toast.Seq == in.Seq {
			next.Toast = nil
		}
	}
	return next
}

func (d Dashboard) withToast(kind ToastKind, msg string) Dashboard {
	d.toastSeq++
	d.Toast = &Toast{Seq: d.toastSeq, Kind: kind, Message: msg}
	return d
}

func failureMessage(kind command.Kind, err error) string {
	detail := "unknown error"
	if err != nil {
		detail = Truncate(err.Error(), maxDetail)
	}
	switch kind {
	case command.KindLoad:
		return "Initial load failed: " + detail
	case command.KindAdd:
		return "API Error: Could not add subject."
	case command.KindDelete:
		return "Deletion failed: " + detail
	case command.KindUpdateMarks:
		return "Update failed: " + detail
	default:
		return detail
	}
}

// Truncate shortens s to n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

func formatMarks(m float64) string {
	return fmt.Sprintf("%g", m)
}
