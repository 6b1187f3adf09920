// Package view holds presentation state as plain values with reducers.
// Rendering code reads the state; user and sync events are fed back in as
// intents. Nothing here talks to the network.
package view

import (
	"errors"

	"github.com/gradepulse/gradepulse/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTRY FORM
// ══════════════════════════════════════════════════════════════════════════════

// EntryForm is the subject entry form.
type EntryForm struct {
	Draft      subject.Draft
	ExamType   subject.ExamType
	Errors     subject.FieldErrors
	Submitting bool
}

// NewEntryForm returns an empty form with Midterm selected.
func NewEntryForm() EntryForm {
	return EntryForm{ExamType: subject.ExamMidterm, Errors: subject.FieldErrors{}}
}

// FormIntent is an event applied to an EntryForm.
type FormIntent interface {
	formIntent()
}

// FieldChanged is a keystroke in one input. Only that field is revalidated.
type FieldChanged struct {
	Field subject.Field
	Value string
}

// ExamTypeChanged selects another exam type.
type ExamTypeChanged struct {
	ExamType subject.ExamType
}

// SubmitStarted runs full validation; the form enters Submitting only when
// every field passes.
type SubmitStarted struct{}

// SubmitSucceeded clears the text inputs. The exam type is kept.
type SubmitSucceeded struct{}

// SubmitFailed ends the submission. Field errors in Err are shown inline.
type SubmitFailed struct {
	Err error
}

func (FieldChanged) formIntent()    {}
func (ExamTypeChanged) formIntent() {}
func (SubmitStarted) formIntent()   {}
func (SubmitSucceeded) formIntent() {}
func (SubmitFailed) formIntent()    {}

// Reduce returns the form after intent. f is not modified.
func (f EntryForm) Reduce(intent FormIntent) EntryForm {
	next := f
	next.Errors = f.Errors.Clone()

	switch in := intent.(type) {
	case FieldChanged:
		switch in.Field {
		case subject.FieldName:
			next.Draft.Name = in.Value
		case subject.FieldMarks:
			next.Draft.Marks = in.Value
		case subject.FieldCredits:
			next.Draft.Credits = in.Value
		default:
			return f
		}
		next.Errors = subject.Revalidate(next.Errors, in.Field, next.Draft)

	case ExamTypeChanged:
		if in.ExamType.IsValid() {
			next.ExamType = in.ExamType
		}

	case SubmitStarted:
		if f.Submitting {
			return f
		}
		next.Errors = subject.Validate(next.Draft)
		next.Submitting = next.Errors.Valid()

	case SubmitSucceeded:
		next.Draft = subject.Draft{}
		next.Errors = subject.FieldErrors{}
		next.Submitting = false

	case SubmitFailed:
		next.Submitting = false
		var verr *subject.ValidationError
		if errors.As(in.Err, &verr) {
			for k, v := range verr.Fields {
				next.Errors[k] = v
			}
		}
	}
	return next
}

// CanSubmit is false while any field error is shown or a submission is
// outstanding.
func (f EntryForm) CanSubmit() bool {
	return f.Errors.Valid() && !f.Submitting
}
