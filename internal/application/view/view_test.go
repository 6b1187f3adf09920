package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/gradepulse/gradepulse/internal/application/command"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryForm_FieldScopedValidation(t *testing.T) {
	f := NewEntryForm()
	assert.Equal(t, subject.ExamMidterm, f.ExamType)
	assert.True(t, f.CanSubmit())

	f = f.Reduce(FieldChanged{Field: subject.FieldMarks, Value: "150"})
	assert.Equal(t, subject.FieldErrors{subject.FieldMarks: subject.MsgMarksRange}, f.Errors)
	assert.False(t, f.CanSubmit())

	// Editing another field leaves the marks error alone.
	f = f.Reduce(FieldChanged{Field: subject.FieldName, Value: "Math"})
	assert.Equal(t, subject.FieldErrors{subject.FieldMarks: subject.MsgMarksRange}, f.Errors)

	f = f.Reduce(FieldChanged{Field: subject.FieldMarks, Value: "90"})
	assert.Empty(t, f.Errors)
}

func TestEntryForm_SubmitLifecycle(t *testing.T) {
	f := NewEntryForm().
		Reduce(FieldChanged{Field: subject.FieldName, Value: "Physics"}).
		Reduce(FieldChanged{Field: subject.FieldMarks, Value: "85"}).
		Reduce(FieldChanged{Field: subject.FieldCredits, Value: "4"}).
		Reduce(ExamTypeChanged{ExamType: subject.ExamFinal})

	f = f.Reduce(SubmitStarted{})
	require.True(t, f.Submitting)
	assert.False(t, f.CanSubmit())

	again := f.Reduce(SubmitStarted{})
	assert.Equal(t, f, again)

	done := f.Reduce(SubmitSucceeded{})
	assert.Equal(t, subject.Draft{}, done.Draft)
	assert.Equal(t, subject.ExamFinal, done.ExamType)
	assert.True(t, done.CanSubmit())

	failed := f.Reduce(SubmitFailed{Err: errors.New("network")})
	assert.False(t, failed.Submitting)
	assert.Equal(t, "Physics", failed.Draft.Name)
}

func TestEntryForm_SubmitBlockedByValidation(t *testing.T) {
	f := NewEntryForm().Reduce(SubmitStarted{})
	assert.False(t, f.Submitting)
	assert.Len(t, f.Errors, 3)
}

func TestEntryForm_SubmitFailedShowsFieldErrors(t *testing.T) {
	f := NewEntryForm().Reduce(SubmitFailed{Err: &subject.ValidationError{
		Fields: subject.FieldErrors{subject.FieldCredits: subject.MsgCreditsPositive},
	}})
	assert.Equal(t, subject.MsgCreditsPositive, f.Errors[subject.FieldCredits])
}

func TestEntryForm_ReduceDoesNotMutate(t *testing.T) {
	f := NewEntryForm().Reduce(FieldChanged{Field: subject.FieldMarks, Value: "x"})
	_ = f.Reduce(FieldChanged{Field: subject.FieldMarks, Value: "50"})
	assert.Contains(t, f.Errors, subject.FieldMarks)
}

func TestDashboard_DeleteFlow(t *testing.T) {
	d := NewDashboard().Reduce(DeleteRequested{ID: "abc"})
	assert.Equal(t, "abc", d.PendingDelete)

	assert.Empty(t, d.Reduce(DeleteCancelled{}).PendingDelete)

	d = d.Reduce(OperationStarted{Kind: command.KindDelete})
	assert.True(t, d.Busy)
	assert.Empty(t, d.PendingDelete)

	d = d.Reduce(OperationSucceeded{Kind: command.KindDelete, ID: "abc"})
	assert.False(t, d.Busy)
	require.NotNil(t, d.Toast)
	assert.Equal(t, ToastSuccess, d.Toast.Kind)
	assert.Equal(t, "Subject (ID: abc) successfully deleted.", d.Toast.Message)
}

func TestDashboard_DeleteRequestIgnoredWhileBusy(t *testing.T) {
	d := NewDashboard().Reduce(OperationStarted{Kind: command.KindAdd}).Reduce(DeleteRequested{ID: "x"})
	assert.Empty(t, d.PendingDelete)
}

func TestDashboard_EditFlow(t *testing.T) {
	d := NewDashboard().Reduce(EditStarted{ID: "x", Marks: 55})
	require.NotNil(t, d.Edit)
	assert.Equal(t, "55", d.Edit.Marks)

	edited := d.Reduce(EditChanged{Marks: "92"})
	assert.Equal(t, "92", edited.Edit.Marks)
	assert.Equal(t, "55", d.Edit.Marks, "previous state is not shared")

	failed := edited.Reduce(OperationStarted{Kind: command.KindUpdateMarks}).
		Reduce(OperationFailed{Kind: command.KindUpdateMarks, Err: errors.New("timeout")})
	require.NotNil(t, failed.Edit, "edit row stays open for another try")
	assert.Equal(t, ToastError, failed.Toast.Kind)

	ok := edited.Reduce(OperationSucceeded{Kind: command.KindUpdateMarks, Record: subject.Record{Name: "Math", Marks: 92}})
	assert.Nil(t, ok.Edit)
	assert.Equal(t, "Marks for 'Math' updated to 92.", ok.Toast.Message)

	assert.Nil(t, d.Reduce(EditCancelled{}).Edit)
}

func TestDashboard_ToastTruncationAndExpiry(t *testing.T) {
	long := errors.New(strings.Repeat("x", 80))
	d := NewDashboard().Reduce(OperationFailed{Kind: command.KindLoad, Err: long})
	require.NotNil(t, d.Toast)
	assert.Equal(t, "Initial load failed: "+strings.Repeat("x", 50)+"...", d.Toast.Message)

	first := d.Toast.Seq
	d = d.Reduce(OperationFailed{Kind: command.KindAdd, Err: long})
	assert.Equal(t, "API Error: Could not add subject.", d.Toast.Message)

	d = d.Reduce(ToastExpired{Seq: first})
	assert.NotNil(t, d.Toast, "stale expiry is ignored")
	d = d.Reduce(ToastExpired{Seq: d.Toast.Seq})
	assert.Nil(t, d.Toast)
}

func TestDashboard_SectionSelected(t *testing.T) {
	d := NewDashboard().Reduce(SectionSelected{Section: SectionBooks})
	assert.Equal(t, SectionBooks, d.Section)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 50))
	assert.Equal(t, "héll...", Truncate("héllo", 4))
}
