package subject

import (
	"errors"
	"math"
	"testing"

	"github.com/gradepulse/gradepulse/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradePoint_Bands(t *testing.T) {
	cases := []struct {
		marks float64
		want  int
	}{
		{100, 10}, {90, 10}, {89.99, 9}, {80, 9}, {79, 8}, {70, 8},
		{69.5, 7}, {60, 7}, {59, 6}, {50, 6}, {49.9, 5}, {40, 5},
		{39.99, 0}, {0, 0}, {-5, 0}, {math.NaN(), 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GradePoint(tc.marks), "marks=%v", tc.marks)
	}
}

func TestGradePoint_Monotonic(t *testing.T) {
	prev := GradePoint(0)
	for m := 0.0; m <= 100; m += 0.25 {
		got := GradePoint(m)
		assert.GreaterOrEqual(t, got, prev, "marks=%v", m)
		assert.Contains(t, []int{0, 5, 6, 7, 8, 9, 10}, got)
		prev = got
	}
}

func TestParseMarks(t *testing.T) {
	assert.Equal(t, 85.5, ParseMarks(" 85.5 "))
	assert.Equal(t, 0.0, ParseMarks("eighty"))
	assert.Equal(t, 0.0, ParseMarks(""))
	assert.Equal(t, 0.0, ParseMarks("NaN"))
}

func TestValidate_Examples(t *testing.T) {
	cases := []struct {
		name  string
		draft Draft
		want  FieldErrors
	}{
		{"empty name", Draft{Name: "", Marks: "50", Credits: "3"}, FieldErrors{FieldName: MsgNameRequired}},
		{"marks too high", Draft{Name: "Math", Marks: "150", Credits: "3"}, FieldErrors{FieldMarks: MsgMarksRange}},
		{"zero credits", Draft{Name: "Math", Marks: "50", Credits: "0"}, FieldErrors{FieldCredits: MsgCreditsPositive}},
		{"valid", Draft{Name: "Math", Marks: "50", Credits: "3"}, FieldErrors{}},
		{"blank name", Draft{Name: "   ", Marks: "0", Credits: "0.5"}, FieldErrors{FieldName: MsgNameRequired}},
		{"non numeric", Draft{Name: "Math", Marks: "abc", Credits: "-1"}, FieldErrors{FieldMarks: MsgMarksRange, FieldCredits: MsgCreditsPositive}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Validate(tc.draft)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, len(tc.want) == 0, got.Valid())
		})
	}
}

func TestRevalidate_OnlyTouchesField(t *testing.T) {
	d := Draft{Name: "", Marks: "150", Credits: "3"}
	errs := Validate(d)
	require.Len(t, errs, 2)

	d.Marks = "70"
	next := Revalidate(errs, FieldMarks, d)
	assert.Equal(t, FieldErrors{FieldName: MsgNameRequired}, next)
	assert.Len(t, errs, 2, "input must not be mutated")

	d.Credits = "0"
	next = Revalidate(next, FieldMarks, d)
	assert.NotContains(t, next, FieldCredits)
}

func TestDraftBuild(t *testing.T) {
	rec, err := Draft{Name: " Physics ", Marks: "85", Credits: "4"}.Build(ExamFinal)
	require.NoError(t, err)
	assert.Equal(t, NewRecord{Name: "Physics", Marks: 85, Credits: 4, ExamType: ExamFinal}, rec)

	_, err = Draft{Name: "Math", Marks: "150", Credits: "3"}.Build(ExamQuiz)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, MsgMarksRange, verr.Fields[FieldMarks])
	assert.True(t, shared.IsValidation(err))

	_, err = Draft{Name: "Math", Marks: "50", Credits: "3"}.Build("Oral")
	assert.ErrorIs(t, err, shared.ErrInvalidExamType)
}

func TestRecord_WithMarksRecomputesGPA(t *testing.T) {
	r := Record{ID: "x", Name: "Math", Marks: 55, Credits: 3, ExamType: ExamFinal, GPA: 6}
	u := r.WithMarks(92)

	assert.Equal(t, Record{ID: "x", Name: "Math", Marks: 92, Credits: 3, ExamType: ExamFinal, GPA: 10}, u)
	assert.Equal(t, 55.0, r.Marks)
}

func TestRecord_NormalizeIgnoresSuppliedGPA(t *testing.T) {
	r := Record{Name: " Math ", Marks: 45, GPA: 9}.Normalize()
	assert.Equal(t, 5, r.GPA)
	assert.Equal(t, "Math", r.Name)
	assert.True(t, r.Passed())
	assert.False(t, Record{Marks: 10}.Normalize().Passed())
}

func TestParseExamType(t *testing.T) {
	et, err := ParseExamType("final")
	require.NoError(t, err)
	assert.Equal(t, ExamFinal, et)

	et, err = ParseExamType("")
	require.NoError(t, err)
	assert.Equal(t, ExamMidterm, et)

	_, err = ParseExamType("oral")
	assert.Error(t, err)

	assert.Equal(t, 3, ExamAssignment.Rank())
	assert.Equal(t, 4, ExamType("Oral").Rank())
}

func TestNewRecordCheck(t *testing.T) {
	assert.True(t, NewRecord{Name: "A", Marks: 0, Credits: 1}.Check().Valid())
	errs := NewRecord{Name: "", Marks: 101, Credits: 0}.Check()
	assert.Len(t, errs, 3)
}

func TestUniqueNames(t *testing.T) {
	recs := []Record{{Name: "Physics"}, {Name: "Math"}, {Name: "Physics"}, {Name: "English"}}
	assert.Equal(t, []string{"Physics", "Math", "English"}, UniqueNames(recs))
	assert.Empty(t, UniqueNames(nil))
}
