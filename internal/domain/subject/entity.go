package subject

import (
	"strings"

	"github.com/gradepulse/gradepulse/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// ExamType is the kind of assessment a record belongs to.
type ExamType string

const (
	ExamMidterm    ExamType = "Midterm"
	ExamFinal      ExamType = "Final"
	ExamQuiz       ExamType = "Quiz"
	ExamAssignment ExamType = "Assignment"
)

// ExamTypes lists every exam type in canonical display order.
var ExamTypes = []ExamType{ExamMidterm, ExamFinal, ExamQuiz, ExamAssignment}

// IsValid reports whether t is one of the four known exam types.
func (t ExamType) IsValid() bool {
	switch t {
	case ExamMidterm, ExamFinal, ExamQuiz, ExamAssignment:
		return true
	}
	return false
}

func (t ExamType) String() string { return string(t) }

// ParseExamType accepts any letter case. An empty string yields Midterm.
func ParseExamType(s string) (ExamType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ExamMidterm, nil
	}
	for _, t := range ExamTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", shared.ErrInvalidExamType
}

// Rank returns the position of t in ExamTypes, or len(ExamTypes) if unknown.
func (t ExamType) Rank() int {
	for i, et := range ExamTypes {
		if et == t {
			return i
		}
	}
	return len(ExamTypes)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Record is one exam result for one subject.
// ID is assigned by the remote store and never reassigned.
type Record struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Marks    float64  `json:"marks"`
	Credits  float64  `json:"credits"`
	ExamType ExamType `json:"examType"`
	GPA      int      `json:"gpa"`
}

// NewRecord is a validated draft ready to be sent to the remote.
type NewRecord struct {
	Name     string
	Marks    float64
	Credits  float64
	ExamType ExamType
}

// Normalize returns the record with its GPA re-derived from Marks and the
// name trimmed.
func (r Record) Normalize() Record {
	r.Name = strings.TrimSpace(r.Name)
	r.GPA = GradePoint(r.Marks)
	return r
}

// WithMarks returns a copy with marks replaced and GPA recomputed.
func (r Record) WithMarks(marks float64) Record {
	r.Marks = marks
	r.GPA = GradePoint(marks)
	return r
}

// Passed reports whether the record earns a non-zero grade point.
func (r Record) Passed() bool {
	return r.GPA > 0
}

// Materialize turns a new record into a stored Record with the given id.
func (n NewRecord) Materialize(id string) Record {
	return Record{
		ID:       id,
		Name:     n.Name,
		Marks:    n.Marks,
		Credits:  n.Credits,
		ExamType: n.ExamType,
	}.Normalize()
}

// Check validates an already-typed record against the field constraints.
// It is used on paths that do not start from a Draft (e.g. API payloads).
func (n NewRecord) Check() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(n.Name) == "" {
		errs[FieldName] = MsgNameRequired
	}
	if n.Marks < 0 || n.Marks > 100 {
		errs[FieldMarks] = MsgMarksRange
	}
	if n.Credits <= 0 {
		errs[FieldCredits] = MsgCreditsPositive
	}
	return errs
}

// Check validates a stored record against the same field constraints as
// NewRecord. A record that fails it must never enter a store.
func (r Record) Check() FieldErrors {
	return NewRecord{Name: r.Name, Marks: r.Marks, Credits: r.Credits, ExamType: r.ExamType}.Check()
}

// UniqueNames returns the distinct subject names in first-appearance order.
func UniqueNames(records []Record) []string {
	seen := make(map[string]struct{}, len(records))
	names := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		names = append(names, r.Name)
	}
	return names
}
