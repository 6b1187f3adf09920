package subject

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gradepulse/gradepulse/internal/domain/shared"
)

// Field names a user-editable input of a subject draft.
type Field string

const (
	FieldName    Field = "name"
	FieldMarks   Field = "marks"
	FieldCredits Field = "credits"
)

// Fields lists the validated fields in form order.
var Fields = []Field{FieldName, FieldMarks, FieldCredits}

// Validation messages shown next to the offending input.
const (
	MsgNameRequired    = "Subject name is required."
	MsgMarksRange      = "Marks must be between 0 and 100."
	MsgCreditsPositive = "Credits must be a positive number."
)

// Draft is the raw text of the entry form.
type Draft struct {
	Name    string `json:"name"`
	Marks   string `json:"marks"`
	Credits string `json:"credits"`
}

// FieldErrors maps a failing field to its message. Valid fields are absent.
type FieldErrors map[Field]string

// Valid reports whether no field failed.
func (e FieldErrors) Valid() bool { return len(e) == 0 }

// Clone returns an independent copy.
func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// ValidateField checks a single field of d. It returns "" when the field
// satisfies its constraint.
func ValidateField(field Field, d Draft) string {
	switch field {
	case FieldName:
		if strings.TrimSpace(d.Name) == "" {
			return MsgNameRequired
		}
	case FieldMarks:
		m, ok := parseNumber(d.Marks)
		if !ok || m < 0 || m > 100 {
			return MsgMarksRange
		}
	case FieldCredits:
		c, ok := parseNumber(d.Credits)
		if !ok || c <= 0 {
			return MsgCreditsPositive
		}
	}
	return ""
}

// Validate checks every field of d.
func Validate(d Draft) FieldErrors {
	errs := FieldErrors{}
	for _, f := range Fields {
		if msg := ValidateField(f, d); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}

// Revalidate returns a copy of errs in which only field is recomputed
// against d. Entries for other fields are carried over untouched.
func Revalidate(errs FieldErrors, field Field, d Draft) FieldErrors {
	out := errs.Clone()
	if msg := ValidateField(field, d); msg != "" {
		out[field] = msg
	} else {
		delete(out, field)
	}
	return out
}

// ValidationError is returned when a draft is rejected before any remote call.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid subject: %s", strings.Join(keys, ", "))
}

// Is lets errors.Is(err, shared.ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == shared.ErrValidation
}

// Build validates d and converts it to a NewRecord for examType.
func (d Draft) Build(examType ExamType) (NewRecord, error) {
	if errs := Validate(d); !errs.Valid() {
		return NewRecord{}, &ValidationError{Fields: errs}
	}
	if !examType.IsValid() {
		return NewRecord{}, shared.ErrInvalidExamType
	}
	m, _ := parseNumber(d.Marks)
	c, _ := parseNumber(d.Credits)
	return NewRecord{
		Name:     strings.TrimSpace(d.Name),
		Marks:    m,
		Credits:  c,
		ExamType: examType,
	}, nil
}
