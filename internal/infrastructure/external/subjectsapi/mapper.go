package subjectsapi

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/gradepulse/gradepulse/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER
// ══════════════════════════════════════════════════════════════════════════════

// ShapeIssue describes a field that had to be repaired while mapping.
type ShapeIssue struct {
	ID     string
	Field  string
	Detail string
}

// Mapper converts SubjectDTOs into domain records. The GPA is always
// recomputed from marks; whatever the remote sent is only compared.
type Mapper struct{}

// NewMapper creates a Mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// ToRecord maps one DTO and reports repaired fields.
func (m *Mapper) ToRecord(dto SubjectDTO) (subject.Record, []ShapeIssue) {
	id := string(dto.ID)
	var issues []ShapeIssue

	if !dto.Marks.Valid {
		issues = append(issues, ShapeIssue{ID: id, Field: "marks", Detail: "missing or non-numeric, treated as 0"})
	}
	if !dto.Credits.Valid {
		issues = append(issues, ShapeIssue{ID: id, Field: "credits", Detail: "missing or non-numeric, treated as 0"})
	}

	examType, err := subject.ParseExamType(dto.ExamType)
	if err != nil {
		issues = append(issues, ShapeIssue{ID: id, Field: "examType", Detail: "unknown value " + dto.ExamType + " kept as is"})
		examType = subject.ExamType(strings.TrimSpace(dto.ExamType))
	}

	rec := subject.Record{
		ID:       id,
		Name:     dto.Name,
		Marks:    dto.Marks.Value,
		Credits:  dto.Credits.Value,
		ExamType: examType,
	}.Normalize()

	if sent, ok := remoteGPA(dto.GPA); !ok {
		issues = append(issues, ShapeIssue{ID: id, Field: "gpa", Detail: "missing or non-numeric, recomputed"})
	} else if sent != float64(rec.GPA) {
		issues = append(issues, ShapeIssue{ID: id, Field: "gpa", Detail: "disagrees with marks, recomputed"})
	}

	return rec, issues
}

// ToRecords maps a list. Records without an id, and records that break a
// field constraint (see subject.Record.Check), are dropped and reported.
func (m *Mapper) ToRecords(dtos []SubjectDTO) ([]subject.Record, []ShapeIssue) {
	records := make([]subject.Record, 0, len(dtos))
	var issues []ShapeIssue

	for _, dto := range dtos {
		if strings.TrimSpace(string(dto.ID)) == "" {
			issues = append(issues, ShapeIssue{Field: "id", Detail: "record without id dropped"})
			continue
		}
		rec, recIssues := m.ToRecord(dto)
		issues = append(issues, recIssues...)
		if errs := m.Violations(dto, rec, false); len(errs) > 0 {
			issues = append(issues, droppedIssues(rec.ID, errs)...)
			continue
		}
		records = append(records, rec)
	}
	return records, issues
}

// Violations reports the field constraints rec breaks. With partial set,
// fields the DTO left out are not checked; an update echo may carry only
// the fields that changed.
func (m *Mapper) Violations(dto SubjectDTO, rec subject.Record, partial bool) subject.FieldErrors {
	errs := rec.Check()
	if !partial {
		return errs
	}
	if strings.TrimSpace(dto.Name) == "" {
		delete(errs, subject.FieldName)
	}
	if !dto.Marks.Valid {
		delete(errs, subject.FieldMarks)
	}
	if !dto.Credits.Valid {
		delete(errs, subject.FieldCredits)
	}
	return errs
}

func droppedIssues(id string, errs subject.FieldErrors) []ShapeIssue {
	issues := make([]ShapeIssue, 0, len(errs))
	for f, msg := range errs {
		issues = append(issues, ShapeIssue{ID: id, Field: string(f), Detail: msg + ", record dropped"})
	}
	return issues
}

// ToCreateRequest builds the POST body for a validated new record.
func (m *Mapper) ToCreateRequest(nr subject.NewRecord) CreateSubjectRequestDTO {
	return CreateSubjectRequestDTO{
		Name:     strings.TrimSpace(nr.Name),
		Marks:    nr.Marks,
		Credits:  nr.Credits,
		ExamType: string(nr.ExamType),
		GPA:      subject.GradePoint(nr.Marks),
	}
}

func remoteGPA(raw json.RawMessage) (float64, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return 0, false
	}
	var n FlexNumber
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n.Value, n.Valid
}
