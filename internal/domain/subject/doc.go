// Package subject holds the domain model of a graded subject entry.
//
// It defines:
//
//   - Record, the per-subject exam result held by the store
//   - ExamType, the closed set of assessment kinds
//   - GradePoint, the marks to grade point conversion
//   - Draft and FieldErrors, the validation policy for user input
//   - Remote and Repository, the contracts implemented in infrastructure
//
// # Grade points
//
// A record's GPA is a cached projection of its marks and is recomputed on
// every path that sets marks:
//
//	rec := subject.Record{ID: "a1", Name: "Physics", Marks: 85, Credits: 4, ExamType: subject.ExamFinal}
//	rec = rec.Normalize() // rec.GPA == 9
//
// Values supplied by a remote are never trusted for GPA.
//
// The package depends only on the standard library and domain/shared.
package subject
