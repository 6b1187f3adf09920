package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gradepulse/gradepulse/internal/domain/shared"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SubjectRepository implements subject.Repository for PostgreSQL.
type SubjectRepository struct {
	conn Querier
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(conn Querier) *SubjectRepository {
	return &SubjectRepository{conn: conn}
}

const subjectColumns = `id, name, marks, credits, exam_type, gpa`

// List returns all subjects in creation order.
func (r *SubjectRepository) List(ctx context.Context) ([]subject.Record, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+subjectColumns+` FROM subjects ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	records := make([]subject.Record, 0)
	for rows.Next() {
		rec, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subjects: %w", err)
	}
	return records, nil
}

// Get returns one subject by id.
func (r *SubjectRepository) Get(ctx context.Context, id string) (subject.Record, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE id = $1`, id)
	rec, err := scanSubject(row)
	if err != nil {
		if IsNoRows(err) {
			return subject.Record{}, shared.ErrSubjectNotFound
		}
		return subject.Record{}, err
	}
	return rec, nil
}

// Create inserts a subject. The GPA column is always derived from marks.
func (r *SubjectRepository) Create(ctx context.Context, rec subject.Record) error {
	rec = rec.Normalize()

	_, err := r.conn.Exec(ctx, `
		INSERT INTO subjects (id, name, marks, credits, exam_type, gpa)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.Name, rec.Marks, rec.Credits, string(rec.ExamType), rec.GPA)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("subject", "Create", shared.ErrAlreadyExists, "subject id already exists", err)
		}
		if IsCheckViolation(err) {
			return shared.WrapError("subject", "Create", shared.ErrValidation, "subject violates constraints", err)
		}
		return fmt.Errorf("failed to create subject: %w", err)
	}

	return nil
}

// UpdateMarks sets marks and the derived GPA in one statement.
func (r *SubjectRepository) UpdateMarks(ctx context.Context, id string, marks float64) (subject.Record, error) {
	row := r.conn.QueryRow(ctx, `
		UPDATE subjects
		SET marks = $2, gpa = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+subjectColumns,
		id, marks, subject.GradePoint(marks))

	rec, err := scanSubject(row)
	if err != nil {
		if IsNoRows(err) {
			return subject.Record{}, shared.ErrSubjectNotFound
		}
		return subject.Record{}, fmt.Errorf("failed to update marks: %w", err)
	}
	return rec, nil
}

// Delete removes a subject.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrSubjectNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func scanSubject(row pgx.Row) (subject.Record, error) {
	var (
		rec      subject.Record
		examType string
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Marks, &rec.Credits, &examType, &rec.GPA); err != nil {
		if IsNoRows(err) {
			return subject.Record{}, err
		}
		return subject.Record{}, fmt.Errorf("failed to scan subject: %w", err)
	}
	rec.ExamType = subject.ExamType(examType)
	return rec.Normalize(), nil
}

var _ subject.Repository = (*SubjectRepository)(nil)
