package subject

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// COLLABORATOR INTERFACES
// Implementations live in infrastructure.
// ══════════════════════════════════════════════════════════════════════════════

// Remote is the persistence collaborator seen from the client engine.
// Every call may fail with a *shared.TransportError. Returned records
// carry a GPA recomputed from marks.
type Remote interface {
	FetchAll(ctx context.Context) ([]Record, error)
	Create(ctx context.Context, rec NewRecord) (Record, error)
	Delete(ctx context.Context, id string) error
	UpdateMarks(ctx context.Context, id string, marks float64) (Record, error)
}

// Repository is the server-side storage of subject records.
type Repository interface {
	// List returns all records in creation order.
	List(ctx context.Context) ([]Record, error)

	// Get returns shared.ErrSubjectNotFound when id is unknown.
	Get(ctx context.Context, id string) (Record, error)

	// Create stores rec. The caller assigns rec.ID.
	Create(ctx context.Context, rec Record) error

	// UpdateMarks returns the updated record or shared.ErrSubjectNotFound.
	UpdateMarks(ctx context.Context, id string, marks float64) (Record, error)

	// Delete returns shared.ErrSubjectNotFound when id is unknown.
	Delete(ctx context.Context, id string) error
}

// ListCache caches the result of Repository.List.
type ListCache interface {
	GetList(ctx context.Context) ([]Record, error)
	SetList(ctx context.Context, records []Record) error
	Invalidate(ctx context.Context) error
}
