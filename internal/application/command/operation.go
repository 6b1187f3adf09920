package command

import (
	"sync"
	"time"

	"github.com/gradepulse/gradepulse/internal/domain/shared"
)

// Kind identifies a synchronization operation.
type Kind string

const (
	KindLoad        Kind = "load"
	KindAdd         Kind = "add"
	KindDelete      Kind = "delete"
	KindUpdateMarks Kind = "update_marks"
)

// Status is the lifecycle state of an operation kind.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Operation is a snapshot of one kind's state.
type Operation struct {
	Kind      Kind
	Status    Status
	Err       error
	StartedAt time.Time
}

// Tracker holds the Idle → Loading → Idle | Failed state machine per kind.
// A Failed kind returns to Idle through Acknowledge, or directly to Loading
// when the user tries again.
type Tracker struct {
	mu  sync.Mutex
	ops map[Kind]Operation
	now func() time.Time
}

// NewTracker returns a tracker with every kind idle.
func NewTracker() *Tracker {
	return &Tracker{ops: make(map[Kind]Operation), now: time.Now}
}

// Begin moves kind to Loading. It fails with shared.ErrOperationInFlight
// while a previous instance of kind is still loading.
func (t *Tracker) Begin(kind Kind) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ops[kind].Status == StatusLoading {
		return shared.ErrOperationInFlight
	}
	t.ops[kind] = Operation{Kind: kind, Status: StatusLoading, StartedAt: t.now()}
	return nil
}

// Succeed returns kind to Idle.
func (t *Tracker) Succeed(kind Kind) {
	t.set(kind, StatusIdle, nil)
}

// Fail records err and moves kind to Failed.
func (t *Tracker) Fail(kind Kind, err error) {
	t.set(kind, StatusFailed, err)
}

// Abandon returns kind to Idle without recording an outcome.
func (t *Tracker) Abandon(kind Kind) {
	t.set(kind, StatusIdle, nil)
}

// Acknowledge clears a failure once it has been shown to the user.
func (t *Tracker) Acknowledge(kind Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if op := t.ops[kind]; op.Status == StatusFailed {
		t.ops[kind] = Operation{Kind: kind, Status: StatusIdle}
	}
}

// Get returns the state of kind.
func (t *Tracker) Get(kind Kind) Operation {
	t.mu.Lock()
	defer t.mu.Unlock()
	op := t.ops[kind]
	op.Kind = kind
	return op
}

// Busy reports whether any kind is loading.
func (t *Tracker) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, op := range t.ops {
		if op.Status == StatusLoading {
			return true
		}
	}
	return false
}

func (t *Tracker) set(kind Kind, status Status, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	op := t.ops[kind]
	op.Kind = kind
	op.Status = status
	op.Err = err
	t.ops[kind] = op
}
