// Package command contains the write side of GradePulse: the client-side
// sync controller and the server-side subject manager.
package command

import (
	"context"
	"strings"
	"time"

	"github.com/gradepulse/gradepulse/internal/application/store"
	"github.com/gradepulse/gradepulse/internal/domain/shared"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
	"github.com/gradepulse/gradepulse/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// AddSubjectCommand carries the entry form contents.
type AddSubjectCommand struct {
	Draft    subject.Draft
	ExamType subject.ExamType
}

// UpdateMarksCommand carries the inline edit of one record.
type UpdateMarksCommand struct {
	ID    string
	Marks string
}

// Validate checks the marks text with the same rule as the entry form.
func (c UpdateMarksCommand) Validate() (float64, error) {
	if strings.TrimSpace(c.ID) == "" {
		return 0, shared.NewDomainError("sync", "UpdateMarks", shared.ErrInvalidInput, "subject id is required")
	}
	d := subject.Draft{Marks: c.Marks}
	if msg := subject.ValidateField(subject.FieldMarks, d); msg != "" {
		return 0, &subject.ValidationError{Fields: subject.FieldErrors{subject.FieldMarks: msg}}
	}
	return subject.ParseMarks(c.Marks), nil
}

// DeleteSubjectCommand is issued after the user confirmed the deletion.
type DeleteSubjectCommand struct {
	ID string
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTROLLER
// ══════════════════════════════════════════════════════════════════════════════

// Controller turns user intents into remote calls and applies the
// confirmed results to the store. The store is never touched before the
// remote answers successfully, and a result that arrives after the
// caller's context was cancelled is dropped.
type Controller struct {
	remote subject.Remote
	store  *store.Store
	ops    *Tracker
	log    *logger.Logger
}

// NewController wires a controller.
func NewController(remote subject.Remote, st *store.Store, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		remote: remote,
		store:  st,
		ops:    NewTracker(),
		log:    log.With(logger.Component("sync")),
	}
}

// Store returns the store the controller mutates.
func (c *Controller) Store() *store.Store { return c.store }

// Operation returns the state of kind.
func (c *Controller) Operation(kind Kind) Operation { return c.ops.Get(kind) }

// Acknowledge clears a shown failure.
func (c *Controller) Acknowledge(kind Kind) { c.ops.Acknowledge(kind) }

// Busy reports whether any remote call is outstanding.
func (c *Controller) Busy() bool { return c.ops.Busy() }

// Load fetches the full collection and replaces the store contents.
func (c *Controller) Load(ctx context.Context) error {
	return c.run(ctx, KindLoad, func() (func() error, error) {
		records, err := c.remote.FetchAll(ctx)
		if err != nil {
			return nil, err
		}
		return func() error {
			c.store.ReplaceAll(records)
			c.log.Info("subjects loaded", logger.Records(c.store.Len()))
			return nil
		}, nil
	})
}

// Add validates the draft, creates the record remotely and appends the
// confirmed record. Validation failures never reach the remote.
func (c *Controller) Add(ctx context.Context, cmd AddSubjectCommand) (subject.Record, error) {
	examType := cmd.ExamType
	if examType == "" {
		examType = subject.ExamMidterm
	}
	nr, err := cmd.Draft.Build(examType)
	if err != nil {
		return subject.Record{}, err
	}

	var created subject.Record
	err = c.run(ctx, KindAdd, func() (func() error, error) {
		rec, err := c.remote.Create(ctx, nr)
		if err != nil {
			return nil, err
		}
		created = rec.Normalize()
		return func() error {
			if err := c.store.Insert(created); err != nil {
				return err
			}
			c.log.Info("subject added",
				logger.SubjectID(created.ID),
				logger.SubjectName(created.Name),
				logger.ExamType(created.ExamType.String()),
			)
			return nil
		}, nil
	})
	if err != nil {
		return subject.Record{}, err
	}
	return created, nil
}

// Delete removes a record remotely, then locally. An id the remote does
// not know is treated as already deleted.
func (c *Controller) Delete(ctx context.Context, cmd DeleteSubjectCommand) error {
	if strings.TrimSpace(cmd.ID) == "" {
		return shared.NewDomainError("sync", "Delete", shared.ErrInvalidInput, "subject id is required")
	}
	return c.run(ctx, KindDelete, func() (func() error, error) {
		if err := c.remote.Delete(ctx, cmd.ID); err != nil && !shared.IsNotFound(err) {
			return nil, err
		}
		return func() error {
			if !c.store.Remove(cmd.ID) {
				c.log.Debug("deleted id was not in store", logger.SubjectID(cmd.ID))
				return nil
			}
			c.log.Info("subject deleted", logger.SubjectID(cmd.ID))
			return nil
		}, nil
	})
}

// UpdateMarks changes the marks of one record remotely, then locally.
// Only marks and the derived GPA change.
func (c *Controller) UpdateMarks(ctx context.Context, cmd UpdateMarksCommand) (subject.Record, error) {
	marks, err := cmd.Validate()
	if err != nil {
		return subject.Record{}, err
	}

	var updated subject.Record
	err = c.run(ctx, KindUpdateMarks, func() (func() error, error) {
		rec, err := c.remote.UpdateMarks(ctx, cmd.ID, marks)
		if err != nil {
			return nil, err
		}
		if rec.Marks != marks {
			c.log.Warn("remote echoed different marks, keeping requested value",
				logger.SubjectID(cmd.ID), logger.Marks(rec.Marks))
		}
		return func() error {
			if !c.store.UpdateMarks(cmd.ID, marks) {
				c.log.Debug("updated id was not in store", logger.SubjectID(cmd.ID))
				updated = rec.Normalize().WithMarks(marks)
				return nil
			}
			updated, _ = c.store.Get(cmd.ID)
			c.log.Info("marks updated", logger.SubjectID(cmd.ID), logger.Marks(marks))
			return nil
		}, nil
	})
	if err != nil {
		return subject.Record{}, err
	}
	return updated, nil
}

// run drives one operation through the tracker. call performs the remote
// request and returns the store mutation to apply on success.
func (c *Controller) run(ctx context.Context, kind Kind, call func() (func() error, error)) error {
	if err := c.ops.Begin(kind); err != nil {
		return err
	}
	start := time.Now()

	apply, err := call()

	if ctxErr := ctx.Err(); ctxErr != nil {
		c.ops.Abandon(kind)
		c.log.Info("result discarded", logger.Operation(string(kind)), logger.Err(ctxErr))
		return shared.WrapError("sync", string(kind), shared.ErrAbandoned, "caller went away", ctxErr)
	}
	if err == nil {
		err = apply()
	}
	if err != nil {
		c.ops.Fail(kind, err)
		c.log.Warn("operation failed",
			logger.Operation(string(kind)),
			logger.Latency(time.Since(start)),
			logger.Err(err),
		)
		return err
	}

	c.ops.Succeed(kind)
	c.log.Debug("operation completed", logger.Operation(string(kind)), logger.Latency(time.Since(start)))
	return nil
}
