package query

import (
	"context"

	"github.com/gradepulse/gradepulse/internal/domain/analytics"
	"github.com/gradepulse/gradepulse/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET REPORT QUERY
// Runs the aggregation engine over the current collection.
// ══════════════════════════════════════════════════════════════════════════════

// GetReportHandler computes analytics.Report for whatever source it reads.
type GetReportHandler struct {
	source RecordLister
}

func NewGetReportHandler(source RecordLister) *GetReportHandler {
	return &GetReportHandler{source: source}
}

// Handle reads the records and summarizes them.
func (h *GetReportHandler) Handle(ctx context.Context) (*analytics.Report, error) {
	records, err := h.source.List(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetReport", shared.ErrServiceUnavailable, "failed to read subjects", err)
	}
	report := analytics.Summarize(records)
	return &report, nil
}
