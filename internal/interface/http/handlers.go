package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gradepulse/gradepulse/internal/application/command"
	"github.com/gradepulse/gradepulse/internal/application/query"
	"github.com/gradepulse/gradepulse/internal/domain/shared"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
	"github.com/gradepulse/gradepulse/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST BODIES
// ══════════════════════════════════════════════════════════════════════════════

// createSubjectRequest accepts marks and credits as JSON numbers or as
// numeric strings, the way the entry form submits them.
type createSubjectRequest struct {
	Name     string          `json:"name"`
	Marks    json.RawMessage `json:"marks"`
	Credits  json.RawMessage `json:"credits"`
	ExamType string          `json:"examType"`
}

type updateMarksRequest struct {
	Marks json.RawMessage `json:"marks"`
}

// rawText turns a JSON scalar into the text a form input would hold.
func rawText(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return s
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return shared.WrapError("http", "Decode", shared.ErrInvalidFormat, "malformed JSON body", err)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListSubjects handles GET /api/v1/subjects.
func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.ListSubjects.Handle(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONWithMeta(w, r, http.StatusOK, res.Subjects, &ResponseMeta{TotalCount: len(res.Subjects)})
}

// handleCreateSubject handles POST /api/v1/subjects.
func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req createSubjectRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	examType, err := subject.ParseExamType(req.ExamType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	draft := subject.Draft{
		Name:    req.Name,
		Marks:   rawText(req.Marks),
		Credits: rawText(req.Credits),
	}
	nr, err := draft.Build(examType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.deps.Subjects.Create(r.Context(), nr)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, rec)
}

// handleUpdateMarks handles PUT /api/v1/subjects/{id}.
func (s *Server) handleUpdateMarks(w http.ResponseWriter, r *http.Request) {
	var req updateMarksRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cmd := command.UpdateMarksCommand{ID: chi.URLParam(r, "id"), Marks: rawText(req.Marks)}
	marks, err := cmd.Validate()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.deps.Subjects.UpdateMarks(r.Context(), cmd.ID, marks)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

// handleDeleteSubject handles DELETE /api/v1/subjects/{id}.
func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.deps.Subjects.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"id": id})
}

// ══════════════════════════════════════════════════════════════════════════════
// READ-ONLY HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetAnalytics handles GET /api/v1/subjects/analytics.
func (s *Server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := s.deps.GetReport.Handle(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

// handleSuggestBooks handles GET /api/v1/books?subject=&page=.
func (s *Server) handleSuggestBooks(w http.ResponseWriter, r *http.Request) {
	q := query.SuggestBooksQuery{
		Subject: r.URL.Query().Get("subject"),
		Page:    getQueryParamInt(r, "page", 1),
	}
	if q.Page < 1 {
		q.Page = 1
	}

	res, err := s.deps.SuggestBooks.Handle(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONWithMeta(w, r, http.StatusOK, res, &ResponseMeta{
		TotalCount: res.Total,
		Page:       q.Page,
		PageSize:   len(res.Books),
		HasMore:    res.HasMore,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	encode(w, code, JSONResponse{
		Success: status.Healthy,
		Data:    status,
		Meta:    &ResponseMeta{Timestamp: status.Timestamp, Version: "v1"},
	})
}

// handleLive handles GET /live.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeError maps application errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *subject.ValidationError
	switch {
	case errors.As(err, &ve):
		fields := make(map[string]string, len(ve.Fields))
		for f, msg := range ve.Fields {
			fields[string(f)] = msg
		}
		writeAPIError(w, r, http.StatusBadRequest, &APIError{
			Code:    "validation_failed",
			Message: "Subject data is invalid",
			Fields:  fields,
		})
	case shared.IsValidation(err), errors.Is(err, shared.ErrInvalidFormat):
		writeAPIError(w, r, http.StatusBadRequest, &APIError{
			Code:    "bad_request",
			Message: "Request is invalid",
			Details: err.Error(),
		})
	case shared.IsNotFound(err):
		writeJSONError(w, r, http.StatusNotFound, "not_found", "Subject not found")
	case shared.IsAlreadyExists(err):
		writeJSONError(w, r, http.StatusConflict, "conflict", "Subject already exists")
	case errors.Is(err, context.DeadlineExceeded):
		writeJSONError(w, r, http.StatusGatewayTimeout, "timeout", "Request timed out")
	case errors.Is(err, shared.ErrServiceUnavailable):
		s.logFailure(r, err)
		writeJSONError(w, r, http.StatusServiceUnavailable, "service_unavailable", "Storage is unavailable")
	default:
		s.logFailure(r, err)
		writeJSONError(w, r, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}

func (s *Server) logFailure(r *http.Request, err error) {
	logger.FromContext(r.Context()).Error("request failed",
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		logger.Err(err),
	)
}
