// Package subjectsapi implements the subjects REST API client: the remote
// persistence collaborator of the sync controller.
package subjectsapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// API RESPONSE WRAPPERS
// ══════════════════════════════════════════════════════════════════════════════

// envelope is the {success, data, error} wrapper used by the GradePulse
// server. Plain JSON bodies without it are accepted too.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIErrorDTO    `json:"error,omitempty"`
}

// APIErrorDTO is the error body of a failed request.
type APIErrorDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIErrorDTO) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// unwrap returns the payload of body, stripping the envelope when present.
func unwrap(body []byte) (json.RawMessage, *APIErrorDTO) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil || env.Success == nil {
		return trimmed, nil
	}
	if !*env.Success {
		if env.Error == nil {
			env.Error = &APIErrorDTO{Message: "request failed"}
		}
		return nil, env.Error
	}
	return env.Data, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT DTOs
// ══════════════════════════════════════════════════════════════════════════════

// SubjectDTO is a subject as the remote returns it. Numbers may arrive as
// JSON strings, and the gpa field is ignored.
type SubjectDTO struct {
	ID       FlexString      `json:"id"`
	Name     string          `json:"name"`
	Marks    FlexNumber      `json:"marks"`
	Credits  FlexNumber      `json:"credits"`
	ExamType string          `json:"examType"`
	GPA      json.RawMessage `json:"gpa,omitempty"`
}

// CreateSubjectRequestDTO is the POST body.
type CreateSubjectRequestDTO struct {
	Name     string  `json:"name"`
	Marks    float64 `json:"marks"`
	Credits  float64 `json:"credits"`
	ExamType string  `json:"examType"`
	GPA      int     `json:"gpa"`
}

// UpdateMarksRequestDTO is the PUT body.
type UpdateMarksRequestDTO struct {
	Marks float64 `json:"marks"`
}

// ══════════════════════════════════════════════════════════════════════════════
// LENIENT SCALARS
// ══════════════════════════════════════════════════════════════════════════════

// FlexNumber decodes a JSON number or numeric string. Anything else
// decodes to 0 with Valid unset.
type FlexNumber struct {
	Value float64
	Valid bool
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	*n = FlexNumber{}
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		n.Value, n.Valid = v, true
	}
	return nil
}

func (n FlexNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value)
}

// FlexString decodes a JSON string or number as text.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*s = ""
		return nil
	}
	if unq, err := strconv.Unquote(raw); err == nil {
		*s = FlexString(unq)
		return nil
	}
	*s = FlexString(raw)
	return nil
}
