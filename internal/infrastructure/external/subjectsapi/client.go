package subjectsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gradepulse/gradepulse/internal/domain/shared"
	"github.com/gradepulse/gradepulse/internal/domain/subject"
	"github.com/gradepulse/gradepulse/pkg/circuitbreaker"
	"github.com/gradepulse/gradepulse/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the subjects API client.
type ClientConfig struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api/v1".
	BaseURL string

	// SubjectsPath is appended to BaseURL for the collection.
	SubjectsPath string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// BreakerThreshold is the number of consecutive outages that open the
	// circuit; BreakerCooldown is how long it stays open.
	BreakerThreshold int
	BreakerCooldown  time.Duration

	// HTTPClient replaces the default client when set.
	HTTPClient *http.Client

	Logger *logger.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:          baseURL,
		SubjectsPath:     "/subjects",
		Timeout:          10 * time.Second,
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client implements subject.Remote over HTTP. Each call is made exactly
// once; failures come back as *shared.TransportError.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	mapper     *Mapper
	log        *logger.Logger
}

// NewClient creates a new subjects API client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}
	if config.SubjectsPath == "" {
		config.SubjectsPath = "/subjects"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	log := config.Logger.With(logger.Component("subjects_api"))
	return &Client{
		config:     config,
		httpClient: httpClient,
		breaker: circuitbreaker.SubjectsAPIBreaker(
			config.BreakerThreshold,
			config.BreakerCooldown,
			isOutage,
			func(name string, from, to circuitbreaker.State) {
				log.Warn("circuit breaker state changed",
					logger.String("breaker", name),
					logger.String("from", from.String()),
					logger.String("to", to.String()),
				)
			},
		),
		mapper: NewMapper(),
		log:    log,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// FetchAll returns every record the remote holds.
func (c *Client) FetchAll(ctx context.Context) ([]subject.Record, error) {
	const op = "FetchAll"

	var dtos []SubjectDTO
	if err := c.do(ctx, op, http.MethodGet, c.config.SubjectsPath, nil, &dtos); err != nil {
		return nil, err
	}

	records, issues := c.mapper.ToRecords(dtos)
	c.reportShape(op, issues)
	return records, nil
}

// Create posts a new record and returns the stored one.
func (c *Client) Create(ctx context.Context, nr subject.NewRecord) (subject.Record, error) {
	const op = "Create"

	var dto SubjectDTO
	if err := c.do(ctx, op, http.MethodPost, c.config.SubjectsPath, c.mapper.ToCreateRequest(nr), &dto); err != nil {
		return subject.Record{}, err
	}
	if strings.TrimSpace(string(dto.ID)) == "" {
		return subject.Record{}, shared.NewTransportError(op, http.StatusOK,
			fmt.Errorf("%w: created record has no id", shared.ErrMalformedRecord))
	}

	rec, issues := c.mapper.ToRecord(dto)
	c.reportShape(op, issues)
	if errs := c.mapper.Violations(dto, rec, false); len(errs) > 0 {
		return subject.Record{}, malformed(op, errs)
	}
	return rec, nil
}

// Delete removes id on the remote.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "Delete", http.MethodDelete, c.itemPath(id), nil, nil)
}

// UpdateMarks sends the new marks. A response without a body is treated
// as an echo of the request.
func (c *Client) UpdateMarks(ctx context.Context, id string, marks float64) (subject.Record, error) {
	const op = "UpdateMarks"

	var dto *SubjectDTO
	if err := c.do(ctx, op, http.MethodPut, c.itemPath(id), UpdateMarksRequestDTO{Marks: marks}, &dto); err != nil {
		return subject.Record{}, err
	}
	if dto == nil {
		return subject.Record{ID: id}.WithMarks(marks), nil
	}
	if strings.TrimSpace(string(dto.ID)) == "" {
		dto.ID = FlexString(id)
	}

	rec, issues := c.mapper.ToRecord(*dto)
	c.reportShape(op, issues)
	if errs := c.mapper.Violations(*dto, rec, true); len(errs) > 0 {
		return subject.Record{}, malformed(op, errs)
	}
	return rec, nil
}

// malformed reports a confirmed record that breaks a field constraint.
// The remote accepted the call, so the status is 200.
func malformed(op string, errs subject.FieldErrors) error {
	return shared.NewTransportError(op, http.StatusOK,
		fmt.Errorf("%w: %s", shared.ErrMalformedRecord, (&subject.ValidationError{Fields: errs}).Error()))
}

// BreakerState reports the circuit breaker state.
func (c *Client) BreakerState() circuitbreaker.State {
	return c.breaker.State()
}

var _ subject.Remote = (*Client)(nil)

// ══════════════════════════════════════════════════════════════════════════════
// HTTP HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func (c *Client) itemPath(id string) string {
	return c.config.SubjectsPath + "/" + url.PathEscape(id)
}

// do performs one request through the circuit breaker.
func (c *Client) do(ctx context.Context, op, method, path string, body, result any) error {
	start := time.Now()

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.doSingleRequest(ctx, op, method, path, body, result)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		err = shared.NewTransportError(op, 0, fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err))
	}

	fields := []logger.Field{
		logger.Operation(op),
		logger.String("method", method),
		logger.String("path", path),
		logger.Latency(time.Since(start)),
	}
	if err != nil {
		c.log.Debug("subjects api request failed", append(fields, logger.Err(err))...)
		return err
	}
	c.log.Debug("subjects api request", fields...)
	return nil
}

func (c *Client) doSingleRequest(ctx context.Context, op, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return shared.NewTransportError(op, 0, fmt.Errorf("marshal body: %w", err))
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return shared.NewTransportError(op, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return shared.NewTransportError(op, 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return shared.NewTransportError(op, resp.StatusCode, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 400 {
		return shared.NewTransportError(op, resp.StatusCode, statusError(resp.StatusCode, respBody))
	}

	payload, apiErr := unwrap(respBody)
	if apiErr != nil {
		return shared.NewTransportError(op, resp.StatusCode, apiErr)
	}
	if result == nil || len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, result); err != nil {
		return shared.NewTransportError(op, resp.StatusCode, fmt.Errorf("%w: %v", shared.ErrMalformedRecord, err))
	}
	return nil
}

// statusError turns an error response into the most specific error kind.
func statusError(status int, body []byte) error {
	var cause error
	switch status {
	case http.StatusNotFound:
		cause = shared.ErrSubjectNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		cause = shared.ErrInvalidInput
	case http.StatusConflict:
		cause = shared.ErrAlreadyExists
	default:
		cause = shared.ErrServiceUnavailable
	}

	if _, apiErr := unwrap(body); apiErr != nil && apiErr.Message != "" {
		return fmt.Errorf("%w: %w", cause, apiErr)
	}
	var plain APIErrorDTO
	if err := json.Unmarshal(body, &plain); err == nil && plain.Message != "" {
		return fmt.Errorf("%w: %w", cause, &plain)
	}
	return cause
}

// isOutage decides which failures count against the circuit breaker:
// network errors and 5xx responses, not client errors.
func isOutage(err error) bool {
	var te *shared.TransportError
	if errors.As(err, &te) {
		return te.Status == 0 || te.Status >= 500
	}
	return true
}

func (c *Client) reportShape(op string, issues []ShapeIssue) {
	for _, is := range issues {
		c.log.Warn("repaired malformed subject field",
			logger.Operation(op),
			logger.SubjectID(is.ID),
			logger.String("field", is.Field),
			logger.String("detail", is.Detail),
		)
	}
}
