package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/patientor/patientor/internal/domain/diagnosis"
	"github.com/patientor/patientor/internal/domain/entry"
	"github.com/patientor/patientor/internal/domain/patient"
)

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx answer from the patient API. Message holds the
// "error" field of the response body when there was one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("patient api: %d: %s", e.Status, e.Message)
}

// Reason is the text shown to users.
func (e *APIError) Reason() string { return e.Message }

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

type errorBody struct {
	Error string `json:"error"`
}

// Client talks to the patient API.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

func New(cfg Config, logger zerolog.Logger) *Client {
	hc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(retryReads).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: hc, logger: logger}
}

// retryReads retries only GETs that failed in transport. Entry and patient
// POSTs are never resent, so a lost response cannot create a duplicate.
func retryReads(resp *resty.Response, err error) bool {
	if err == nil || resp == nil || resp.Request == nil {
		return false
	}
	return resp.Request.Method == http.MethodGet
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&errorBody{})
}

func (c *Client) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		c.logger.Error().Err(err).Str("op", op).Msg("patient api call failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode(), Message: resp.Status()}
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		apiErr.Message = body.Error
	}
	c.logger.Warn().
		Str("op", op).
		Int("status", apiErr.Status).
		Str("message", apiErr.Message).
		Msg("patient api returned error")
	return fmt.Errorf("%s: %w", op, apiErr)
}

// ListPatients fetches the patient summaries.
func (c *Client) ListPatients(ctx context.Context) ([]patient.Patient, error) {
	var out []patient.Patient
	resp, err := c.request(ctx).SetResult(&out).Get("/patients")
	if err := c.check(resp, err, "list patients"); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPatient fetches the full record of one patient, entries included.
func (c *Client) GetPatient(ctx context.Context, id string) (*patient.Full, error) {
	var out patient.Full
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		Get("/patients/{id}")
	if err := c.check(resp, err, "get patient"); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePatient posts a new patient and returns the stored summary.
func (c *Client) CreatePatient(ctx context.Context, np patient.NewPatient) (*patient.Patient, error) {
	var out patient.Patient
	resp, err := c.request(ctx).
		SetBody(np).
		SetResult(&out).
		Post("/patients")
	if err := c.check(resp, err, "create patient"); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddEntry posts a draft for patient id and returns the entry the API created.
func (c *Client) AddEntry(ctx context.Context, id string, d entry.Draft) (entry.Entry, error) {
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetBody(d).
		Post("/patients/{id}/entries")
	if err := c.check(resp, err, "add entry"); err != nil {
		return nil, err
	}
	e, err := entry.Decode(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("add entry: %w", err)
	}
	return e, nil
}

// ListDiagnoses fetches the diagnosis catalogue.
func (c *Client) ListDiagnoses(ctx context.Context) ([]diagnosis.Diagnosis, error) {
	var out []diagnosis.Diagnosis
	resp, err := c.request(ctx).SetResult(&out).Get("/diagnoses")
	if err := c.check(resp, err, "list diagnoses"); err != nil {
		return nil, err
	}
	return out, nil
}
