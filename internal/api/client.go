// Package api is the typed HTTP client for the appointment backend.
// Each call is a single attempt: no retries, no caching. Callers decide
// how to react to failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"clinic-booking-client/internal/delivery/dto"
	"clinic-booking-client/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxErrorBody caps how much of a failed response body is read while
// looking for a backend-provided error message.
const maxErrorBody = 32 << 10

// Client performs calls against the backend REST contract.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-call timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ListDoctors fetches the full doctor directory.
func (c *Client) ListDoctors(ctx context.Context) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	if err := c.do(ctx, http.MethodGet, "/doctors", nil, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// ListDoctorSlots fetches the open slots of one doctor.
func (c *Client) ListDoctorSlots(ctx context.Context, doctorID int64) ([]entity.AppointmentSlot, error) {
	var slots []entity.AppointmentSlot
	path := fmt.Sprintf("/doctors/%d/slots", doctorID)
	if err := c.do(ctx, http.MethodGet, path, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// BookSlot submits a booking against one slot.
func (c *Client) BookSlot(ctx context.Context, slotID int64, req *dto.BookSlotRequest) (*entity.Booking, error) {
	var booking entity.Booking
	path := fmt.Sprintf("/slots/%d/book", slotID)
	if err := c.do(ctx, http.MethodPost, path, req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// CreateDoctor creates a doctor (admin).
func (c *Client) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*entity.Doctor, error) {
	var doctor entity.Doctor
	if err := c.do(ctx, http.MethodPost, "/doctors", req, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// CreateSlot creates an appointment slot (admin).
func (c *Client) CreateSlot(ctx context.Context, req *dto.CreateSlotRequest) (*entity.AppointmentSlot, error) {
	var slot entity.AppointmentSlot
	if err := c.do(ctx, http.MethodPost, "/admin/slots", req, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListAdminDoctorSlots fetches all slots of one doctor, booked included (admin).
func (c *Client) ListAdminDoctorSlots(ctx context.Context, doctorID int64) ([]entity.AppointmentSlot, error) {
	var slots []entity.AppointmentSlot
	path := fmt.Sprintf("/admin/doctors/%d/slots", doctorID)
	if err := c.do(ctx, http.MethodGet, path, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// Stats fetches the aggregate counts (admin).
func (c *Client) Stats(ctx context.Context) (*entity.Stats, error) {
	var stats entity.Stats
	if err := c.do(ctx, http.MethodGet, "/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// do performs one HTTP call and decodes the JSON response into out.
// A transport failure surfaces as *NetworkError, a non-2xx status as
// *APIError; out may be nil when the body is irrelevant.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warnf("Request %s %s failed: %v", method, path, err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := c.decodeError(resp)
		c.log.Warnf("Request %s %s returned %d: %s", method, path, resp.StatusCode, apiErr.UserMessage())
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeError builds an *APIError from a non-2xx response, picking up a
// backend message from a {"message": ...} or {"error": ...} body.
func (c *Client) decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			apiErr.Message = envelope.Message
		} else if envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
	}

	return apiErr
}
