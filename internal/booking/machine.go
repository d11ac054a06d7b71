// Package booking governs the lifecycle of one booking attempt against
// one slot: idle, submitting, then succeeded (carrying the backend's
// Booking record) or failed (carrying a displayable message).
package booking

import (
	"context"
	"errors"
	"strings"
	"sync"

	"clinic-booking-client/internal/api"
	"clinic-booking-client/internal/delivery/dto"
	"clinic-booking-client/internal/domain/entity"
	"clinic-booking-client/internal/notify"
	"clinic-booking-client/pkg/validator"

	"github.com/sirupsen/logrus"
)

var (
	ErrSubmissionInFlight = errors.New("a booking submission is already in flight")
	ErrAlreadyBooked      = errors.New("this slot was already booked in this session")
	ErrNoSlotSelected     = errors.New("no slot selected for booking")
)

const fallbackFailureMessage = "booking failed"

// Phase is the client-side submission state. It is distinct from the
// backend-assigned entity.BookingStatus, which sub-states PhaseSucceeded.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// Submitter is the slice of the API client the machine depends on.
type Submitter interface {
	BookSlot(ctx context.Context, slotID int64, req *dto.BookSlotRequest) (*entity.Booking, error)
}

// Snapshot is a point-in-time read of the machine.
type Snapshot struct {
	SlotID         int64
	Phase          Phase
	Booking        *entity.Booking
	FailureMessage string
}

// Machine runs at most one submission at a time against its current slot
// target. Outcomes feed the notification queue; the stored Booking record
// is immutable once received.
type Machine struct {
	log      *logrus.Logger
	api      Submitter
	validate *validator.CustomValidator
	notices  *notify.Queue

	mu      sync.Mutex
	gen     uint64
	slotID  int64
	phase   Phase
	booking *entity.Booking
	failure string
}

func NewMachine(api Submitter, validate *validator.CustomValidator, notices *notify.Queue, log *logrus.Logger) *Machine {
	return &Machine{
		log:      log,
		api:      api,
		validate: validate,
		notices:  notices,
		phase:    PhaseIdle,
	}
}

// Reset points the machine at a fresh booking target and returns it to
// idle. Re-pointing at the current slot is a no-op: the only way back to
// idle is a genuinely new target. A submission still in flight for the
// old target settles against a dead generation and is discarded.
func (m *Machine) Reset(slotID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if slotID == m.slotID {
		return false
	}
	m.gen++
	m.slotID = slotID
	m.phase = PhaseIdle
	m.booking = nil
	m.failure = ""
	return true
}

// Submit runs one booking attempt. While an attempt is in flight any
// further call is rejected locally with ErrSubmissionInFlight; a blank
// patient name fails locally with *ValidationError before any network
// traffic and leaves the state untouched.
func (m *Machine) Submit(ctx context.Context, req *dto.BookSlotRequest) error {
	req.PatientName = strings.TrimSpace(req.PatientName)

	// Guard check, validation and the move to Submitting form one
	// critical section, so two racing submits can never both launch.
	m.mu.Lock()
	switch m.phase {
	case PhaseSubmitting:
		m.mu.Unlock()
		m.log.Debug("Ignoring submit: an attempt is already in flight")
		return ErrSubmissionInFlight
	case PhaseSucceeded:
		m.mu.Unlock()
		return ErrAlreadyBooked
	}
	if m.slotID == 0 {
		m.mu.Unlock()
		return ErrNoSlotSelected
	}
	if err := m.validate.Validate(req); err != nil {
		m.mu.Unlock()
		vErr := &ValidationError{Fields: m.validate.FormatValidationErrors(err)}
		m.notices.Error(vErr.Error())
		return vErr
	}
	slotID := m.slotID
	gen := m.gen
	m.phase = PhaseSubmitting
	m.failure = ""
	m.mu.Unlock()

	booking, err := m.api.BookSlot(ctx, slotID, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		// The target changed while the call was outstanding; this
		// outcome belongs to a dead attempt.
		m.log.Debugf("Discarding stale submission outcome for slot %d", slotID)
		return nil
	}

	if err != nil {
		m.phase = PhaseFailed
		m.failure = failureMessage(err)
		m.notices.Error(m.failure)
		m.log.Warnf("Booking submission for slot %d failed: %v", slotID, err)
		return err
	}

	m.phase = PhaseSucceeded
	m.booking = booking
	m.log.Infof("Booking submitted: id=%d, slot=%d, status=%s", booking.ID, booking.SlotID, booking.Status)

	switch booking.Status {
	case entity.BookingStatusConfirmed:
		m.notices.Success("Booking confirmed")
	case entity.BookingStatusPending:
		m.notices.Info("Booking received, awaiting confirmation")
	case entity.BookingStatusFailed:
		m.notices.Error("Booking could not be completed")
	}
	return nil
}

// Snapshot returns the current phase, target and outcome.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		SlotID:         m.slotID,
		Phase:          m.phase,
		Booking:        m.booking,
		FailureMessage: m.failure,
	}
}

// failureMessage derives displayable text from a submission error. The
// user is never left with a blank explanation.
func failureMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return "could not reach the booking service"
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallbackFailureMessage
}
