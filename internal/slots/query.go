// Package slots fetches the open slots of the currently selected doctor.
// Responses are applied with last-selection-wins semantics: a result that
// arrives for a doctor who is no longer selected is dropped.
package slots

import (
	"context"
	"sync"

	"clinic-booking-client/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

// Lister is the slice of the API client the query depends on.
type Lister interface {
	ListDoctorSlots(ctx context.Context, doctorID int64) ([]entity.AppointmentSlot, error)
}

// Snapshot is a point-in-time read of the query state.
type Snapshot struct {
	DoctorID int64
	Loading  bool
	Slots    []entity.AppointmentSlot
	Err      error
}

// Query tracks one doctor selection and its slot fetch. Every request
// carries the generation it was issued under; a completion only applies
// while its generation is still current.
type Query struct {
	log *logrus.Logger
	api Lister

	mu       sync.RWMutex
	gen      uint64
	doctorID int64
	loading  bool
	slots    []entity.AppointmentSlot
	err      error
}

func NewQuery(api Lister, log *logrus.Logger) *Query {
	return &Query{
		log: log,
		api: api,
	}
}

// Select switches the query to doctorID: the visible list is cleared at
// once so a previous doctor's slots never show under the new selection,
// and the fetch proceeds in the background. Re-selecting invalidates any
// fetch still in flight.
func (q *Query) Select(ctx context.Context, doctorID int64) {
	q.mu.Lock()
	q.gen++
	gen := q.gen
	q.doctorID = doctorID
	q.slots = nil
	q.err = nil
	q.loading = true
	q.mu.Unlock()

	go q.fetch(ctx, gen, doctorID)
}

// Clear drops the selection and any visible slots. A fetch still in
// flight settles against a dead generation and is discarded.
func (q *Query) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.gen++
	q.doctorID = 0
	q.slots = nil
	q.err = nil
	q.loading = false
}

// Snapshot returns the current selection, loading flag, slot list and error.
func (q *Query) Snapshot() Snapshot {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return Snapshot{
		DoctorID: q.doctorID,
		Loading:  q.loading,
		Slots:    q.slots,
		Err:      q.err,
	}
}

func (q *Query) fetch(ctx context.Context, gen uint64, doctorID int64) {
	slots, err := q.api.ListDoctorSlots(ctx, doctorID)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.gen != gen {
		// Selection moved on while this request was in flight.
		q.log.Debugf("Discarding stale slot response for doctor %d", doctorID)
		return
	}

	q.loading = false
	if err != nil {
		// Never show a partial list: failure leaves the list empty.
		q.slots = nil
		q.err = err
		q.log.Warnf("Slot fetch for doctor %d failed: %v", doctorID, err)
		return
	}
	q.slots = slots
	q.err = nil
	q.log.Infof("Loaded %d slots for doctor %d", len(slots), doctorID)
}
