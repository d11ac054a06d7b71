package slots

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-booking-client/internal/api"
	"clinic-booking-client/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func slotsFor(doctorID int64) []entity.AppointmentSlot {
	return []entity.AppointmentSlot{
		{
			ID:              doctorID * 10,
			DoctorID:        doctorID,
			StartTime:       time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
			DurationMinutes: 30,
		},
	}
}

func TestSelectLoadsSlots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/doctors/1/slots", r.URL.Path)
		json.NewEncoder(w).Encode(slotsFor(1))
	}))
	defer server.Close()

	query := NewQuery(api.NewClient(server.URL, api.WithLogger(testLogger())), testLogger())
	query.Select(context.Background(), 1)

	require.Eventually(t, func() bool {
		snap := query.Snapshot()
		return !snap.Loading && len(snap.Slots) == 1
	}, time.Second, 5*time.Millisecond)

	snap := query.Snapshot()
	assert.Equal(t, int64(1), snap.DoctorID)
	assert.Equal(t, int64(1), snap.Slots[0].DoctorID)
	assert.NoError(t, snap.Err)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	doctorOneArrived := make(chan struct{})
	releaseDoctorOne := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/doctors/1/slots":
			close(doctorOneArrived)
			<-releaseDoctorOne
			json.NewEncoder(w).Encode(slotsFor(1))
		case "/doctors/2/slots":
			json.NewEncoder(w).Encode(slotsFor(2))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	query := NewQuery(api.NewClient(server.URL, api.WithLogger(testLogger())), testLogger())
	ctx := context.Background()

	// Select doctor 1, whose response hangs, then re-select doctor 2.
	query.Select(ctx, 1)
	select {
	case <-doctorOneArrived:
	case <-time.After(time.Second):
		t.Fatal("doctor 1 request never reached the server")
	}
	query.Select(ctx, 2)

	require.Eventually(t, func() bool {
		snap := query.Snapshot()
		return !snap.Loading && len(snap.Slots) == 1 && snap.Slots[0].DoctorID == 2
	}, time.Second, 5*time.Millisecond)

	// Now let doctor 1's response arrive late; it must be dropped.
	close(releaseDoctorOne)
	time.Sleep(100 * time.Millisecond)

	snap := query.Snapshot()
	assert.Equal(t, int64(2), snap.DoctorID)
	require.Len(t, snap.Slots, 1)
	assert.Equal(t, int64(2), snap.Slots[0].DoctorID, "doctor 1's late response must never be shown")
}

func TestSelectClearsPreviousSlotsImmediately(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/doctors/3/slots" {
			<-block
		}
		json.NewEncoder(w).Encode(slotsFor(1))
	}))
	defer server.Close()
	defer close(block) // release the handler before the server shuts down

	query := NewQuery(api.NewClient(server.URL, api.WithLogger(testLogger())), testLogger())
	ctx := context.Background()

	query.Select(ctx, 1)
	require.Eventually(t, func() bool {
		return len(query.Snapshot().Slots) == 1
	}, time.Second, 5*time.Millisecond)

	query.Select(ctx, 3)
	snap := query.Snapshot()
	assert.Empty(t, snap.Slots, "previous doctor's slots must not linger")
	assert.True(t, snap.Loading)
	assert.Equal(t, int64(3), snap.DoctorID)
}

func TestFetchFailureClearsList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	query := NewQuery(api.NewClient(server.URL, api.WithLogger(testLogger())), testLogger())
	query.Select(context.Background(), 1)

	require.Eventually(t, func() bool {
		snap := query.Snapshot()
		return !snap.Loading && snap.Err != nil
	}, time.Second, 5*time.Millisecond)

	snap := query.Snapshot()
	assert.Empty(t, snap.Slots)
	var apiErr *api.APIError
	assert.ErrorAs(t, snap.Err, &apiErr)
}

func TestClearDropsSelection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(slotsFor(1))
	}))
	defer server.Close()

	query := NewQuery(api.NewClient(server.URL, api.WithLogger(testLogger())), testLogger())
	query.Select(context.Background(), 1)
	require.Eventually(t, func() bool {
		return len(query.Snapshot().Slots) == 1
	}, time.Second, 5*time.Millisecond)

	query.Clear()
	snap := query.Snapshot()
	assert.Zero(t, snap.DoctorID)
	assert.Empty(t, snap.Slots)
	assert.False(t, snap.Loading)
}
