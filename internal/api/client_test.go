package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-booking-client/internal/delivery/dto"
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

func TestListDoctors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/doctors", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		json.NewEncoder(w).Encode([]entity.Doctor{
			{ID: 1, Name: "A. Smith", Specialization: "Cardiology"},
			{ID: 2, Name: "B. Jones"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, WithLogger(testLogger()))
	doctors, err := client.ListDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, int64(1), doctors[0].ID)
	assert.Equal(t, "A. Smith", doctors[0].Name)
	assert.Equal(t, "Cardiology", doctors[0].Specialization)
}

func TestListDoctorSlots(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/doctors/7/slots", r.URL.Path)
		json.NewEncoder(w).Encode([]entity.AppointmentSlot{
			{ID: 10, DoctorID: 7, StartTime: start, DurationMinutes: 30},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, WithLogger(testLogger()))
	slots, err := client.ListDoctorSlots(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, int64(10), slots[0].ID)
	assert.True(t, slots[0].StartTime.Equal(start))
}

func TestBookSlot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/slots/10/book", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req dto.BookSlotRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Jane Doe", req.PatientName)

		json.NewEncoder(w).Encode(entity.Booking{
			ID:          99,
			SlotID:      10,
			PatientName: req.PatientName,
			Status:      entity.BookingStatusConfirmed,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, WithLogger(testLogger()))
	booking, err := client.BookSlot(context.Background(), 10, &dto.BookSlotRequest{PatientName: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, int64(99), booking.ID)
	assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)
}

func TestAPIError(t *testing.T) {
	t.Run("backend message is carried", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "slot already taken"})
		}))
		defer server.Close()

		client := NewClient(server.URL, WithLogger(testLogger()))
		_, err := client.BookSlot(context.Background(), 10, &dto.BookSlotRequest{PatientName: "Jane"})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
		assert.Equal(t, "slot already taken", apiErr.Message)
		assert.Equal(t, "slot already taken", apiErr.UserMessage())
	})

	t.Run("conflict without body gets a generic message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer server.Close()

		client := NewClient(server.URL, WithLogger(testLogger()))
		_, err := client.ListDoctors(context.Background())

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Empty(t, apiErr.Message)
		assert.Equal(t, "this slot has already been booked", apiErr.UserMessage())
	})

	t.Run("plain 500 body is ignored", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		}))
		defer server.Close()

		client := NewClient(server.URL, WithLogger(testLogger()))
		_, err := client.ListDoctors(context.Background())

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Contains(t, apiErr.UserMessage(), "500")
	})
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL, WithLogger(testLogger()))
	_, err := client.ListDoctors(context.Background())
	require.Error(t, err)

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestAdminEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/doctors":
			var req dto.CreateDoctorRequest
			json.NewDecoder(r.Body).Decode(&req)
			json.NewEncoder(w).Encode(entity.Doctor{ID: 3, Name: req.Name, Specialization: req.Specialization})
		case r.Method == http.MethodPost && r.URL.Path == "/admin/slots":
			var req dto.CreateSlotRequest
			json.NewDecoder(r.Body).Decode(&req)
			json.NewEncoder(w).Encode(entity.AppointmentSlot{ID: 11, DoctorID: req.DoctorID, StartTime: req.StartTime, DurationMinutes: req.DurationMinutes})
		case r.Method == http.MethodGet && r.URL.Path == "/admin/doctors/3/slots":
			json.NewEncoder(w).Encode([]entity.AppointmentSlot{{ID: 11, DoctorID: 3}})
		case r.Method == http.MethodGet && r.URL.Path == "/admin/stats":
			json.NewEncoder(w).Encode(entity.Stats{Doctors: 3, Slots: 12, Bookings: 5})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, WithLogger(testLogger()))
	ctx := context.Background()

	doctor, err := client.CreateDoctor(ctx, &dto.CreateDoctorRequest{Name: "C. Brown", Specialization: "Dermatology"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), doctor.ID)

	slot, err := client.CreateSlot(ctx, &dto.CreateSlotRequest{
		DoctorID:        3,
		StartTime:       time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), slot.ID)

	all, err := client.ListAdminDoctorSlots(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	stats, err := client.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Doctors)
	assert.Equal(t, int64(5), stats.Bookings)
}
