package converter

import (
	"testing"
	"time"

	"clinic-booking-client/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketToView(t *testing.T) {
	booking := &entity.Booking{
		ID:          99,
		SlotID:      10,
		PatientName: "Jane Doe",
		Status:      entity.BookingStatusConfirmed,
	}
	slot := &entity.AppointmentSlot{
		ID:              10,
		DoctorID:        1,
		StartTime:       time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
	}
	doctor := &entity.Doctor{ID: 1, Name: "A. Smith"}

	view := TicketToView(booking, slot, doctor)
	require.NotNil(t, view)
	assert.Equal(t, int64(99), view.BookingID)
	assert.Equal(t, "A. Smith", view.DoctorName)
	assert.Equal(t, "CONFIRMED", view.Status)
	assert.True(t, view.HasSchedule)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC), view.EndTime)
}

func TestTicketToViewWithoutContext(t *testing.T) {
	booking := &entity.Booking{ID: 99, PatientName: "Jane Doe", Status: entity.BookingStatusPending}

	view := TicketToView(booking, nil, nil)
	require.NotNil(t, view)
	assert.Equal(t, "your doctor", view.DoctorName)
	assert.False(t, view.HasSchedule)

	assert.Nil(t, TicketToView(nil, nil, nil))
}
