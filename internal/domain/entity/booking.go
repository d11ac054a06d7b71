package entity

import "time"

// BookingStatus is the backend-assigned lifecycle status of a booking.
// The set is closed; the client never invents a status or transitions
// an existing booking locally.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusFailed    BookingStatus = "FAILED"
)

// Booking is a patient's claim on one slot. The record is immutable once
// received from the backend; it is discarded when the user navigates away
// from the booking target.
type Booking struct {
	ID           int64         `json:"id"`
	SlotID       int64         `json:"slot_id"`
	PatientName  string        `json:"patient_name"`
	PatientEmail string        `json:"patient_email,omitempty"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// IsPending checks if the booking is awaiting confirmation.
func (b *Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// IsConfirmed checks if the booking is confirmed.
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// IsFailed checks if the backend rejected or expired the booking.
func (b *Booking) IsFailed() bool {
	return b.Status == BookingStatusFailed
}
