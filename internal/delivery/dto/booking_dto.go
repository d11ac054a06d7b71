package dto

import "time"

// Request DTOs

// BookSlotRequest is the body of POST /slots/{slotId}/book.
type BookSlotRequest struct {
	PatientName  string `json:"patient_name" validate:"required,min=1,max=200"`
	PatientEmail string `json:"patient_email,omitempty" validate:"omitempty,email"`
}

// View DTOs

// TicketView is the renderable summary of a succeeded booking, assembled
// from the booking plus whatever slot/doctor context is still at hand.
type TicketView struct {
	BookingID    int64
	PatientName  string
	PatientEmail string
	DoctorName   string
	Status       string
	StartTime    time.Time
	EndTime      time.Time
	HasSchedule  bool
}
