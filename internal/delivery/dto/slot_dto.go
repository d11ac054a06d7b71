package dto

import "time"

// CreateSlotRequest is the body of the admin POST /admin/slots call.
type CreateSlotRequest struct {
	DoctorID        int64     `json:"doctor_id" validate:"required,min=1"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,min=1"`
}
