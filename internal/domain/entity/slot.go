package entity

import "time"

// AppointmentSlot is a fixed-duration bookable time window belonging to
// one doctor. The client never tracks availability itself; a slot is
// bookable exactly as long as the backend keeps listing it.
type AppointmentSlot struct {
	ID              int64     `json:"id"`
	DoctorID        int64     `json:"doctor_id"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

// End returns the slot's end time derived from start and duration.
func (s *AppointmentSlot) End() time.Time {
	return s.StartTime.Add(time.Duration(s.DurationMinutes) * time.Minute)
}
