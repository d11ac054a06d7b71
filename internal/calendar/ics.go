// Package calendar formats a booking into an iCalendar payload. It is
// pure: the same inputs always produce the same bytes, and writing the
// file is the caller's problem.
package calendar

import (
	"errors"
	"fmt"
	"strings"

	"clinic-booking-client/internal/domain/entity"
)

const (
	prodID        = "-//clinic-booking-client//EN"
	stampLayout   = "20060102T150405Z"
	noDoctorLabel = "your doctor"
)

var ErrNilBooking = errors.New("calendar: booking is required")

// Export renders one VEVENT for the booking. The event runs from the
// slot's start for its duration; without a slot it degrades to a
// zero-length event at the booking's creation time. The summary names
// the doctor when known. DTSTAMP derives from the booking record, never
// from the wall clock, so output stays deterministic.
func Export(booking *entity.Booking, slot *entity.AppointmentSlot, doctor *entity.Doctor) ([]byte, error) {
	if booking == nil {
		return nil, ErrNilBooking
	}

	start := booking.CreatedAt
	end := start
	if slot != nil {
		start = slot.StartTime
		end = slot.End()
	}

	summary := "Appointment with " + noDoctorLabel
	if doctor != nil && doctor.Name != "" {
		summary = "Appointment with " + doctor.Name
	}
	description := fmt.Sprintf("Booking #%d for %s", booking.ID, booking.PatientName)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:booking-%d@clinic-booking-client", booking.ID),
		"DTSTAMP:" + booking.CreatedAt.UTC().Format(stampLayout),
		"DTSTART:" + start.UTC().Format(stampLayout),
		"DTEND:" + end.UTC().Format(stampLayout),
		"SUMMARY:" + escapeText(summary),
		"DESCRIPTION:" + escapeText(description),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return []byte(strings.Join(lines, "\r\n") + "\r\n"), nil
}

// escapeText applies RFC 5545 TEXT escaping.
func escapeText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
