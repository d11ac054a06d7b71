package converter

import (
	"clinic-booking-client/internal/delivery/dto"
	"clinic-booking-client/internal/domain/entity"
)

// TicketToView assembles the renderable ticket for a succeeded booking
// from whatever slot/doctor context is still at hand. Either context
// record may be nil.
func TicketToView(booking *entity.Booking, slot *entity.AppointmentSlot, doctor *entity.Doctor) *dto.TicketView {
	if booking == nil {
		return nil
	}

	view := &dto.TicketView{
		BookingID:    booking.ID,
		PatientName:  booking.PatientName,
		PatientEmail: booking.PatientEmail,
		Status:       string(booking.Status),
		DoctorName:   "your doctor",
	}

	if doctor != nil {
		view.DoctorName = doctor.Name
	}
	if slot != nil {
		view.HasSchedule = true
		view.StartTime = slot.StartTime
		view.EndTime = slot.End()
	}

	return view
}
