package entity

// Stats is the aggregate counts object returned by the admin stats endpoint.
type Stats struct {
	Doctors           int64 `json:"doctors"`
	Slots             int64 `json:"slots"`
	Bookings          int64 `json:"bookings"`
	PendingBookings   int64 `json:"pending_bookings"`
	ConfirmedBookings int64 `json:"confirmed_bookings"`
	FailedBookings    int64 `json:"failed_bookings"`
}
