package entity

import "time"

// Doctor is a bookable practitioner as returned by the backend.
// Records are read-only snapshots: a fetch replaces the whole set,
// individual records are never mutated client-side.
type Doctor struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Specialization string     `json:"specialization,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

// DisplayName returns the name with the specialization appended when present.
func (d *Doctor) DisplayName() string {
	if d.Specialization == "" {
		return d.Name
	}
	return d.Name + " (" + d.Specialization + ")"
}
