package dto

// CreateDoctorRequest is the body of the admin POST /doctors call.
type CreateDoctorRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=200"`
	Specialization string `json:"specialization,omitempty" validate:"omitempty,max=100"`
}
