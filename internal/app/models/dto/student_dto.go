package dto

import (
	"time"

	"github.com/dcastellanos/uniportal/internal/app/models"
)

// UserResponse is the sanitized view of a student. Provider subject ids are
// never exposed; only boolean linked-account flags are.
type UserResponse struct {
	ID                  int64                      `json:"id"`
	Email               string                     `json:"email"`
	FullName            string                     `json:"nombreCompleto"`
	ProfilePicture      *string                    `json:"profilePicture,omitempty"`
	Identificacion      *string                    `json:"identificacion,omitempty"`
	Materias            []string                   `json:"materias"`
	IsProfileComplete   bool                       `json:"isProfileComplete"`
	HasGoogleAccount    bool                       `json:"hasGoogleAccount"`
	HasMicrosoftAccount bool                       `json:"hasMicrosoftAccount"`
	Careers             []CareerEnrollmentResponse `json:"careers"`
	CreatedAt           time.Time                  `json:"createdAt"`
	UpdatedAt           time.Time                  `json:"updatedAt"`
}

// CareerEnrollmentResponse is the expanded view of an enrolled career
type CareerEnrollmentResponse struct {
	ID         int64     `json:"id"`
	Nombre     string    `json:"nombre"`
	Codigo     string    `json:"codigo"`
	Icon       string    `json:"icon"`
	Color      string    `json:"color"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// NewUserResponse builds the sanitized view from the student aggregate
func NewUserResponse(student *models.Student) *UserResponse {
	careers := make([]CareerEnrollmentResponse, 0, len(student.Careers))
	for _, enr := range student.Careers {
		careers = append(careers, CareerEnrollmentResponse{
			ID:         enr.Career.ID,
			Nombre:     enr.Career.Nombre,
			Codigo:     enr.Career.Codigo,
			Icon:       enr.Career.Icon,
			Color:      enr.Career.Color,
			EnrolledAt: enr.EnrolledAt,
		})
	}

	materias := student.Materias
	if materias == nil {
		materias = []string{}
	}

	return &UserResponse{
		ID:                  student.ID,
		Email:               student.Email,
		FullName:            student.FullName,
		ProfilePicture:      student.ProfilePicture,
		Identificacion:      student.Identificacion,
		Materias:            materias,
		IsProfileComplete:   student.IsProfileComplete,
		HasGoogleAccount:    student.GoogleID != nil,
		HasMicrosoftAccount: student.MicrosoftID != nil,
		Careers:             careers,
		CreatedAt:           student.CreatedAt,
		UpdatedAt:           student.UpdatedAt,
	}
}
