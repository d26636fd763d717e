package models

import "time"

// Subject represents a course inside a career
type Subject struct {
	ID            int64     `json:"id" db:"id"`
	Nombre        string    `json:"nombre" db:"nombre"`
	Codigo        string    `json:"codigo" db:"codigo"`
	CareerID      int64     `json:"careerId" db:"career_id"`
	ProfessorName string    `json:"professorName" db:"professor_name"`
	Semestre      int       `json:"semestre" db:"semestre"`
	Descripcion   *string   `json:"descripcion,omitempty" db:"descripcion"`
	Activo        bool      `json:"activo" db:"activo"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
	Career        *Career   `json:"career,omitempty"` // Relation, no db tag
}

// SubjectEnrollment joins a student to a subject with the enrollment time
type SubjectEnrollment struct {
	Subject    Subject   `json:"subject"`
	EnrolledAt time.Time `json:"enrolledAt"`
}
