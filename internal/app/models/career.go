package models

import "time"

// Career represents a degree program in the catalog. Careers are never hard
// deleted, only deactivated via the activo flag.
type Career struct {
	ID          int64     `json:"id" db:"id"`
	Nombre      string    `json:"nombre" db:"nombre"`
	Codigo      string    `json:"codigo" db:"codigo"`
	Icon        string    `json:"icon" db:"icon"`
	Color       string    `json:"color" db:"color"`
	Descripcion *string   `json:"descripcion,omitempty" db:"descripcion"`
	Activo      bool      `json:"activo" db:"activo"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CareerEnrollment joins a student to a career with the enrollment time
type CareerEnrollment struct {
	Career     Career    `json:"career"`
	EnrolledAt time.Time `json:"enrolledAt"`
}
