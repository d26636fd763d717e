package models

import (
	"time"
)

// Student defines the student model based on the 'students' table.
// Accounts are created exclusively through provider login; there is no
// password column.
type Student struct {
	ID                int64      `json:"id" db:"id" example:"1"`                                           // Unique identifier for the student
	Email             string     `json:"email" db:"email" example:"maria@uniportal.edu"`                   // Student's email, the merge key across providers
	GoogleID          *string    `json:"-" db:"google_id"`                                                 // Google subject id (nullable, unique when present)
	MicrosoftID       *string    `json:"-" db:"microsoft_id"`                                              // Microsoft account id (nullable, unique when present)
	FullName          string     `json:"nombreCompleto" db:"nombre_completo" example:"Maria Lopez"`        // Display name refreshed on every login
	ProfilePicture    *string    `json:"profilePicture,omitempty" db:"profile_picture"`                    // Profile picture URL (nullable)
	Identificacion    *string    `json:"identificacion,omitempty" db:"identificacion" example:"AB12345"`   // Identity document string (nullable)
	Materias          []string   `json:"materias" db:"materias"`                                           // Free-text subject names from profile updates
	IsProfileComplete bool       `json:"isProfileComplete" db:"is_profile_complete" example:"false"`       // Derived flag, persisted as cache
	CreatedAt         time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`         // Timestamp when the account was created
	UpdatedAt         time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`         // Timestamp of the last update
	Careers           []CareerEnrollment `json:"careers,omitempty"`                                        // Relation, no db tag
}

// ProfileComplete computes the derived completeness flag from entity state.
// The stored is_profile_complete column is only a cache of this result and
// must be recomputed after every mutation that could affect it.
func ProfileComplete(identificacion *string, enrolledCareers int) bool {
	return identificacion != nil && *identificacion != "" && enrolledCareers > 0
}
