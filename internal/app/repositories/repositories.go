package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository *StudentRepository
	CareerRepository  *CareerRepository
	SubjectRepository *SubjectRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository: NewStudentRepository(db),
		CareerRepository:  NewCareerRepository(db),
		SubjectRepository: NewSubjectRepository(db),
	}
}
