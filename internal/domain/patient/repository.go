package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient. Returns ErrPatientAlreadyExists when the
	// NationalID is already taken (unique index violation).
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// GetByNationalID retrieves a patient by their national identifier using
	// an exact, indexed lookup. Returns ErrPatientNotFound if not found.
	GetByNationalID(ctx context.Context, nationalID string) (*Patient, error)

	// List returns a paginated, filtered list of patients.
	List(ctx context.Context, q *ListPatientsQuery) (*PagedPatients, error)
}
