package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// CreateBatch persists the whole batch in a single transaction. Either
	// every appointment is stored or none is; callers never observe a
	// partial batch.
	CreateBatch(ctx context.Context, appts []*Appointment) error

	// FindByReason returns appointments whose reason equals the keyword
	// case-insensitively. Whole-string equality, not substring match.
	// No result ordering is guaranteed.
	FindByReason(ctx context.Context, keyword string) ([]*Appointment, error)

	// ListByOwner returns all appointments of one patient in stable
	// insertion order (created_at, then id).
	ListByOwner(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)

	// DeleteByOwner removes every appointment of one patient in a single
	// statement and reports how many were removed. All-or-nothing: on error
	// nothing is considered deleted.
	DeleteByOwner(ctx context.Context, patientID uuid.UUID) (int64, error)
}
