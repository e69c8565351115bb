package postgres

import (
	"context"
	"fmt"

	"github.com/caredesk/hospital-api/internal/domain/appointment"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

var _ appointment.Repository = (*AppointmentRepository)(nil)

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// CreateBatch inserts the whole batch inside one transaction so the caller
// never observes a partial batch.
func (r *AppointmentRepository) CreateBatch(ctx context.Context, appts []*appointment.Appointment) error {
	if len(appts) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&appts).Error
	})
	if err != nil {
		return fmt.Errorf("inserting appointment batch: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) FindByReason(ctx context.Context, keyword string) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("LOWER(reason) = LOWER(?) AND deleted_at IS NULL", keyword).
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("querying appointments by reason: %w", err)
	}
	return appts, nil
}

// ListByOwner returns the owner's appointments in insertion order. The
// stable ordering is what makes the latest-appointment tie-break
// deterministic across calls.
func (r *AppointmentRepository) ListByOwner(ctx context.Context, patientID uuid.UUID) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND deleted_at IS NULL", patientID).
		Order("created_at, id").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("querying appointments by owner: %w", err)
	}
	return appts, nil
}

// DeleteByOwner removes the owner's whole appointment set with a single
// statement; the row count it reports is therefore exact and the deletion
// is all-or-nothing.
func (r *AppointmentRepository) DeleteByOwner(ctx context.Context, patientID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Delete(&appointment.Appointment{})
	if res.Error != nil {
		return 0, fmt.Errorf("deleting appointments by owner: %w", res.Error)
	}
	return res.RowsAffected, nil
}
