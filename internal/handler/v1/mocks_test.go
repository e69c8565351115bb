package v1

import (
	"context"
	"errors"

	"github.com/caredesk/hospital-api/internal/domain"
	"github.com/caredesk/hospital-api/internal/domain/appointment"
	"github.com/caredesk/hospital-api/internal/domain/patient"
	"github.com/caredesk/hospital-api/internal/service"
	"github.com/caredesk/hospital-api/pkg/metrics"
	"github.com/google/uuid"
)

var (
	_ patient.Repository      = (*stubPatientRepo)(nil)
	_ appointment.Repository  = (*stubAppointmentRepo)(nil)
	_ service.AuditRepository = (*stubAuditRepo)(nil)
)

// Prometheus collectors register globally, so the test binary shares one.
var testCollector = metrics.NewCollector("hospital_api_test")

type stubPatientRepo struct {
	CreateFunc          func(ctx context.Context, p *patient.Patient) error
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
	GetByNationalIDFunc func(ctx context.Context, nationalID string) (*patient.Patient, error)
	ListFunc            func(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error)
}

func (s *stubPatientRepo) Create(ctx context.Context, p *patient.Patient) error {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, p)
	}
	p.ID = uuid.New()
	return nil
}

func (s *stubPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented in stub")
}

func (s *stubPatientRepo) GetByNationalID(ctx context.Context, nationalID string) (*patient.Patient, error) {
	if s.GetByNationalIDFunc != nil {
		return s.GetByNationalIDFunc(ctx, nationalID)
	}
	return nil, patient.ErrPatientNotFound
}

func (s *stubPatientRepo) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	if s.ListFunc != nil {
		return s.ListFunc(ctx, q)
	}
	return &patient.PagedPatients{}, nil
}

type stubAppointmentRepo struct {
	CreateBatchFunc   func(ctx context.Context, appts []*appointment.Appointment) error
	FindByReasonFunc  func(ctx context.Context, keyword string) ([]*appointment.Appointment, error)
	ListByOwnerFunc   func(ctx context.Context, patientID uuid.UUID) ([]*appointment.Appointment, error)
	DeleteByOwnerFunc func(ctx context.Context, patientID uuid.UUID) (int64, error)
}

func (s *stubAppointmentRepo) CreateBatch(ctx context.Context, appts []*appointment.Appointment) error {
	if s.CreateBatchFunc != nil {
		return s.CreateBatchFunc(ctx, appts)
	}
	return nil
}

func (s *stubAppointmentRepo) FindByReason(ctx context.Context, keyword string) ([]*appointment.Appointment, error) {
	if s.FindByReasonFunc != nil {
		return s.FindByReasonFunc(ctx, keyword)
	}
	return nil, nil
}

func (s *stubAppointmentRepo) ListByOwner(ctx context.Context, patientID uuid.UUID) ([]*appointment.Appointment, error) {
	if s.ListByOwnerFunc != nil {
		return s.ListByOwnerFunc(ctx, patientID)
	}
	return nil, nil
}

func (s *stubAppointmentRepo) DeleteByOwner(ctx context.Context, patientID uuid.UUID) (int64, error) {
	if s.DeleteByOwnerFunc != nil {
		return s.DeleteByOwnerFunc(ctx, patientID)
	}
	return 0, nil
}

type stubAuditRepo struct{}

func (stubAuditRepo) Create(context.Context, *domain.AuditLog) error { return nil }
