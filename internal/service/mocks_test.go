package service

import (
	"context"
	"errors"
	"sync"

	"github.com/caredesk/hospital-api/internal/domain"
	"github.com/caredesk/hospital-api/internal/domain/appointment"
	"github.com/caredesk/hospital-api/internal/domain/patient"
	"github.com/google/uuid"
)

// Compile-time checks that the mocks satisfy the repository contracts.
var (
	_ patient.Repository     = (*mockPatientRepo)(nil)
	_ appointment.Repository = (*mockAppointmentRepo)(nil)
	_ AuditRepository        = (*mockAuditRepo)(nil)
)

type mockPatientRepo struct {
	CreateFunc          func(ctx context.Context, p *patient.Patient) error
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
	GetByNationalIDFunc func(ctx context.Context, nationalID string) (*patient.Patient, error)
	ListFunc            func(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error)

	CreateCalls int
}

func (m *mockPatientRepo) Create(ctx context.Context, p *patient.Patient) error {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *mockPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented in mock")
}

func (m *mockPatientRepo) GetByNationalID(ctx context.Context, nationalID string) (*patient.Patient, error) {
	if m.GetByNationalIDFunc != nil {
		return m.GetByNationalIDFunc(ctx, nationalID)
	}
	return nil, errors.New("GetByNationalIDFunc not implemented in mock")
}

func (m *mockPatientRepo) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return nil, errors.New("ListFunc not implemented in mock")
}

type mockAppointmentRepo struct {
	CreateBatchFunc   func(ctx context.Context, appts []*appointment.Appointment) error
	FindByReasonFunc  func(ctx context.Context, keyword string) ([]*appointment.Appointment, error)
	ListByOwnerFunc   func(ctx context.Context, patientID uuid.UUID) ([]*appointment.Appointment, error)
	DeleteByOwnerFunc func(ctx context.Context, patientID uuid.UUID) (int64, error)
}

func (m *mockAppointmentRepo) CreateBatch(ctx context.Context, appts []*appointment.Appointment) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, appts)
	}
	return nil
}

func (m *mockAppointmentRepo) FindByReason(ctx context.Context, keyword string) ([]*appointment.Appointment, error) {
	if m.FindByReasonFunc != nil {
		return m.FindByReasonFunc(ctx, keyword)
	}
	return nil, errors.New("FindByReasonFunc not implemented in mock")
}

func (m *mockAppointmentRepo) ListByOwner(ctx context.Context, patientID uuid.UUID) ([]*appointment.Appointment, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, patientID)
	}
	return nil, errors.New("ListByOwnerFunc not implemented in mock")
}

func (m *mockAppointmentRepo) DeleteByOwner(ctx context.Context, patientID uuid.UUID) (int64, error) {
	if m.DeleteByOwnerFunc != nil {
		return m.DeleteByOwnerFunc(ctx, patientID)
	}
	return 0, errors.New("DeleteByOwnerFunc not implemented in mock")
}

type mockAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// usageSpy records the usage events the engine emits.
type usageSpy struct {
	mu     sync.Mutex
	events []string
}

func (u *usageSpy) RecordUsage(operation string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.events = append(u.events, operation)
}

func (u *usageSpy) Events() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.events...)
}

// inMemoryPatients wires a mockPatientRepo to map-backed storage keyed by
// national ID, close enough to the real store for reconciliation tests.
func inMemoryPatients() (*mockPatientRepo, map[string]*patient.Patient) {
	store := make(map[string]*patient.Patient)
	repo := &mockPatientRepo{}
	repo.GetByNationalIDFunc = func(_ context.Context, nationalID string) (*patient.Patient, error) {
		if p, ok := store[nationalID]; ok {
			return p, nil
		}
		return nil, patient.ErrPatientNotFound
	}
	repo.CreateFunc = func(_ context.Context, p *patient.Patient) error {
		if _, ok := store[p.NationalID]; ok {
			return patient.ErrPatientAlreadyExists
		}
		p.ID = uuid.New()
		store[p.NationalID] = p
		return nil
	}
	return repo, store
}
