package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/caredesk/hospital-api/internal/domain/patient"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	usage    UsageRecorder
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, usage UsageRecorder, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		auditSvc: auditSvc,
		usage:    usage,
		log:      log,
	}
}

// RegisterPatient creates a patient record explicitly. Unlike the implicit
// creation during bulk appointment requests, a duplicate national ID is an
// error here, not a resolve-to-existing.
func (s *PatientService) RegisterPatient(ctx context.Context, cmd *patient.CreatePatientCommand, callerRole string, ip string) (*patient.Patient, error) {
	if fields := cmd.Validate(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	p := &patient.Patient{
		Name:       strings.TrimSpace(cmd.Name),
		NationalID: strings.TrimSpace(cmd.NationalID),
		CreatedBy:  cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	s.usage.RecordUsage("register_patient")
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.CreatedBy,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "patient",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("patient registered",
		zap.String("patient_id", p.ID.String()),
	)

	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PatientService) ListPatients(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	return s.repo.List(ctx, q)
}
