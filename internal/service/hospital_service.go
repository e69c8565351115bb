package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/caredesk/hospital-api/internal/domain/appointment"
	"github.com/caredesk/hospital-api/internal/domain/patient"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HospitalService is the appointment reconciliation engine: it resolves a
// patient by national ID (creating one if absent), turns the two parallel
// request lists into owned appointment records, filters by reason, selects
// the latest appointment and removes a patient's whole appointment set.
type HospitalService struct {
	appointments appointment.Repository
	patients     patient.Repository
	auditSvc     *AuditService
	usage        UsageRecorder
	log          *zap.Logger
}

func NewHospitalService(
	appointments appointment.Repository,
	patients patient.Repository,
	auditSvc *AuditService,
	usage UsageRecorder,
	log *zap.Logger,
) *HospitalService {
	return &HospitalService{
		appointments: appointments,
		patients:     patients,
		auditSvc:     auditSvc,
		usage:        usage,
		log:          log,
	}
}

// CreateBulkAppointments resolves (or creates) the owning patient and
// persists one appointment per (reason, date) pair in a single batch.
//
// The lists are zipped positionally. When they differ in length only
// min(len(reasons), len(dates)) pairs are built and the excess of the
// longer list is silently dropped.
func (s *HospitalService) CreateBulkAppointments(ctx context.Context, cmd *appointment.CreateBulkCommand, callerID *uuid.UUID, callerRole string, ip string) ([]*appointment.Appointment, error) {
	var fields []string
	fields = append(fields, (&patient.CreatePatientCommand{Name: cmd.PatientName, NationalID: cmd.NationalID}).Validate()...)
	fields = append(fields, cmd.Validate()...)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	owner, err := s.findOrCreatePatient(ctx, cmd.NationalID, cmd.PatientName, callerID)
	if err != nil {
		return nil, err
	}

	pairs := min(len(cmd.Reasons), len(cmd.Dates))
	batch := make([]*appointment.Appointment, 0, pairs)
	for i := 0; i < pairs; i++ {
		date, err := appointment.CanonicalDate(cmd.Dates[i])
		if err != nil {
			return nil, &ValidationError{Fields: []string{fmt.Sprintf("dates[%d]: %s", i, err)}}
		}
		batch = append(batch, &appointment.Appointment{
			Reason:    cmd.Reasons[i],
			Date:      date,
			PatientID: owner.ID,
		})
	}

	if err := s.appointments.CreateBatch(ctx, batch); err != nil {
		s.log.Error("failed to create appointment batch",
			zap.String("patient_id", owner.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("creating appointments: %w", err)
	}

	s.usage.RecordUsage("bulk_create_appointments")
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   owner.ID.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"count":%d}`, len(batch)),
	})

	s.log.Info("appointments created",
		zap.Int("count", len(batch)),
		zap.String("patient_id", owner.ID.String()),
	)

	return batch, nil
}

// findOrCreatePatient resolves a patient by national ID, creating one when
// absent. An existing patient is returned unchanged: the caller-supplied
// display name never overwrites the stored one. When two callers race to
// create the same national ID the store's unique index makes one of them
// lose; the loser re-reads and resolves to the winner's record.
func (s *HospitalService) findOrCreatePatient(ctx context.Context, nationalID, name string, callerID *uuid.UUID) (*patient.Patient, error) {
	p, err := s.patients.GetByNationalID(ctx, nationalID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, patient.ErrPatientNotFound) {
		return nil, fmt.Errorf("resolving patient: %w", err)
	}

	p = &patient.Patient{
		Name:       strings.TrimSpace(name),
		NationalID: strings.TrimSpace(nationalID),
		CreatedBy:  callerID,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		if errors.Is(err, patient.ErrPatientAlreadyExists) {
			return s.patients.GetByNationalID(ctx, nationalID)
		}
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	s.log.Info("patient created",
		zap.String("patient_id", p.ID.String()),
	)
	return p, nil
}

// GetAppointmentsByReason returns every appointment whose reason equals the
// keyword, compared case-insensitively over the whole string. Exact match,
// not substring match. Zero matches yield an empty result, not an error.
func (s *HospitalService) GetAppointmentsByReason(ctx context.Context, keyword string) ([]*appointment.Appointment, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, &ValidationError{Fields: []string{"keyword must not be empty"}}
	}

	matched, err := s.appointments.FindByReason(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("finding appointments by reason: %w", err)
	}

	s.usage.RecordUsage("get_appointments_by_reason")
	return matched, nil
}

// FindLatestByNationalID returns the patient's appointment with the maximum
// canonical date, or nil when the patient is unknown or has none; both are
// absence, not errors. Ties on the maximum date go to the first appointment
// encountered in the owner's stable insertion order.
func (s *HospitalService) FindLatestByNationalID(ctx context.Context, nationalID string) (*appointment.Appointment, error) {
	if strings.TrimSpace(nationalID) == "" {
		return nil, patient.ErrNationalIDRequired
	}

	p, err := s.patients.GetByNationalID(ctx, nationalID)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolving patient: %w", err)
	}

	appts, err := s.appointments.ListByOwner(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}

	var latest *appointment.Appointment
	for _, a := range appts {
		// Strictly greater keeps the first-encountered pick on ties.
		if latest == nil || a.Date > latest.Date {
			latest = a
		}
	}

	s.usage.RecordUsage("find_latest_appointment")
	return latest, nil
}

// DeleteByNationalID removes the patient's entire appointment set in one
// batch and returns the count removed. An unknown patient or one with no
// appointments yields 0 without error; the patient record itself is never
// deleted here.
func (s *HospitalService) DeleteByNationalID(ctx context.Context, nationalID string, callerID *uuid.UUID, callerRole string, ip string) (int64, error) {
	if strings.TrimSpace(nationalID) == "" {
		return 0, patient.ErrNationalIDRequired
	}

	p, err := s.patients.GetByNationalID(ctx, nationalID)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			s.log.Warn("delete requested for unknown national ID")
			return 0, nil
		}
		return 0, fmt.Errorf("resolving patient: %w", err)
	}

	deleted, err := s.appointments.DeleteByOwner(ctx, p.ID)
	if err != nil {
		s.log.Error("failed to delete appointments",
			zap.String("patient_id", p.ID.String()),
			zap.Error(err),
		)
		return 0, fmt.Errorf("deleting appointments: %w", err)
	}

	s.usage.RecordUsage("delete_appointments")
	if deleted > 0 {
		s.auditSvc.LogAsync(ctx, AuditEntry{
			UserID:       callerID,
			UserRole:     callerRole,
			Action:       "delete",
			ResourceType: "appointment",
			ResourceID:   p.ID.String(),
			IPAddress:    ip,
			Changes:      fmt.Sprintf(`{"deleted":%d}`, deleted),
		})
	}

	s.log.Info("appointments deleted",
		zap.Int64("count", deleted),
		zap.String("patient_id", p.ID.String()),
	)
	return deleted, nil
}
