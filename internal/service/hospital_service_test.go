package service

import (
	"context"
	"errors"
	"testing"

	"github.com/caredesk/hospital-api/internal/domain/appointment"
	"github.com/caredesk/hospital-api/internal/domain/patient"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHospitalService(t *testing.T, appts appointment.Repository, patients patient.Repository) (*HospitalService, *usageSpy) {
	t.Helper()
	usage := &usageSpy{}
	auditSvc := NewAuditService(&mockAuditRepo{}, zap.NewNop())
	t.Cleanup(auditSvc.Shutdown)
	return NewHospitalService(appts, patients, auditSvc, usage, zap.NewNop()), usage
}

func bulkCmd(reasons, dates []string) *appointment.CreateBulkCommand {
	return &appointment.CreateBulkCommand{
		PatientName: "John Doe",
		NationalID:  "23454555",
		Reasons:     reasons,
		Dates:       dates,
	}
}

func TestCreateBulkAppointments_PairsByIndex(t *testing.T) {
	patientRepo, _ := inMemoryPatients()
	var persisted []*appointment.Appointment
	apptRepo := &mockAppointmentRepo{
		CreateBatchFunc: func(_ context.Context, appts []*appointment.Appointment) error {
			persisted = appts
			return nil
		},
	}
	svc, usage := newHospitalService(t, apptRepo, patientRepo)

	created, err := svc.CreateBulkAppointments(context.Background(),
		bulkCmd(
			[]string{"Checkup", "Follow-up", "X-Ray"},
			[]string{"2025-02-01", "2025-02-15", "2025-03-01"},
		), nil, "", "")
	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.Equal(t, created, persisted)

	assert.Equal(t, "Checkup", created[0].Reason)
	assert.Equal(t, "2025-02-01", created[0].Date)
	assert.Equal(t, "X-Ray", created[2].Reason)
	assert.Equal(t, "2025-03-01", created[2].Date)

	// Every appointment carries the same non-nil owner.
	owner := created[0].PatientID
	assert.NotEqual(t, uuid.Nil, owner)
	for _, a := range created {
		assert.Equal(t, owner, a.PatientID)
	}

	assert.Contains(t, usage.Events(), "bulk_create_appointments")
}

func TestCreateBulkAppointments_TruncatesToShorterList(t *testing.T) {
	cases := []struct {
		name    string
		reasons []string
		dates   []string
		want    int
	}{
		{"more reasons than dates", []string{"Checkup", "Follow-up", "X-Ray"}, []string{"2025-02-01", "2025-02-15"}, 2},
		{"more dates than reasons", []string{"Checkup"}, []string{"2025-02-01", "2025-02-15", "2025-03-01"}, 1},
		{"equal length", []string{"Checkup", "X-Ray"}, []string{"2025-02-01", "2025-02-15"}, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			patientRepo, _ := inMemoryPatients()
			svc, _ := newHospitalService(t, &mockAppointmentRepo{}, patientRepo)

			created, err := svc.CreateBulkAppointments(context.Background(), bulkCmd(tc.reasons, tc.dates), nil, "", "")
			require.NoError(t, err)
			assert.Len(t, created, tc.want)
			for i, a := range created {
				assert.Equal(t, tc.reasons[i], a.Reason)
				assert.Equal(t, tc.dates[i], a.Date)
			}
		})
	}
}

func TestCreateBulkAppointments_Validation(t *testing.T) {
	cases := []struct {
		name string
		cmd  *appointment.CreateBulkCommand
	}{
		{"empty reasons", bulkCmd(nil, []string{"2025-02-01"})},
		{"empty dates", bulkCmd([]string{"Checkup"}, nil)},
		{"missing name", &appointment.CreateBulkCommand{NationalID: "1", Reasons: []string{"a"}, Dates: []string{"2025-02-01"}}},
		{"missing ssn", &appointment.CreateBulkCommand{PatientName: "x", Reasons: []string{"a"}, Dates: []string{"2025-02-01"}}},
		{"malformed date", bulkCmd([]string{"Checkup"}, []string{"02/01/2025"})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			patientRepo, _ := inMemoryPatients()
			svc, _ := newHospitalService(t, &mockAppointmentRepo{}, patientRepo)

			_, err := svc.CreateBulkAppointments(context.Background(), tc.cmd, nil, "", "")
			var validErr *ValidationError
			assert.ErrorAs(t, err, &validErr)
		})
	}
}

func TestCreateBulkAppointments_ReusesExistingPatient(t *testing.T) {
	patientRepo, store := inMemoryPatients()
	svc, _ := newHospitalService(t, &mockAppointmentRepo{}, patientRepo)

	_, err := svc.CreateBulkAppointments(context.Background(), bulkCmd([]string{"Checkup"}, []string{"2025-02-01"}), nil, "", "")
	require.NoError(t, err)
	require.Len(t, store, 1)
	assert.Equal(t, 1, patientRepo.CreateCalls)

	// Same national ID with a different display name: no second patient,
	// and the stored name is not overwritten.
	cmd := bulkCmd([]string{"Follow-up"}, []string{"2025-02-15"})
	cmd.PatientName = "Johnny D."
	_, err = svc.CreateBulkAppointments(context.Background(), cmd, nil, "", "")
	require.NoError(t, err)
	assert.Len(t, store, 1)
	assert.Equal(t, 1, patientRepo.CreateCalls)
	assert.Equal(t, "John Doe", store["23454555"].Name)
}

func TestCreateBulkAppointments_LostCreateRaceResolvesToWinner(t *testing.T) {
	// The store reports not-found on lookup but conflict on create, as a
	// concurrent writer would cause. The engine must settle on the
	// winner's record instead of failing.
	winner := &patient.Patient{ID: uuid.New(), Name: "John Doe", NationalID: "23454555"}
	lookups := 0
	patientRepo := &mockPatientRepo{
		GetByNationalIDFunc: func(_ context.Context, _ string) (*patient.Patient, error) {
			lookups++
			if lookups == 1 {
				return nil, patient.ErrPatientNotFound
			}
			return winner, nil
		},
		CreateFunc: func(_ context.Context, _ *patient.Patient) error {
			return patient.ErrPatientAlreadyExists
		},
	}
	svc, _ := newHospitalService(t, &mockAppointmentRepo{}, patientRepo)

	created, err := svc.CreateBulkAppointments(context.Background(), bulkCmd([]string{"Checkup"}, []string{"2025-02-01"}), nil, "", "")
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, winner.ID, created[0].PatientID)
}

func TestCreateBulkAppointments_BatchFailureYieldsNoResults(t *testing.T) {
	patientRepo, _ := inMemoryPatients()
	storeErr := errors.New("connection refused")
	apptRepo := &mockAppointmentRepo{
		CreateBatchFunc: func(_ context.Context, _ []*appointment.Appointment) error {
			return storeErr
		},
	}
	svc, usage := newHospitalService(t, apptRepo, patientRepo)

	created, err := svc.CreateBulkAppointments(context.Background(), bulkCmd([]string{"Checkup"}, []string{"2025-02-01"}), nil, "", "")
	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, created)
	assert.Empty(t, usage.Events())
}

func TestGetAppointmentsByReason_ExactCaseInsensitiveMatch(t *testing.T) {
	// The repository applies the matching rule; the engine passes the
	// keyword through verbatim.
	var gotKeyword string
	match := &appointment.Appointment{ID: uuid.New(), Reason: "checkup", Date: "2025-02-01"}
	apptRepo := &mockAppointmentRepo{
		FindByReasonFunc: func(_ context.Context, keyword string) ([]*appointment.Appointment, error) {
			gotKeyword = keyword
			return []*appointment.Appointment{match}, nil
		},
	}
	svc, usage := newHospitalService(t, apptRepo, &mockPatientRepo{})

	matched, err := svc.GetAppointmentsByReason(context.Background(), "Checkup")
	require.NoError(t, err)
	assert.Equal(t, "Checkup", gotKeyword)
	assert.Equal(t, []*appointment.Appointment{match}, matched)
	assert.Contains(t, usage.Events(), "get_appointments_by_reason")
}

func TestGetAppointmentsByReason_BlankKeyword(t *testing.T) {
	svc, usage := newHospitalService(t, &mockAppointmentRepo{}, &mockPatientRepo{})

	for _, keyword := range []string{"", "   ", "\t"} {
		_, err := svc.GetAppointmentsByReason(context.Background(), keyword)
		var validErr *ValidationError
		assert.ErrorAs(t, err, &validErr)
	}
	assert.Empty(t, usage.Events())
}

func TestGetAppointmentsByReason_ZeroMatchesIsNotAnError(t *testing.T) {
	apptRepo := &mockAppointmentRepo{
		FindByReasonFunc: func(_ context.Context, _ string) ([]*appointment.Appointment, error) {
			return nil, nil
		},
	}
	svc, _ := newHospitalService(t, apptRepo, &mockPatientRepo{})

	matched, err := svc.GetAppointmentsByReason(context.Background(), "Dental")
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestFindLatest_PicksMaximumDate(t *testing.T) {
	owner := &patient.Patient{ID: uuid.New(), NationalID: "23454555"}
	patientRepo := &mockPatientRepo{
		GetByNationalIDFunc: func(_ context.Context, _ string) (*patient.Patient, error) {
			return owner, nil
		},
	}
	apptRepo := &mockAppointmentRepo{
		ListByOwnerFunc: func(_ context.Context, _ uuid.UUID) ([]*appointment.Appointment, error) {
			return []*appointment.Appointment{
				{ID: uuid.New(), Reason: "Checkup", Date: "2023-10-01"},
				{ID: uuid.New(), Reason: "Follow-up", Date: "2023-11-01"},
			}, nil
		},
	}
	svc, usage := newHospitalService(t, apptRepo, patientRepo)

	latest, err := svc.FindLatestByNationalID(context.Background(), "23454555")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2023-11-01", latest.Date)
	assert.Equal(t, "Follow-up", latest.Reason)
	assert.Contains(t, usage.Events(), "find_latest_appointment")
}

func TestFindLatest_TieGoesToFirstEncountered(t *testing.T) {
	owner := &patient.Patient{ID: uuid.New(), NationalID: "23454555"}
	first := &appointment.Appointment{ID: uuid.New(), Reason: "Checkup", Date: "2025-03-01"}
	second := &appointment.Appointment{ID: uuid.New(), Reason: "X-Ray", Date: "2025-03-01"}
	patientRepo := &mockPatientRepo{
		GetByNationalIDFunc: func(_ context.Context, _ string) (*patient.Patient, error) {
			return owner, nil
		},
	}
	apptRepo := &mockAppointmentRepo{
		ListByOwnerFunc: func(_ context.Context, _ uuid.UUID) ([]*appointment.Appointment, error) {
			return []*appointment.Appointment{first, second}, nil
		},
	}
	svc, _ := newHospitalService(t, apptRepo, patientRepo)

	// Same input, same pick, every time.
	for i := 0; i < 5; i++ {
		latest, err := svc.FindLatestByNationalID(context.Background(), "23454555")
		require.NoError(t, err)
		assert.Equal(t, first.ID, latest.ID)
	}
}

func TestFindLatest_AbsenceIsNotAnError(t *testing.T) {
	t.Run("unknown patient", func(t *testing.T) {
		patientRepo := &mockPatientRepo{
			GetByNationalIDFunc: func(_ context.Context, _ string) (*patient.Patient, error) {
				return nil, patient.ErrPatientNotFound
			},
		}
		svc, _ := newHospitalService(t, &mockAppointmentRepo{}, patientRepo)

		latest, err := svc.FindLatestByNationalID(context.Background(), "00000000")
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("patient without appointments", func(t *testing.T) {
		owner := &patient.Patient{ID: uuid.New(), NationalID: "23454555"}
		patientRepo := &mockPatientRepo{
			GetByNationalIDFunc: func(_ context.Context, _ string) (*patient.Patient, error) {
				return owner, nil
			},
		}
		apptRepo := &mockAppointmentRepo{
			ListByOwnerFunc: func(_ context.Context, _ uuid.UUID) ([]*appointment.Appointment, error) {
				return nil, nil
			},
		}
		svc, _ := newHospitalService(t, apptRepo, patientRepo)

		latest, err := svc.FindLatestByNationalID(context.Background(), "23454555")
		require.NoError(t, err)
		assert.Nil(t, latest)
	})
}

func TestFindLatest_StoreFailurePropagates(t *testing.T) {
	storeErr := errors.New("connection refused")
	patientRepo := &mockPatientRepo{
		GetByNationalIDFunc: func(_ context.Context, _ string) (*patient.Patient, error) {
			return nil, storeErr
		},
	}
	svc, _ := newHospitalService(t, &mockAppointmentRepo{}, patientRepo)

	// A store failure must stay distinguishable from "nothing found".
	_, err := svc.FindLatestByNationalID(context.Background(), "23454555")
	assert.ErrorIs(t, err, storeErr)
}

func TestDeleteByNationalID_RemovesWholeSetOnce(t *testing.T) {
	owner := &patient.Patient{ID: uuid.New(), NationalID: "23454555"}
	remaining := int64(3)
	patientRepo := &mockPatientRepo{
		GetByNationalIDFunc: func(_ context.Context, _ string) (*patient.Patient, error) {
			return owner, nil
		},
	}
	apptRepo := &mockAppointmentRepo{
		DeleteByOwnerFunc: func(_ context.Context, patientID uuid.UUID) (int64, error) {
			assert.Equal(t, owner.ID, patientID)
			n := remaining
			remaining = 0
			return n, nil
		},
	}
	svc, usage := newHospitalService(t, apptRepo, patientRepo)

	deleted, err := svc.DeleteByNationalID(context.Background(), "23454555", nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	// Immediately again: nothing left, still no error.
	deleted, err = svc.DeleteByNationalID(context.Background(), "23454555", nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	assert.Equal(t, []string{"delete_appointments", "delete_appointments"}, usage.Events())
}

func TestBlankNationalIDIsRejected(t *testing.T) {
	svc, _ := newHospitalService(t, &mockAppointmentRepo{}, &mockPatientRepo{})

	_, err := svc.FindLatestByNationalID(context.Background(), "  ")
	assert.ErrorIs(t, err, patient.ErrNationalIDRequired)

	_, err = svc.DeleteByNationalID(context.Background(), "", nil, "", "")
	assert.ErrorIs(t, err, patient.ErrNationalIDRequired)
}

func TestDeleteByNationalID_UnknownOwnerIsZeroNotError(t *testing.T) {
	patientRepo := &mockPatientRepo{
		GetByNationalIDFunc: func(_ context.Context, _ string) (*patient.Patient, error) {
			return nil, patient.ErrPatientNotFound
		},
	}
	svc, _ := newHospitalService(t, &mockAppointmentRepo{}, patientRepo)

	deleted, err := svc.DeleteByNationalID(context.Background(), "00000000", nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestDeleteByNationalID_StoreFailureDeletesNothing(t *testing.T) {
	owner := &patient.Patient{ID: uuid.New(), NationalID: "23454555"}
	storeErr := errors.New("connection refused")
	patientRepo := &mockPatientRepo{
		GetByNationalIDFunc: func(_ context.Context, _ string) (*patient.Patient, error) {
			return owner, nil
		},
	}
	apptRepo := &mockAppointmentRepo{
		DeleteByOwnerFunc: func(_ context.Context, _ uuid.UUID) (int64, error) {
			return 0, storeErr
		},
	}
	svc, _ := newHospitalService(t, apptRepo, patientRepo)

	deleted, err := svc.DeleteByNationalID(context.Background(), "23454555", nil, "", "")
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, int64(0), deleted)
}
