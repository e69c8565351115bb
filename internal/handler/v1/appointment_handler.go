package v1

import (
	"net/http"

	"github.com/caredesk/hospital-api/internal/domain/appointment"
	"github.com/caredesk/hospital-api/internal/service"
	"github.com/caredesk/hospital-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	hospital *service.HospitalService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewAppointmentHandler(hospital *service.HospitalService, m *metrics.Collector, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{hospital: hospital, metrics: m, log: log}
}

// bulkAppointmentsRequest carries two parallel lists paired by index.
// Example:
//
//	{
//	  "patientName": "John Doe",
//	  "ssn": "23454555",
//	  "reasons": ["Checkup", "Follow-up", "X-Ray"],
//	  "dates": ["2025-02-01", "2025-02-15", "2025-03-01"]
//	}
type bulkAppointmentsRequest struct {
	PatientName string   `json:"patientName"`
	SSN         string   `json:"ssn"`
	Reasons     []string `json:"reasons"`
	Dates       []string `json:"dates"`
}

// CreateBulk handles POST /appointments/bulk.
func (h *AppointmentHandler) CreateBulk(c *gin.Context) {
	var req bulkAppointmentsRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &appointment.CreateBulkCommand{
		PatientName: req.PatientName,
		NationalID:  req.SSN,
		Reasons:     req.Reasons,
		Dates:       req.Dates,
	}

	created, err := h.hospital.CreateBulkAppointments(c.Request.Context(), cmd, callerID(c), callerRole(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.metrics.AppointmentsCreatedTotal.Add(float64(len(created)))
	respondCreated(c, created)
}

// GetByReason handles GET /appointments/by-reason?keyword=.
// The match is case-insensitive whole-string equality; "Checkup" matches
// "checkup" but not "Annual Checkup".
func (h *AppointmentHandler) GetByReason(c *gin.Context) {
	matched, err := h.hospital.GetAppointmentsByReason(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if matched == nil {
		matched = []*appointment.Appointment{}
	}
	respondOK(c, matched)
}

// GetLatest handles GET /appointments/latest?ssn=. An unknown national ID
// or a patient without appointments is absence, which the adapter maps to
// 404; the service reports no error for it.
func (h *AppointmentHandler) GetLatest(c *gin.Context) {
	ssn := c.Query("ssn")
	if ssn == "" {
		respondError(c, http.StatusBadRequest, "ssn query parameter is required")
		return
	}

	latest, err := h.hospital.FindLatestByNationalID(c.Request.Context(), ssn)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if latest == nil {
		respondError(c, http.StatusNotFound, "no appointment found for this ssn")
		return
	}

	respondOK(c, latest)
}

type deleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// DeleteByOwner handles DELETE /appointments?ssn=. Deleting for an unknown
// national ID succeeds with a count of zero.
func (h *AppointmentHandler) DeleteByOwner(c *gin.Context) {
	ssn := c.Query("ssn")
	if ssn == "" {
		respondError(c, http.StatusBadRequest, "ssn query parameter is required")
		return
	}

	deleted, err := h.hospital.DeleteByNationalID(c.Request.Context(), ssn, callerID(c), callerRole(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.metrics.AppointmentsDeletedTotal.Add(float64(deleted))
	respondOK(c, deleteResponse{Deleted: deleted})
}
