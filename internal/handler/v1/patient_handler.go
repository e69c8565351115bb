package v1

import (
	"github.com/caredesk/hospital-api/internal/domain/patient"
	"github.com/caredesk/hospital-api/internal/service"
	"github.com/caredesk/hospital-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PatientHandler struct {
	patients *service.PatientService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewPatientHandler(patients *service.PatientService, m *metrics.Collector, log *zap.Logger) *PatientHandler {
	return &PatientHandler{patients: patients, metrics: m, log: log}
}

type registerPatientRequest struct {
	Name string `json:"name"`
	SSN  string `json:"ssn"`
}

// Register handles POST /patients. Unlike the implicit creation during a
// bulk appointment request, a duplicate national ID here is a conflict.
func (h *PatientHandler) Register(c *gin.Context) {
	var req registerPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &patient.CreatePatientCommand{
		Name:       req.Name,
		NationalID: req.SSN,
		CreatedBy:  callerID(c),
	}

	p, err := h.patients.RegisterPatient(c.Request.Context(), cmd, callerRole(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.metrics.PatientsCreatedTotal.Inc()
	respondCreated(c, p)
}

// Get handles GET /patients/:id.
func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.patients.GetPatient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, p)
}

// List handles GET /patients.
func (h *PatientHandler) List(c *gin.Context) {
	q := &patient.ListPatientsQuery{
		Search:    c.Query("search"),
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "page_size", 20),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	paged, err := h.patients.ListPatients(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, paged)
}
