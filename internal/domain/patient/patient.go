package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patient is the identity record this service reconciles against. The
// national ID is the business key supplied by callers; the uuid is the
// surrogate key and the only value identity comparisons may use. Two
// patients never share a national ID; the store enforces it with a
// unique index.
type Patient struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	Name       string `gorm:"column:name;type:varchar(200);not null" json:"name"`
	NationalID string `gorm:"column:national_id;type:varchar(50);uniqueIndex;not null" json:"ssn"`

	// Audit: which service account registered this patient. Nil when the
	// record was created implicitly during a bulk appointment request.
	CreatedBy *uuid.UUID `gorm:"column:created_by;type:uuid" json:"-"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

type CreatePatientCommand struct {
	Name       string
	NationalID string
	CreatedBy  *uuid.UUID
}

// Validate returns the list of missing required fields. Both the display
// name and the national ID must be non-empty after trimming.
func (cmd *CreatePatientCommand) Validate() []string {
	var errs []string
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "patient_name is required")
	}
	if strings.TrimSpace(cmd.NationalID) == "" {
		errs = append(errs, "ssn is required")
	}
	return errs
}

// ListPatientsQuery defines filtering and pagination for patient list queries.
type ListPatientsQuery struct {
	Search    string // substring match on name
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string // "asc" | "desc"
}

type PagedPatients struct {
	Patients   []*Patient `json:"patients"`
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
