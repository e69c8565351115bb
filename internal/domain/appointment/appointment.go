package appointment

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the canonical calendar-date form used for storage and
// comparison. Lexicographic order on this form equals calendar order,
// which is what the latest-appointment selection relies on.
const DateLayout = "2006-01-02"

// CanonicalDate parses a caller-supplied date string and returns it in
// canonical YYYY-MM-DD form. Returns ErrInvalidDate when the input does
// not parse.
func CanonicalDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format(DateLayout), nil
}

// Appointment is owned by exactly one patient; the ownership edge lives
// here, not on the patient. The uuid surrogate is the only identity.
// Equality is never derived from the reason text, since distinct
// appointments routinely share one.
type Appointment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	Reason string `gorm:"column:reason;type:text;not null" json:"reason"`
	Date   string `gorm:"column:date;type:varchar(10);not null;index" json:"date"`

	// Owner. Immutable after creation.
	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

// CreateBulkCommand carries the two parallel lists of a bulk request.
// Reasons and dates are paired by index; when the lists differ in length
// the excess of the longer one is dropped.
type CreateBulkCommand struct {
	PatientName string
	NationalID  string
	Reasons     []string
	Dates       []string
}

// Validate returns the list of precondition failures. An empty reasons or
// dates list is an incomplete request, not a zero-appointment request.
func (cmd *CreateBulkCommand) Validate() []string {
	var errs []string
	if len(cmd.Reasons) == 0 {
		errs = append(errs, "reasons must not be empty")
	}
	if len(cmd.Dates) == 0 {
		errs = append(errs, "dates must not be empty")
	}
	return errs
}
