package attendance

import (
	"time"
)

// Status is the stored state of a daily record.
type Status string

const (
	StatusClockedIn Status = "ClockedIn"
	StatusCompleted Status = "Completed"
)

// State is the state machine view of a user-day, including days with no record.
type State string

const (
	StateNotStarted State = "NotStarted"
	StateClockedIn  State = "ClockedIn"
	StateCompleted  State = "Completed"
)

// DailyRecord is the single ledger entry for a (user, date) key.
// Date is the organization calendar date at midnight UTC; instants are UTC.
type DailyRecord struct {
	ID             string
	UserID         string
	Date           time.Time
	ClockIn        time.Time
	ClockOut       *time.Time
	Status         Status
	TotalWorkHours float64
	SkewFlagged    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StateOf returns the state of a user-day given its record, or NotStarted for nil.
func StateOf(rec *DailyRecord) State {
	switch {
	case rec == nil:
		return StateNotStarted
	case rec.ClockOut != nil:
		return StateCompleted
	default:
		return StateClockedIn
	}
}

// WorkHours returns the fractional hours between in and out. A negative span
// is clamped to zero and reported as skewed.
func WorkHours(in, out time.Time) (hours float64, skewed bool) {
	d := out.Sub(in)
	if d < 0 {
		return 0, true
	}
	return d.Hours(), false
}

// Complete sets the clock-out of an open record. It fails with
// ErrAlreadyClockedOut when the record is already completed.
func (r *DailyRecord) Complete(out time.Time) error {
	if StateOf(r) != StateClockedIn {
		return ErrAlreadyClockedOut
	}
	out = out.UTC()
	hours, skewed := WorkHours(r.ClockIn, out)
	r.ClockOut = &out
	r.TotalWorkHours = hours
	r.SkewFlagged = skewed
	r.Status = StatusCompleted
	return nil
}
