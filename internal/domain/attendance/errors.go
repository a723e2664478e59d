package attendance

import "errors"

// Attendance domain errors
var (
	ErrNotApproved       = errors.New("account is not approved to record attendance")
	ErrAlreadyClockedIn  = errors.New("you have already clocked in today")
	ErrAlreadyClockedOut = errors.New("you have already clocked out today")
	ErrNoRecordToday     = errors.New("no clock-in record found for today")
)
