package roster

import (
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
)

const (
	// StatusNoRecord marks a user who has never clocked in.
	StatusNoRecord = "No Record"
	// StatusNotClockedOut marks a latest record from a past day that was never closed.
	StatusNotClockedOut = "Not Clocked Out"
)

type Filter struct {
	Search string `json:"search"`
}

// Entry is one roster row: identity, approval and the latest ledger record.
type Entry struct {
	UserID       string                     `json:"user_id"`
	Name         string                     `json:"name"`
	Surname      string                     `json:"surname"`
	Email        string                     `json:"email"`
	Approval     string                     `json:"approval"`
	TimeIn       *string                    `json:"time_in"`
	TimeOut      *string                    `json:"time_out"`
	Status       string                     `json:"status"`
	LatestDate   *string                    `json:"latest_date"`
	IsToday      bool                       `json:"is_today"`
	LatestRecord *attendance.RecordResponse `json:"latest_record,omitempty"`
}

type ListResponse struct {
	Interns []Entry `json:"interns"`
	Pending []Entry `json:"pending"`
}

type SummaryResponse struct {
	ApprovedCount int64  `json:"approved_count"`
	PendingCount  int64  `json:"pending_count"`
	ActiveToday   int64  `json:"active_today"`
	Date          string `json:"date"`
}
