package attendance

import (
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/dtrtime"
)

// DateRange is an inclusive range of date keys. Nil bounds are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// RecordResponse is a daily record with instants rendered in organization time.
type RecordResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	Date           string   `json:"date"`
	Weekday        string   `json:"weekday"`
	ClockIn        string   `json:"clock_in"`
	ClockOut       *string  `json:"clock_out,omitempty"`
	ClockInLocal   string   `json:"clock_in_local"`
	ClockOutLocal  *string  `json:"clock_out_local,omitempty"`
	Status         string   `json:"status"`
	TotalWorkHours *float64 `json:"total_work_hours,omitempty"`
	SkewFlagged    bool     `json:"skew_flagged,omitempty"`
}

type WeeklyEntry struct {
	Date  string  `json:"date"`
	Day   string  `json:"day"`
	Hours float64 `json:"hours"`
}

type WeeklySummaryResponse struct {
	WeekStart  string        `json:"week_start"`
	Days       []WeeklyEntry `json:"days"`
	TotalHours float64       `json:"total_hours"`
}

type ListRecordResponse struct {
	Records []RecordResponse `json:"records"`
	Total   int              `json:"total"`
}

// NewRecordResponse renders rec for clients. Instants are emitted both as
// RFC 3339 UTC and as organization wall-clock time.
func NewRecordResponse(rec DailyRecord, zone dtrtime.Zone) RecordResponse {
	resp := RecordResponse{
		ID:           rec.ID,
		UserID:       rec.UserID,
		Date:         dtrtime.FormatDate(rec.Date),
		Weekday:      rec.Date.Weekday().String(),
		ClockIn:      rec.ClockIn.UTC().Format(time.RFC3339),
		ClockInLocal: zone.FormatTime(rec.ClockIn),
		Status:       string(rec.Status),
		SkewFlagged:  rec.SkewFlagged,
	}
	if rec.ClockOut != nil {
		out := rec.ClockOut.UTC().Format(time.RFC3339)
		hours := rec.TotalWorkHours
		resp.ClockOut = &out
		resp.ClockOutLocal = zone.FormatTimePtr(rec.ClockOut)
		resp.TotalWorkHours = &hours
	}
	return resp
}
