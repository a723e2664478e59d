package attendance

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/dtrtime"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/ids"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/metrics"
)

const (
	actionClockIn  = "clock_in"
	actionClockOut = "clock_out"
)

type AttendanceServiceImpl struct {
	attendance.DailyRecordRepository
	approvalService approval.ApprovalService
	zone            dtrtime.Zone
	metrics         *metrics.Metrics
}

func NewAttendanceService(
	recordRepo attendance.DailyRecordRepository,
	approvalService approval.ApprovalService,
	zone dtrtime.Zone,
	m *metrics.Metrics,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		DailyRecordRepository: recordRepo,
		approvalService:       approvalService,
		zone:                  zone,
		metrics:               m,
	}
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, caller auth.Identity, at time.Time) (resp attendance.RecordResponse, err error) {
	defer func() { a.metrics.ObserveClock(actionClockIn, outcome(err)) }()

	if _, err := a.approvalService.Authorize(ctx, caller.UserID); err != nil {
		return attendance.RecordResponse{}, err
	}

	at = at.UTC()
	rec := attendance.DailyRecord{
		ID:      ids.NewRecordID(at),
		UserID:  caller.UserID,
		Date:    a.zone.DateKey(at),
		ClockIn: at,
		Status:  attendance.StatusClockedIn,
	}

	created, err := a.DailyRecordRepository.Insert(ctx, rec)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyClockedIn) {
			return attendance.RecordResponse{}, err
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to clock in: %w", err)
	}

	slog.Info("Clocked in", "user_id", caller.UserID, "date", dtrtime.FormatDate(created.Date))
	return attendance.NewRecordResponse(created, a.zone), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, caller auth.Identity, at time.Time) (resp attendance.RecordResponse, err error) {
	defer func() { a.metrics.ObserveClock(actionClockOut, outcome(err)) }()

	if _, err := a.approvalService.Authorize(ctx, caller.UserID); err != nil {
		return attendance.RecordResponse{}, err
	}

	at = at.UTC()
	date := a.zone.DateKey(at)

	updated, err := a.DailyRecordRepository.Update(ctx, caller.UserID, date, func(rec *attendance.DailyRecord) error {
		return rec.Complete(at)
	})
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrNoRecordToday):
			// A missing record is also a refused clock-out.
			return attendance.RecordResponse{}, fmt.Errorf("%w: %w", attendance.ErrAlreadyClockedOut, attendance.ErrNoRecordToday)
		case errors.Is(err, attendance.ErrAlreadyClockedOut):
			return attendance.RecordResponse{}, err
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to clock out: %w", err)
	}

	if updated.SkewFlagged {
		a.metrics.ObserveSkew()
		slog.Warn("Clock-out precedes clock-in, hours clamped to zero",
			"user_id", caller.UserID,
			"record_id", updated.ID,
			"date", dtrtime.FormatDate(updated.Date),
			"clock_in", updated.ClockIn,
			"clock_out", at,
		)
	}

	slog.Info("Clocked out", "user_id", caller.UserID, "date", dtrtime.FormatDate(updated.Date), "hours", updated.TotalWorkHours)
	return attendance.NewRecordResponse(updated, a.zone), nil
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context, caller auth.Identity, at time.Time) (attendance.RecordResponse, error) {
	rec, err := a.DailyRecordRepository.GetByUserAndDate(ctx, caller.UserID, a.zone.DateKey(at))
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get today's record: %w", err)
	}
	if rec == nil {
		return attendance.RecordResponse{}, attendance.ErrNoRecordToday
	}
	return attendance.NewRecordResponse(*rec, a.zone), nil
}

// outcome maps a clock transition result to its metrics label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, attendance.ErrNotApproved):
		return "not_approved"
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		return "already_clocked_in"
	case errors.Is(err, attendance.ErrNoRecordToday):
		return "no_record"
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		return "already_clocked_out"
	case errors.Is(err, user.ErrUserNotFound):
		return "unknown_user"
	default:
		return "error"
	}
}

type AggregatorServiceImpl struct {
	attendance.DailyRecordRepository
	zone dtrtime.Zone
}

func NewAggregatorService(recordRepo attendance.DailyRecordRepository, zone dtrtime.Zone) attendance.AggregatorService {
	return &AggregatorServiceImpl{
		DailyRecordRepository: recordRepo,
		zone:                  zone,
	}
}

var (
	minDate = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

// History implements attendance.AggregatorService.
func (s *AggregatorServiceImpl) History(ctx context.Context, userID string, rng attendance.DateRange) iter.Seq2[attendance.RecordResponse, error] {
	from, to := minDate, maxDate
	if rng.From != nil {
		from = *rng.From
	}
	if rng.To != nil {
		to = *rng.To
	}

	return func(yield func(attendance.RecordResponse, error) bool) {
		if from.After(to) {
			return
		}
		records, err := s.DailyRecordRepository.ListByUser(ctx, userID, from, to)
		if err != nil {
			yield(attendance.RecordResponse{}, fmt.Errorf("failed to list records: %w", err))
			return
		}
		for _, rec := range records {
			if !yield(attendance.NewRecordResponse(rec, s.zone), nil) {
				return
			}
		}
	}
}

// WeeklySummary implements attendance.AggregatorService.
func (s *AggregatorServiceImpl) WeeklySummary(ctx context.Context, userID string, weekOf time.Time) (attendance.WeeklySummaryResponse, error) {
	start := dtrtime.WeekStart(weekOf)
	end := start.AddDate(0, 0, 6)

	hoursByDate := make(map[string]float64, 7)
	for rec, err := range s.History(ctx, userID, attendance.DateRange{From: &start, To: &end}) {
		if err != nil {
			return attendance.WeeklySummaryResponse{}, err
		}
		if rec.TotalWorkHours != nil {
			hoursByDate[rec.Date] += *rec.TotalWorkHours
		}
	}

	resp := attendance.WeeklySummaryResponse{
		WeekStart: dtrtime.FormatDate(start),
		Days:      make([]attendance.WeeklyEntry, 0, 7),
	}
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		key := dtrtime.FormatDate(date)
		hours := hoursByDate[key]
		resp.Days = append(resp.Days, attendance.WeeklyEntry{
			Date:  key,
			Day:   date.Weekday().String(),
			Hours: hours,
		})
		resp.TotalHours += hours
	}
	return resp, nil
}

// ActiveToday implements attendance.AggregatorService.
func (s *AggregatorServiceImpl) ActiveToday(ctx context.Context, asOf time.Time) (int64, error) {
	n, err := s.DailyRecordRepository.CountByDateAndStatus(ctx, s.zone.DateKey(asOf), attendance.StatusClockedIn)
	if err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return n, nil
}
