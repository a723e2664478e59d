package attendance

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/dtrtime"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/dtr-backend-go/internal/repository/memory"
	approvalService "github.com/cmlabs-hris/dtr-backend-go/internal/service/approval"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var zone = dtrtime.MustZone("+08:00")

type fixture struct {
	users      user.UserRepository
	records    attendance.DailyRecordRepository
	metrics    *metrics.Metrics
	svc        attendance.AttendanceService
	aggregator attendance.AggregatorService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:   memory.NewUserRepository(),
		records: memory.NewDailyRecordRepository(),
		metrics: metrics.New(),
	}
	f.svc = NewAttendanceService(f.records, approvalService.NewApprovalService(f.users), zone, f.metrics)
	f.aggregator = NewAggregatorService(f.records, zone)
	return f
}

func (f *fixture) addUser(t *testing.T, id string, role user.Role, approval user.Approval) auth.Identity {
	t.Helper()
	_, err := f.users.Create(context.Background(), user.User{
		ID:       id,
		Name:     "Ana",
		Surname:  "Reyes",
		Email:    id + "@example.com",
		Role:     role,
		Approval: approval,
	})
	require.NoError(t, err)
	return auth.Identity{UserID: id, Role: role}
}

func utc(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestClockInClockOut_ComputesHours(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intern := f.addUser(t, "intern-1", user.RoleIntern, user.ApprovalApproved)

	in, err := f.svc.ClockIn(ctx, intern, utc(1, 0))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", in.Date)
	assert.Equal(t, "Monday", in.Weekday)
	assert.Equal(t, "09:00:00 AM", in.ClockInLocal)
	assert.Equal(t, string(attendance.StatusClockedIn), in.Status)
	assert.Nil(t, in.ClockOut)

	out, err := f.svc.ClockOut(ctx, intern, utc(9, 30))
	require.NoError(t, err)
	require.NotNil(t, out.TotalWorkHours)
	assert.Equal(t, 8.5, *out.TotalWorkHours)
	assert.Equal(t, "05:30:00 PM", *out.ClockOutLocal)
	assert.Equal(t, string(attendance.StatusCompleted), out.Status)
	assert.False(t, out.SkewFlagged)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ClockTransitions.WithLabelValues(actionClockIn, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ClockTransitions.WithLabelValues(actionClockOut, "ok")))
}

func TestClockIn_NotApproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pending := f.addUser(t, "pending", user.RoleIntern, user.ApprovalPending)
	rejected := f.addUser(t, "rejected", user.RoleIntern, user.ApprovalRejected)

	_, err := f.svc.ClockIn(ctx, pending, utc(1, 0))
	assert.ErrorIs(t, err, attendance.ErrNotApproved)
	_, err = f.svc.ClockOut(ctx, rejected, utc(1, 0))
	assert.ErrorIs(t, err, attendance.ErrNotApproved)

	rec, err := f.records.GetByUserAndDate(ctx, "pending", zone.DateKey(utc(1, 0)))
	require.NoError(t, err)
	assert.Nil(t, rec, "gate must fail before touching the ledger")

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ClockTransitions.WithLabelValues(actionClockIn, "not_approved")))
}

func TestClockIn_ApprovalIsReadFresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intern := f.addUser(t, "intern-1", user.RoleIntern, user.ApprovalPending)

	_, err := f.svc.ClockIn(ctx, intern, utc(1, 0))
	require.ErrorIs(t, err, attendance.ErrNotApproved)

	_, err = f.users.TransitionApproval(ctx, "intern-1", user.ApprovalPending, user.ApprovalApproved)
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, intern, utc(1, 5))
	assert.NoError(t, err)
}

func TestClockIn_AdminBypassesGate(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "admin-1", user.RoleAdmin, user.ApprovalPending)

	_, err := f.svc.ClockIn(context.Background(), admin, utc(1, 0))
	assert.NoError(t, err)
}

func TestClockIn_SecondAttemptRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intern := f.addUser(t, "intern-1", user.RoleIntern, user.ApprovalApproved)

	first, err := f.svc.ClockIn(ctx, intern, utc(1, 0))
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, intern, utc(2, 0))
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	_, err = f.svc.ClockOut(ctx, intern, utc(9, 0))
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, intern, utc(10, 0))
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	today, err := f.svc.Today(ctx, intern, utc(10, 0))
	require.NoError(t, err)
	assert.Equal(t, first.ID, today.ID)
	assert.Equal(t, first.ClockIn, today.ClockIn)
}

func TestClockIn_ConcurrentAttemptsYieldOneRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intern := f.addUser(t, "intern-1", user.RoleIntern, user.ApprovalApproved)

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.ClockIn(ctx, intern, utc(1, 0))
			switch {
			case err == nil:
				successes.Add(1)
			case assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(49), conflicts.Load())
}

func TestClockOut_Refusals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intern := f.addUser(t, "intern-1", user.RoleIntern, user.ApprovalApproved)

	_, err := f.svc.ClockOut(ctx, intern, utc(9, 0))
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
	assert.ErrorIs(t, err, attendance.ErrNoRecordToday)

	_, err = f.svc.ClockIn(ctx, intern, utc(1, 0))
	require.NoError(t, err)
	first, err := f.svc.ClockOut(ctx, intern, utc(9, 0))
	require.NoError(t, err)

	_, err = f.svc.ClockOut(ctx, intern, utc(10, 0))
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
	assert.NotErrorIs(t, err, attendance.ErrNoRecordToday)

	today, err := f.svc.Today(ctx, intern, utc(10, 0))
	require.NoError(t, err)
	assert.Equal(t, first.ClockOut, today.ClockOut, "completed day is immutable")
}

func TestClockOut_SkewClampedAndFlagged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intern := f.addUser(t, "intern-1", user.RoleIntern, user.ApprovalApproved)

	_, err := f.svc.ClockIn(ctx, intern, utc(5, 0))
	require.NoError(t, err)

	out, err := f.svc.ClockOut(ctx, intern, utc(4, 0))
	require.NoError(t, err)
	require.NotNil(t, out.TotalWorkHours)
	assert.Equal(t, 0.0, *out.TotalWorkHours)
	assert.True(t, out.SkewFlagged)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SkewFlagged))
}

func TestClockIn_DateKeyFollowsOrganizationOffset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	intern := f.addUser(t, "intern-1", user.RoleIntern, user.ApprovalApproved)

	// 17:00Z on the 10th is 01:00 on the 11th at +08:00.
	resp, err := f.svc.ClockIn(ctx, intern, utc(17, 0))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", resp.Date)
	assert.Equal(t, "01:00:00 AM", resp.ClockInLocal)
}

func TestToday_NoRecord(t *testing.T) {
	f := newFixture(t)
	intern := f.addUser(t, "intern-1", user.RoleIntern, user.ApprovalApproved)

	_, err := f.svc.Today(context.Background(), intern, utc(1, 0))
	assert.ErrorIs(t, err, attendance.ErrNoRecordToday)
}

func seedDay(t *testing.T, f *fixture, userID, date string, hours float64, complete bool) {
	t.Helper()
	d, err := dtrtime.ParseDate(date)
	require.NoError(t, err)
	in := zone.FromLocal(d.Add(9 * time.Hour))
	_, err = f.records.Insert(context.Background(), attendance.DailyRecord{
		ID: userID + date, UserID: userID, Date: d, ClockIn: in, Status: attendance.StatusClockedIn,
	})
	require.NoError(t, err)
	if complete {
		_, err = f.records.Update(context.Background(), userID, d, func(rec *attendance.DailyRecord) error {
			return rec.Complete(in.Add(time.Duration(hours * float64(time.Hour))))
		})
		require.NoError(t, err)
	}
}

func TestHistory_OrderedAndRestartable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedDay(t, f, "u", "2025-03-12", 8, true)
	seedDay(t, f, "u", "2025-03-10", 7, true)
	seedDay(t, f, "u", "2025-03-11", 6, false)
	seedDay(t, f, "other", "2025-03-10", 4, true)

	from, _ := dtrtime.ParseDate("2025-03-10")
	to, _ := dtrtime.ParseDate("2025-03-11")
	seq := f.aggregator.History(ctx, "u", attendance.DateRange{From: &from, To: &to})

	for pass := 0; pass < 2; pass++ {
		var dates []string
		for rec, err := range seq {
			require.NoError(t, err)
			dates = append(dates, rec.Date)
		}
		assert.Equal(t, []string{"2025-03-10", "2025-03-11"}, dates)
	}

	var all []string
	for rec, err := range f.aggregator.History(ctx, "u", attendance.DateRange{}) {
		require.NoError(t, err)
		all = append(all, rec.Date)
		if len(all) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"2025-03-10", "2025-03-11"}, all)
}

func TestWeeklySummary_SevenEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedDay(t, f, "u", "2025-03-10", 8, true)
	seedDay(t, f, "u", "2025-03-12", 7.5, true)
	seedDay(t, f, "u", "2025-03-14", 3, false)
	seedDay(t, f, "u", "2025-03-17", 9, true) // next week

	wednesday, _ := dtrtime.ParseDate("2025-03-12")
	summary, err := f.aggregator.WeeklySummary(ctx, "u", wednesday)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", summary.WeekStart)
	require.Len(t, summary.Days, 7)
	assert.Equal(t, "Monday", summary.Days[0].Day)
	assert.Equal(t, "Sunday", summary.Days[6].Day)

	var sum float64
	for _, d := range summary.Days {
		sum += d.Hours
	}
	assert.InDelta(t, 15.5, summary.TotalHours, 1e-9)
	assert.InDelta(t, summary.TotalHours, sum, 1e-9)
	assert.Equal(t, 0.0, summary.Days[1].Hours)
	assert.Equal(t, 0.0, summary.Days[4].Hours, "open record contributes no hours")

	empty, err := f.aggregator.WeeklySummary(ctx, "nobody", wednesday)
	require.NoError(t, err)
	assert.Len(t, empty.Days, 7)
	assert.Zero(t, empty.TotalHours)
}

func TestActiveToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addUser(t, "a", user.RoleIntern, user.ApprovalApproved)
	b := f.addUser(t, "b", user.RoleIntern, user.ApprovalApproved)
	c := f.addUser(t, "c", user.RoleIntern, user.ApprovalApproved)

	for _, id := range []auth.Identity{a, b, c} {
		_, err := f.svc.ClockIn(ctx, id, utc(1, 0))
		require.NoError(t, err)
	}
	_, err := f.svc.ClockOut(ctx, c, utc(9, 0))
	require.NoError(t, err)

	n, err := f.aggregator.ActiveToday(ctx, utc(10, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// 16:00Z is already the next organization day.
	n, err = f.aggregator.ActiveToday(ctx, utc(16, 0))
	require.NoError(t, err)
	assert.Zero(t, n)
}
