package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/dtrtime"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/dtr-backend-go/internal/repository/memory"
	approvalService "github.com/cmlabs-hris/dtr-backend-go/internal/service/approval"
	attendanceService "github.com/cmlabs-hris/dtr-backend-go/internal/service/attendance"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshGauges(t *testing.T) {
	ctx := context.Background()
	zone := dtrtime.MustZone("+08:00")
	now := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)

	users := memory.NewUserRepository()
	records := memory.NewDailyRecordRepository()
	for id, approval := range map[string]user.Approval{
		"a": user.ApprovalApproved,
		"b": user.ApprovalApproved,
		"c": user.ApprovalPending,
	} {
		_, err := users.Create(ctx, user.User{
			ID: id, Name: id, Surname: id, Email: id + "@example.com", Role: user.RoleIntern, Approval: approval,
		})
		require.NoError(t, err)
	}
	_, err := records.Insert(ctx, attendance.DailyRecord{
		ID: "r1", UserID: "a", Date: zone.DateKey(now), ClockIn: now, Status: attendance.StatusClockedIn,
	})
	require.NoError(t, err)

	m := metrics.New()
	jobs := NewGaugeJobs(
		approvalService.NewApprovalService(users),
		attendanceService.NewAggregatorService(records, zone),
		m,
		func() time.Time { return now },
	)

	scheduler := NewScheduler(ctx)
	jobs.RegisterJobs(scheduler, time.Minute)
	require.NoError(t, scheduler.RunOnce(ctx))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveToday))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PendingApprovals))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ApprovedInterns))
}

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	var runs atomic.Int32
	scheduler := NewScheduler(context.Background())
	scheduler.AddJob(Job{Name: "count", Interval: time.Hour, Run: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}})

	scheduler.Start()
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)
	scheduler.Stop()
	scheduler.Stop()
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_RunOnceJoinsFailuresAndBoundsRun(t *testing.T) {
	errBoom := errors.New("boom")
	scheduler := NewScheduler(context.Background())
	scheduler.AddJob(Job{Name: "fails", Interval: time.Hour, Run: func(ctx context.Context) error {
		return errBoom
	}})
	scheduler.AddJob(Job{Name: "slow", Interval: time.Hour, Timeout: 20 * time.Millisecond, Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})
	scheduler.AddJob(Job{Name: "ok", Interval: time.Hour, Run: func(ctx context.Context) error {
		return nil
	}})

	err := scheduler.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "fails: boom")
	assert.NotContains(t, err.Error(), "ok:")
}
