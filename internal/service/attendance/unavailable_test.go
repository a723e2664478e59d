package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/dtr-backend-go/internal/repository/memory"
	approvalService "github.com/cmlabs-hris/dtr-backend-go/internal/service/approval"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errConnRefused = errors.New("connection refused")

// downRecordRepository fails every call the way the postgres ledger does when
// the pool cannot reach the server.
type downRecordRepository struct{}

func (downRecordRepository) Insert(context.Context, attendance.DailyRecord) (attendance.DailyRecord, error) {
	return attendance.DailyRecord{}, database.Unavailable("insert daily record", errConnRefused)
}

func (downRecordRepository) Update(context.Context, string, time.Time, func(*attendance.DailyRecord) error) (attendance.DailyRecord, error) {
	return attendance.DailyRecord{}, database.Unavailable("begin transaction", errConnRefused)
}

func (downRecordRepository) GetByUserAndDate(context.Context, string, time.Time) (*attendance.DailyRecord, error) {
	return nil, database.Unavailable("get daily record", errConnRefused)
}

func (downRecordRepository) ListByUser(context.Context, string, time.Time, time.Time) ([]attendance.DailyRecord, error) {
	return nil, database.Unavailable("list daily records", errConnRefused)
}

func (downRecordRepository) LatestByUsers(context.Context, []string) (map[string]attendance.DailyRecord, error) {
	return nil, database.Unavailable("latest daily records", errConnRefused)
}

func (downRecordRepository) CountByDateAndStatus(context.Context, time.Time, attendance.Status) (int64, error) {
	return 0, database.Unavailable("count daily records", errConnRefused)
}

func TestStorageUnavailable_ReachesCaller(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	m := metrics.New()
	svc := NewAttendanceService(downRecordRepository{}, approvalService.NewApprovalService(users), zone, m)
	aggregator := NewAggregatorService(downRecordRepository{}, zone)

	_, err := users.Create(ctx, user.User{
		ID: "intern-1", Name: "Ana", Surname: "Reyes", Email: "intern-1@example.com",
		Role: user.RoleIntern, Approval: user.ApprovalApproved,
	})
	require.NoError(t, err)
	intern := auth.Identity{UserID: "intern-1", Role: user.RoleIntern}

	_, err = svc.ClockIn(ctx, intern, utc(1, 0))
	assert.ErrorIs(t, err, database.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	_, err = svc.ClockOut(ctx, intern, utc(9, 0))
	assert.ErrorIs(t, err, database.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, attendance.ErrNoRecordToday)

	_, err = svc.Today(ctx, intern, utc(2, 0))
	assert.ErrorIs(t, err, database.ErrStorageUnavailable)

	var yielded int
	for _, err := range aggregator.History(ctx, intern.UserID, attendance.DateRange{}) {
		yielded++
		assert.ErrorIs(t, err, database.ErrStorageUnavailable)
	}
	assert.Equal(t, 1, yielded)

	_, err = aggregator.WeeklySummary(ctx, intern.UserID, utc(0, 0))
	assert.ErrorIs(t, err, database.ErrStorageUnavailable)

	_, err = aggregator.ActiveToday(ctx, utc(0, 0))
	assert.ErrorIs(t, err, database.ErrStorageUnavailable)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClockTransitions.WithLabelValues("clock_in", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClockTransitions.WithLabelValues("clock_out", "error")))
}
