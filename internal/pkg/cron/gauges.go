package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// GaugeJobs keeps the dashboard gauges in step with the ledger.
type GaugeJobs struct {
	approvalService approval.ApprovalService
	aggregator      attendance.AggregatorService
	metrics         *metrics.Metrics
	now             func() time.Time
}

func NewGaugeJobs(
	approvalService approval.ApprovalService,
	aggregator attendance.AggregatorService,
	m *metrics.Metrics,
	now func() time.Time,
) *GaugeJobs {
	return &GaugeJobs{
		approvalService: approvalService,
		aggregator:      aggregator,
		metrics:         m,
		now:             now,
	}
}

// refreshTimeout caps a single gauge refresh.
const refreshTimeout = 10 * time.Second

func (j *GaugeJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(Job{
		Name:     "refresh_dashboard_gauges",
		Interval: interval,
		Timeout:  min(interval, refreshTimeout),
		Run:      j.RefreshGauges,
	})
}

// RefreshGauges sets the active, pending and approved gauges.
func (j *GaugeJobs) RefreshGauges(ctx context.Context) error {
	var active, pending, approved int64

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := j.aggregator.ActiveToday(gCtx, j.now())
		active = n
		return err
	})
	g.Go(func() error {
		n, err := j.approvalService.PendingCount(gCtx)
		pending = n
		return err
	})
	g.Go(func() error {
		n, err := j.approvalService.ApprovedCount(gCtx)
		approved = n
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to refresh gauges: %w", err)
	}

	j.metrics.ActiveToday.Set(float64(active))
	j.metrics.PendingApprovals.Set(float64(pending))
	j.metrics.ApprovedInterns.Set(float64(approved))
	return nil
}
