package roster

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/dtrtime"
	"golang.org/x/sync/errgroup"
)

type RosterServiceImpl struct {
	user.UserRepository
	attendance.DailyRecordRepository
	approvalService approval.ApprovalService
	aggregator      attendance.AggregatorService
	zone            dtrtime.Zone
}

func NewRosterService(
	userRepo user.UserRepository,
	recordRepo attendance.DailyRecordRepository,
	approvalService approval.ApprovalService,
	aggregator attendance.AggregatorService,
	zone dtrtime.Zone,
) roster.RosterService {
	return &RosterServiceImpl{
		UserRepository:        userRepo,
		DailyRecordRepository: recordRepo,
		approvalService:       approvalService,
		aggregator:            aggregator,
		zone:                  zone,
	}
}

// List implements roster.RosterService.
func (s *RosterServiceImpl) List(ctx context.Context, caller auth.Identity, filter roster.Filter, asOf time.Time) (roster.ListResponse, error) {
	if !caller.IsAdmin() {
		return roster.ListResponse{}, user.ErrAdminPrivilegeRequired
	}

	users, err := s.UserRepository.List(ctx, user.UserFilter{Role: user.RoleIntern})
	if err != nil {
		return roster.ListResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]user.User, 0, len(users))
	ids := make([]string, 0, len(users))
	for _, u := range users {
		if u.Approval != user.ApprovalApproved && u.Approval != user.ApprovalPending {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.FullName()), search) &&
			!strings.Contains(strings.ToLower(u.ID), search) {
			continue
		}
		matched = append(matched, u)
		ids = append(ids, u.ID)
	}

	latest, err := s.DailyRecordRepository.LatestByUsers(ctx, ids)
	if err != nil {
		return roster.ListResponse{}, fmt.Errorf("failed to load latest records: %w", err)
	}

	today := s.zone.DateKey(asOf)
	resp := roster.ListResponse{
		Interns: []roster.Entry{},
		Pending: []roster.Entry{},
	}
	for _, u := range matched {
		entry := roster.Entry{
			UserID:   u.ID,
			Name:     u.Name,
			Surname:  u.Surname,
			Email:    u.Email,
			Approval: string(u.Approval),
			Status:   roster.StatusNoRecord,
		}
		if rec, ok := latest[u.ID]; ok {
			r := attendance.NewRecordResponse(rec, s.zone)
			entry.TimeIn = &r.ClockInLocal
			entry.TimeOut = r.ClockOutLocal
			entry.Status = r.Status
			entry.LatestDate = &r.Date
			entry.IsToday = rec.Date.Equal(today)
			entry.LatestRecord = &r
			if !entry.IsToday && rec.Status == attendance.StatusClockedIn {
				entry.Status = roster.StatusNotClockedOut
			}
		}

		if u.Approval == user.ApprovalApproved {
			resp.Interns = append(resp.Interns, entry)
		} else {
			resp.Pending = append(resp.Pending, entry)
		}
	}
	return resp, nil
}

// Summary implements roster.RosterService.
func (s *RosterServiceImpl) Summary(ctx context.Context, caller auth.Identity, asOf time.Time) (roster.SummaryResponse, error) {
	if !caller.IsAdmin() {
		return roster.SummaryResponse{}, user.ErrAdminPrivilegeRequired
	}

	resp := roster.SummaryResponse{Date: dtrtime.FormatDate(s.zone.DateKey(asOf))}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.approvalService.ApprovedCount(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count approved users: %w", err)
		}
		resp.ApprovedCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.approvalService.PendingCount(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count pending users: %w", err)
		}
		resp.PendingCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.aggregator.ActiveToday(gCtx, asOf)
		if err != nil {
			return err
		}
		resp.ActiveToday = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return roster.SummaryResponse{}, err
	}
	return resp, nil
}

// ActiveToday implements roster.RosterService.
func (s *RosterServiceImpl) ActiveToday(ctx context.Context, caller auth.Identity, asOf time.Time) (int64, error) {
	if !caller.IsAdmin() {
		return 0, user.ErrAdminPrivilegeRequired
	}
	return s.aggregator.ActiveToday(ctx, asOf)
}
