package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
)

type ApprovalServiceImpl struct {
	user.UserRepository
}

func NewApprovalService(userRepo user.UserRepository) approval.ApprovalService {
	return &ApprovalServiceImpl{UserRepository: userRepo}
}

// Approve implements approval.ApprovalService.
func (s *ApprovalServiceImpl) Approve(ctx context.Context, caller auth.Identity, userID string) (user.UserResponse, error) {
	return s.transition(ctx, caller, userID, user.ApprovalApproved)
}

// Reject implements approval.ApprovalService.
func (s *ApprovalServiceImpl) Reject(ctx context.Context, caller auth.Identity, userID string) (user.UserResponse, error) {
	return s.transition(ctx, caller, userID, user.ApprovalRejected)
}

func (s *ApprovalServiceImpl) transition(ctx context.Context, caller auth.Identity, userID string, to user.Approval) (user.UserResponse, error) {
	if !caller.IsAdmin() {
		return user.UserResponse{}, user.ErrAdminPrivilegeRequired
	}

	updated, err := s.UserRepository.TransitionApproval(ctx, userID, user.ApprovalPending, to)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, user.ErrInvalidApprovalTransition) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to update approval: %w", err)
	}

	slog.Info("Approval updated", "user_id", userID, "approval", to, "admin_id", caller.UserID)
	return user.ToResponse(updated), nil
}

// Authorize implements approval.ApprovalService.
func (s *ApprovalServiceImpl) Authorize(ctx context.Context, userID string) (user.User, error) {
	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	if !u.CanClock() {
		return user.User{}, attendance.ErrNotApproved
	}
	return u, nil
}

// PendingCount implements approval.ApprovalService.
func (s *ApprovalServiceImpl) PendingCount(ctx context.Context) (int64, error) {
	return s.UserRepository.CountByApproval(ctx, user.RoleIntern, user.ApprovalPending)
}

// ApprovedCount implements approval.ApprovalService.
func (s *ApprovalServiceImpl) ApprovedCount(ctx context.Context) (int64, error) {
	return s.UserRepository.CountByApproval(ctx, user.RoleIntern, user.ApprovalApproved)
}
