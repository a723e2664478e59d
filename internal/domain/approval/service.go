package approval

import (
	"context"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
)

// ApprovalService is the gate deciding whether an intern may use the clock.
type ApprovalService interface {
	// Approve moves a Pending user to Approved. Caller must be an admin.
	Approve(ctx context.Context, caller auth.Identity, userID string) (user.UserResponse, error)

	// Reject moves a Pending user to Rejected. Caller must be an admin.
	Reject(ctx context.Context, caller auth.Identity, userID string) (user.UserResponse, error)

	// Authorize loads userID fresh from storage and returns attendance.ErrNotApproved
	// unless the user may invoke clock transitions.
	Authorize(ctx context.Context, userID string) (user.User, error)

	PendingCount(ctx context.Context) (int64, error)
	ApprovedCount(ctx context.Context) (int64, error)
}
