package user

import (
	"context"
)

// UserFilter narrows List results. Zero values match everything.
type UserFilter struct {
	Role     Role
	Approval Approval
}

type UserRepository interface {
	// Create stores a new user. Returns ErrUserEmailExists on duplicate email.
	Create(ctx context.Context, newUser User) (User, error)

	// GetByID returns ErrUserNotFound when no user has the id.
	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail returns ErrUserNotFound when no user has the email.
	GetByEmail(ctx context.Context, email string) (User, error)

	// List returns users ordered by name, surname.
	List(ctx context.Context, filter UserFilter) ([]User, error)

	// CountByApproval counts users with the given role and approval state.
	CountByApproval(ctx context.Context, role Role, approval Approval) (int64, error)

	// TransitionApproval atomically moves a user from one approval state to another.
	// Returns ErrUserNotFound for an unknown id and ErrInvalidApprovalTransition when
	// the stored state is not from.
	TransitionApproval(ctx context.Context, id string, from, to Approval) (User, error)
}
