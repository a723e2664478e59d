package auth

import (
	"context"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
)

type AuthService interface {
	// Register creates an Intern account in the Pending approval state.
	Register(ctx context.Context, req RegisterRequest) (user.UserResponse, error)

	// Login verifies credentials and issues an access token.
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)

	// Me returns the caller's profile.
	Me(ctx context.Context, caller Identity) (user.UserResponse, error)
}
