package user

import "errors"

var (
	ErrUserNotFound              = errors.New("user not found")
	ErrUserEmailExists           = errors.New("email already registered")
	ErrAdminPrivilegeRequired    = errors.New("admin privilege required")
	ErrInvalidApprovalTransition = errors.New("approval can only change from Pending")
)
