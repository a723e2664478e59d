package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleIntern Role = "Intern" // Clocks in and out, gated by approval
	RoleAdmin  Role = "Admin"  // Approves interns, never gated
)

func (r Role) IsValid() bool {
	return r == RoleIntern || r == RoleAdmin
}

type Approval string

const (
	ApprovalPending  Approval = "Pending"
	ApprovalApproved Approval = "Approved"
	ApprovalRejected Approval = "Rejected"
)

type User struct {
	ID           string
	Name         string
	Surname      string
	Email        string
	PasswordHash string
	Role         Role
	Approval     Approval
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}

// IsAdmin checks if user acts outside the approval gate
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanClock reports whether the user may invoke clock transitions.
func (u *User) CanClock() bool {
	return u.IsAdmin() || u.Approval == ApprovalApproved
}
