package auth

import "github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"

// Identity is the verified caller of a request. It is supplied by the
// authentication layer and passed explicitly into every core operation.
type Identity struct {
	UserID string
	Role   user.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == user.RoleAdmin
}
