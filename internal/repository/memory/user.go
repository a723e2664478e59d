package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/dtr-backend-go/internal/domain/user"
)

type userRepository struct {
	mu      sync.RWMutex
	byID    map[string]user.User
	byEmail map[string]string
}

func NewUserRepository() user.UserRepository {
	return &userRepository{
		byID:    make(map[string]user.User),
		byEmail: make(map[string]string),
	}
}

// Create implements user.UserRepository.
func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(newUser.Email)
	if _, exists := r.byEmail[email]; exists {
		return user.User{}, user.ErrUserEmailExists
	}

	now := time.Now().UTC()
	newUser.CreatedAt = now
	newUser.UpdatedAt = now
	r.byID[newUser.ID] = newUser
	r.byEmail[email] = newUser.ID
	return newUser, nil
}

// GetByID implements user.UserRepository.
func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return r.byID[id], nil
}

// List implements user.UserRepository.
func (r *userRepository) List(ctx context.Context, filter user.UserFilter) ([]user.User, error) {
	r.mu.RLock()
	users := make([]user.User, 0, len(r.byID))
	for _, u := range r.byID {
		if matches(u, filter) {
			users = append(users, u)
		}
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		if users[i].Surname != users[j].Surname {
			return users[i].Surname < users[j].Surname
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// CountByApproval implements user.UserRepository.
func (r *userRepository) CountByApproval(ctx context.Context, role user.Role, approval user.Approval) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, u := range r.byID {
		if u.Role == role && u.Approval == approval {
			n++
		}
	}
	return n, nil
}

// TransitionApproval implements user.UserRepository.
func (r *userRepository) TransitionApproval(ctx context.Context, id string, from, to user.Approval) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	if u.Approval != from {
		return user.User{}, user.ErrInvalidApprovalTransition
	}
	u.Approval = to
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u
	return u, nil
}

func matches(u user.User, filter user.UserFilter) bool {
	if filter.Role != "" && u.Role != filter.Role {
		return false
	}
	if filter.Approval != "" && u.Approval != filter.Approval {
		return false
	}
	return true
}
