package user

import "time"

// UserResponse represents user data in API responses
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Approval  string `json:"approval"`
	CreatedAt string `json:"created_at"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		Email:     u.Email,
		Role:      string(u.Role),
		Approval:  string(u.Approval),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
