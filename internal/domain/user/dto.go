package user

// UserResponse represents user data in API responses
type UserResponse struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          *string `json:"email,omitempty"`
	AuthorityLevel int     `json:"authority_level"`
	IsActive       bool    `json:"is_active"`
}
