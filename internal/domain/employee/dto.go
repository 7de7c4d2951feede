package employee

type TeamMemberResponse struct {
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
	RoleID   *int64 `json:"role_id,omitempty"`
	IsActive bool   `json:"is_active"`
}

type TeamResponse struct {
	ManagerUserID int64                `json:"manager_user_id"`
	Members       []TeamMemberResponse `json:"members"`
}
