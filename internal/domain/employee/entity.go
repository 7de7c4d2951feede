package employee

import (
	"time"
)

// Employee - the reporting-hierarchy record behind a user. ManagerUserID
// links one hop up the chain; nil means top of hierarchy.
type Employee struct {
	ID            int64
	UserID        int64
	FullName      string
	ManagerUserID *int64
	RoleID        *int64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
