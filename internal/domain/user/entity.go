package user

import "time"

// AuthorityLevel gates operations 1 (lowest) through 5 (highest).
type AuthorityLevel int

const (
	AuthorityRep      AuthorityLevel = 1
	AuthorityLead     AuthorityLevel = 2
	AuthorityManager  AuthorityLevel = 3
	AuthorityDirector AuthorityLevel = 4
	AuthorityAdmin    AuthorityLevel = 5
)

type User struct {
	ID             int64
	Username       string
	Email          *string
	PasswordHash   string
	AuthorityLevel AuthorityLevel
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanReadRates - level 3 and up may read the rate catalog.
func (u *User) CanReadRates() bool {
	return u.AuthorityLevel >= AuthorityManager
}

// CanMutateRates - level 4 and up may create, update, and deactivate rates
// and approve allocations.
func (u *User) CanMutateRates() bool {
	return u.AuthorityLevel >= AuthorityDirector
}

// CanManageBatches - level 5 may approve, export, and pay payroll batches.
func (u *User) CanManageBatches() bool {
	return u.AuthorityLevel >= AuthorityAdmin
}

// ScopedReads - below level 4, reads are restricted to the user's own
// hierarchy.
func (u *User) ScopedReads() bool {
	return u.AuthorityLevel < AuthorityDirector
}
