package user

import "errors"

var (
	ErrUserNotFound              = errors.New("user not found")
	ErrUserInactive              = errors.New("user account is inactive")
	ErrInsufficientAuthority     = errors.New("insufficient authority level")
	ErrRateReadAccessRequired    = errors.New("rate read access requires authority level 3")
	ErrRateWriteAccessRequired   = errors.New("rate write access requires authority level 4")
	ErrBatchManageAccessRequired = errors.New("batch management requires authority level 5")
)
