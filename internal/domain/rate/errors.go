package rate

import "errors"

var (
	ErrRateNotFound     = errors.New("commission rate not found")
	ErrRateInactive     = errors.New("commission rate is inactive")
	ErrInvalidIndustry  = errors.New("invalid industry")
	ErrInvalidMilestone = errors.New("milestone number must be 1 or 2")
)
