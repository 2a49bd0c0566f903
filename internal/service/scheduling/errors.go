package scheduling

import "errors"

var (
	ErrInvalidDate    = errors.New("date is required")
	ErrStartNotOnGrid = errors.New("start time is not a bookable slot")
	ErrNoSession      = errors.New("view state requires a session")
)
