package appointment

import "errors"

var (
	ErrNotFound         = errors.New("appointment not found")
	ErrSlotNotAvailable = errors.New("time slot is not available for booking")
	ErrPatientRequired  = errors.New("patient is required")
)
