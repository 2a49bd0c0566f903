package patient

import "errors"

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrEmptySearch     = errors.New("search text is empty")
)
