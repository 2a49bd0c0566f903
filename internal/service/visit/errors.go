package visit

import "errors"

var (
	ErrNotFound     = errors.New("appointment not found")
	ErrNotScheduled = errors.New("intake is only possible before check-in")
)
