package tax

import "errors"

var (
	// ErrInvalidRate is returned for rates outside 0..10000 basis points.
	ErrInvalidRate = errors.New("tax: rate must be between 0 and 10000 basis points")

	// ErrNegativeAmount is returned when the taxable base is negative.
	ErrNegativeAmount = errors.New("tax: amounts must not be negative")
)
