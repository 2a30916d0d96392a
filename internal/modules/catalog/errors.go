package catalog

import "errors"

var (
	ErrNotFound            = errors.New("listing not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidAvailability = errors.New("available_from must not be after available_to")
	ErrInvalidPrice        = errors.New("price_per_night must be between 0 and 99999999.99")
)
