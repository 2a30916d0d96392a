package booking

import "errors"

var (
	ErrInvalidDateRange  = errors.New("check-out date must be after check-in date")
	ErrInvalidGuestCount = errors.New("number of guests must be between 1 and 100")
	ErrPriceOutOfRange   = errors.New("total price is too large to be booked")
	ErrListingNotFound   = errors.New("listing not found")
	ErrNotFound          = errors.New("booking not found")
	ErrForbidden         = errors.New("forbidden")
	ErrAlreadyPaid       = errors.New("booking already paid")
)
