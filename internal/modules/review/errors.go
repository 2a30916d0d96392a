package review

import "errors"

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrDuplicateReview = errors.New("user has already reviewed this listing")
	ErrListingNotFound = errors.New("listing not found")
)

const (
	MinRating = 1
	MaxRating = 5
)

// ValidateRating accepts integers in [MinRating, MaxRating].
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
