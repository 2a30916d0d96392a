package review

import (
	"time"

	"staybook/internal/domain"
	"staybook/internal/repository"
)

// Rating is range-checked by ValidateRating so that out-of-range values
// surface as INVALID_RATING rather than a generic binding error.
type CreateReviewRequest struct {
	ListingID int64  `json:"listing_id" binding:"required,gt=0"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type ReviewResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ListingID int64     `json:"listing_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ListingReviewsResponse struct {
	Reviews []ReviewResponse         `json:"reviews"`
	Summary repository.RatingSummary `json:"summary"`
}

func toReviewResponse(rv *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        rv.ID,
		UserID:    rv.UserID,
		ListingID: rv.ListingID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
	}
}
