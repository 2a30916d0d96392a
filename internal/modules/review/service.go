package review

import (
	"context"
	"errors"

	"staybook/internal/domain"
	"staybook/internal/repository"
)

type Service struct {
	reviews  ReviewRepository
	listings ListingGate
}

func NewService(reviews ReviewRepository, listings ListingGate) *Service {
	return &Service{reviews: reviews, listings: listings}
}

// Create stores one review per (user, listing). The existence check gives
// the common case a clean error; the unique index catches concurrent inserts.
func (s *Service) Create(ctx context.Context, userID int64, req CreateReviewRequest) (*ReviewResponse, error) {
	if err := ValidateRating(req.Rating); err != nil {
		return nil, err
	}

	if err := s.ensureListing(ctx, req.ListingID); err != nil {
		return nil, err
	}

	exists, err := s.reviews.ExistsByUserAndListing(ctx, userID, req.ListingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	rv := &domain.Review{
		UserID:    userID,
		ListingID: req.ListingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	resp := toReviewResponse(rv)
	return &resp, nil
}

func (s *Service) ListByListing(ctx context.Context, listingID int64, limit, offset int) (*ListingReviewsResponse, error) {
	if err := s.ensureListing(ctx, listingID); err != nil {
		return nil, err
	}

	rows, err := s.reviews.ListByListing(ctx, listingID, limit, offset)
	if err != nil {
		return nil, err
	}
	summary, err := s.reviews.SummaryForListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	out := &ListingReviewsResponse{Reviews: make([]ReviewResponse, 0, len(rows)), Summary: summary}
	for i := range rows {
		out.Reviews = append(out.Reviews, toReviewResponse(&rows[i]))
	}
	return out, nil
}

func (s *Service) ensureListing(ctx context.Context, listingID int64) error {
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	return nil
}
