package review

import (
	"context"

	"staybook/internal/domain"
	"staybook/internal/repository"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	ExistsByUserAndListing(ctx context.Context, userID, listingID int64) (bool, error)
	ListByListing(ctx context.Context, listingID int64, limit, offset int) ([]domain.Review, error)
	SummaryForListing(ctx context.Context, listingID int64) (repository.RatingSummary, error)
}

type ListingGate interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}
