package review

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"staybook/internal/database"
	"staybook/internal/domain"
	"staybook/internal/repository"
)

func setupService(t *testing.T) (*Service, *gorm.DB, *domain.User, *domain.Listing) {
	t.Helper()
	dsn := fmt.Sprintf("file:review_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	ctx := context.Background()
	u := &domain.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", Role: domain.RoleGuest}
	require.NoError(t, repository.NewUserRepository(db).Create(ctx, u))

	listings := repository.NewListingRepository(db)
	l := &domain.Listing{
		HostID:        u.ID,
		Title:         "Cabin",
		Location:      "Tokyo",
		PricePerNight: 80,
		AvailableFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		AvailableTo:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, listings.Create(ctx, l))

	return NewService(repository.NewReviewRepository(db), listings), db, u, l
}

func TestValidateRating(t *testing.T) {
	for _, r := range []int{1, 2, 3, 4, 5} {
		assert.NoError(t, ValidateRating(r), "rating %d", r)
	}
	for _, r := range []int{-1, 0, 6, 10} {
		assert.ErrorIs(t, ValidateRating(r), ErrInvalidRating, "rating %d", r)
	}
}

func TestErrors_ReadAsSentences(t *testing.T) {
	assert.EqualError(t, ErrInvalidRating, "rating must be between 1 and 5")
	assert.EqualError(t, ErrDuplicateReview, "user has already reviewed this listing")
	assert.EqualError(t, ErrListingNotFound, "listing not found")
}

func TestService_Create_RatingBounds(t *testing.T) {
	svc, _, u, l := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, u.ID, CreateReviewRequest{ListingID: l.ID, Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Create(ctx, u.ID, CreateReviewRequest{ListingID: l.ID, Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)

	rv, err := svc.Create(ctx, u.ID, CreateReviewRequest{ListingID: l.ID, Rating: 3, Comment: "ok"})
	require.NoError(t, err)
	assert.Equal(t, 3, rv.Rating)
	assert.NotZero(t, rv.ID)
}

func TestService_Create_Duplicate(t *testing.T) {
	svc, _, u, l := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, u.ID, CreateReviewRequest{ListingID: l.ID, Rating: 5})
	require.NoError(t, err)

	_, err = svc.Create(ctx, u.ID, CreateReviewRequest{ListingID: l.ID, Rating: 4})
	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestService_Create_ListingNotFound(t *testing.T) {
	svc, _, u, _ := setupService(t)

	_, err := svc.Create(context.Background(), u.ID, CreateReviewRequest{ListingID: 9999, Rating: 4})
	assert.ErrorIs(t, err, ErrListingNotFound)
}

// racingRepo hides existing rows from the pre-check so the insert hits the
// unique index.
type racingRepo struct {
	*repository.ReviewRepository
}

func (racingRepo) ExistsByUserAndListing(context.Context, int64, int64) (bool, error) {
	return false, nil
}

func TestService_Create_UniqueIndexMapsToDuplicate(t *testing.T) {
	_, db, u, l := setupService(t)
	svc := NewService(racingRepo{repository.NewReviewRepository(db)}, repository.NewListingRepository(db))
	ctx := context.Background()

	_, err := svc.Create(ctx, u.ID, CreateReviewRequest{ListingID: l.ID, Rating: 4})
	require.NoError(t, err)

	_, err = svc.Create(ctx, u.ID, CreateReviewRequest{ListingID: l.ID, Rating: 1})
	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestService_ListByListing(t *testing.T) {
	svc, db, u, l := setupService(t)
	ctx := context.Background()

	other := &domain.User{Username: "carol", Email: "carol@example.com", PasswordHash: "x", Role: domain.RoleGuest}
	require.NoError(t, repository.NewUserRepository(db).Create(ctx, other))

	_, err := svc.Create(ctx, u.ID, CreateReviewRequest{ListingID: l.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, other.ID, CreateReviewRequest{ListingID: l.ID, Rating: 2})
	require.NoError(t, err)

	out, err := svc.ListByListing(ctx, l.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, out.Reviews, 2)
	assert.Equal(t, int64(2), out.Summary.Count)
	assert.InDelta(t, 3.5, out.Summary.Average, 0.001)

	_, err = svc.ListByListing(ctx, 4242, 0, 0)
	assert.ErrorIs(t, err, ErrListingNotFound)
}
