package booking

import (
	"context"
	"time"

	"staybook/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	MarkPaid(ctx context.Context, id int64, at time.Time) (bool, error)
}

type ListingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// NotificationSender is fire-and-forget: nothing it does can fail a booking.
type NotificationSender interface {
	NotifyBookingConfirmed(ctx context.Context, userEmail, bookingDetails string)
	NotifyPaymentConfirmed(ctx context.Context, userEmail, paymentDetails string)
}
