package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"staybook/internal/domain"
	"staybook/internal/pkg/money"
	"staybook/internal/repository"
)

type Service struct {
	bookings BookingRepository
	listings ListingRepository
	users    UserRepository
	notifs   NotificationSender
	now      func() time.Time
}

func NewService(
	bookings BookingRepository,
	listings ListingRepository,
	users UserRepository,
	notifs NotificationSender,
) *Service {
	return &Service{
		bookings: bookings,
		listings: listings,
		users:    users,
		notifs:   notifs,
		now:      time.Now,
	}
}

func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	listing, q, err := s.price(ctx, req.ListingID, req.CheckIn, req.CheckOut, req.NumberOfGuests)
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(listing.ID, q), nil
}

func (s *Service) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*BookingResponse, error) {
	listing, q, err := s.price(ctx, req.ListingID, req.CheckIn, req.CheckOut, req.NumberOfGuests)
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		UserID:         userID,
		ListingID:      listing.ID,
		CheckIn:        q.CheckIn,
		CheckOut:       q.CheckOut,
		NumberOfGuests: q.Guests,
		TotalPrice:     q.Total.Float(),
		PaymentStatus:  domain.PaymentUnpaid,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	b.Listing = listing

	if email := s.recipient(ctx, userID); email != "" {
		s.notifs.NotifyBookingConfirmed(ctx, email, bookingDetails(b, listing, q))
	}

	resp := toBookingResponse(b)
	return &resp, nil
}

func (s *Service) GetMyBookings(ctx context.Context, userID int64, limit, offset int) ([]BookingResponse, error) {
	rows, err := s.bookings.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]BookingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toBookingResponse(&rows[i]))
	}
	return out, nil
}

// GetByID returns a booking to its guest or to an admin.
func (s *Service) GetByID(ctx context.Context, userID int64, role string, bookingID int64) (*BookingResponse, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID && role != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	resp := toBookingResponse(b)
	return &resp, nil
}

// Pay marks the booking paid once and sends the payment confirmation.
func (s *Service) Pay(ctx context.Context, userID, bookingID int64) (*BookingResponse, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if b.PaymentStatus == domain.PaymentPaid {
		return nil, ErrAlreadyPaid
	}

	paidAt := s.now().UTC()
	ok, err := s.bookings.MarkPaid(ctx, bookingID, paidAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyPaid
	}
	b.PaymentStatus = domain.PaymentPaid
	b.PaidAt = &paidAt

	if email := s.recipient(ctx, userID); email != "" {
		s.notifs.NotifyPaymentConfirmed(ctx, email, paymentDetails(b))
	}

	resp := toBookingResponse(b)
	return &resp, nil
}

func (s *Service) price(ctx context.Context, listingID int64, checkIn, checkOut string, guests int) (*domain.Listing, Quote, error) {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return nil, Quote{}, ErrInvalidDateRange
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return nil, Quote{}, ErrInvalidDateRange
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Quote{}, ErrListingNotFound
		}
		return nil, Quote{}, err
	}

	q, err := Price(listing, in, out, guests)
	if err != nil {
		return nil, Quote{}, err
	}
	return listing, q, nil
}

func (s *Service) load(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// recipient looks up the email to notify. A failed lookup only skips the
// notification.
func (s *Service) recipient(ctx context.Context, userID int64) string {
	if s.notifs == nil || s.users == nil {
		return ""
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("notification_skipped user_id=%d error=%q", userID, err.Error())
		return ""
	}
	return u.Email
}

func bookingDetails(b *domain.Booking, l *domain.Listing, q Quote) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Booking #%d\n", b.ID)
	fmt.Fprintf(&sb, "Listing: %s (%s)\n", l.Title, l.Location)
	fmt.Fprintf(&sb, "Check-in: %s\n", q.CheckIn.Format(dateLayout))
	fmt.Fprintf(&sb, "Check-out: %s\n", q.CheckOut.Format(dateLayout))
	fmt.Fprintf(&sb, "Nights: %d\n", q.Nights)
	fmt.Fprintf(&sb, "Guests: %d\n", q.Guests)
	fmt.Fprintf(&sb, "Total: %s", q.Total.Display())
	return sb.String()
}

func paymentDetails(b *domain.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Booking #%d\n", b.ID)
	if b.Listing != nil {
		fmt.Fprintf(&sb, "Listing: %s\n", b.Listing.Title)
	}
	fmt.Fprintf(&sb, "Amount: %s\n", money.Round(b.TotalPrice).Display())
	if b.PaidAt != nil {
		fmt.Fprintf(&sb, "Paid at: %s", b.PaidAt.Format(time.RFC3339))
	}
	return strings.TrimRight(sb.String(), "\n")
}
