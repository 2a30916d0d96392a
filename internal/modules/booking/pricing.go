package booking

import (
	"time"

	"staybook/internal/domain"
	"staybook/internal/pkg/money"
)

// MaxGuests caps number_of_guests per booking.
const MaxGuests = 100

const secondsPerDay = 24 * 60 * 60

// Quote is a priced, validated stay. It is never persisted on its own.
type Quote struct {
	CheckIn       time.Time
	CheckOut      time.Time
	Nights        int
	Guests        int
	PricePerNight money.Cents
	Total         money.Cents
}

// Price validates a stay and computes
// total = price_per_night × nights × guests, in whole cents.
// The date range is checked before the guest count. Totals that do not fit
// the stored decimal(10,2) column fail with ErrPriceOutOfRange.
func Price(listing *domain.Listing, checkIn, checkOut time.Time, guests int) (Quote, error) {
	in, out := dateOf(checkIn), dateOf(checkOut)
	if !in.Before(out) {
		return Quote{}, ErrInvalidDateRange
	}
	if guests < 1 || guests > MaxGuests {
		return Quote{}, ErrInvalidGuestCount
	}

	rate, err := money.FromFloat(listing.PricePerNight)
	if err != nil || rate < 0 {
		return Quote{}, ErrPriceOutOfRange
	}

	nights := Nights(in, out)
	total, err := rate.Mul(nights)
	if err == nil {
		total, err = total.Mul(guests)
	}
	if err != nil {
		return Quote{}, ErrPriceOutOfRange
	}

	return Quote{
		CheckIn:       in,
		CheckOut:      out,
		Nights:        nights,
		Guests:        guests,
		PricePerNight: rate,
		Total:         total,
	}, nil
}

// Nights counts calendar days between two dates; time of day is ignored.
func Nights(checkIn, checkOut time.Time) int {
	return int((dateOf(checkOut).Unix() - dateOf(checkIn).Unix()) / secondsPerDay)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
