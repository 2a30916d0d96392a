package booking

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain"
	"staybook/internal/pkg/money"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPrice_Example(t *testing.T) {
	listing := &domain.Listing{PricePerNight: 100.00}

	q, err := Price(listing, day(2024, 1, 1), day(2024, 1, 4), 2)
	require.NoError(t, err)

	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, 2, q.Guests)
	assert.Equal(t, money.Cents(60000), q.Total)
	assert.Equal(t, 600.00, q.Total.Float())
}

func TestPrice_TotalIsRateTimesNightsTimesGuests(t *testing.T) {
	cases := []struct {
		name   string
		rate   float64
		in     time.Time
		out    time.Time
		guests int
		want   money.Cents
	}{
		{"one night one guest", 50, day(2024, 3, 1), day(2024, 3, 2), 1, 5000},
		{"cents rate", 199.99, day(2024, 3, 1), day(2024, 3, 8), 3, 19999 * 7 * 3},
		{"across month end", 120.5, day(2024, 1, 30), day(2024, 2, 2), 2, 12050 * 3 * 2},
		{"leap day", 80, day(2024, 2, 28), day(2024, 3, 1), 1, 8000 * 2},
		{"free listing", 0, day(2024, 5, 1), day(2024, 5, 3), 4, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := Price(&domain.Listing{PricePerNight: tc.rate}, tc.in, tc.out, tc.guests)
			require.NoError(t, err)
			assert.Equal(t, tc.want, q.Total)
		})
	}
}

func TestPrice_InvalidDateRange(t *testing.T) {
	listing := &domain.Listing{PricePerNight: 100}

	for _, guests := range []int{-1, 0, 1, 5} {
		_, err := Price(listing, day(2024, 1, 4), day(2024, 1, 4), guests)
		assert.ErrorIs(t, err, ErrInvalidDateRange, "same day, guests=%d", guests)

		_, err = Price(listing, day(2024, 1, 5), day(2024, 1, 4), guests)
		assert.ErrorIs(t, err, ErrInvalidDateRange, "reversed, guests=%d", guests)
	}
}

func TestPrice_InvalidGuestCount(t *testing.T) {
	listing := &domain.Listing{PricePerNight: 100}

	_, err := Price(listing, day(2024, 1, 1), day(2024, 1, 2), 0)
	assert.ErrorIs(t, err, ErrInvalidGuestCount)

	_, err = Price(listing, day(2024, 1, 1), day(2024, 1, 2), -3)
	assert.ErrorIs(t, err, ErrInvalidGuestCount)
}

func TestNights_IgnoresTimeOfDay(t *testing.T) {
	in := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	out := time.Date(2024, 1, 2, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, 1, Nights(in, out))

	q, err := Price(&domain.Listing{PricePerNight: 10}, in, out, 1)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(1000), q.Total)
}

func TestPrice_GuestCountUpperBound(t *testing.T) {
	listing := &domain.Listing{PricePerNight: 100}

	q, err := Price(listing, day(2024, 1, 1), day(2024, 1, 2), MaxGuests)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(10000*MaxGuests), q.Total)

	for _, guests := range []int{MaxGuests + 1, 1 << 62} {
		_, err := Price(listing, day(2024, 1, 1), day(2024, 1, 2), guests)
		assert.ErrorIs(t, err, ErrInvalidGuestCount, "guests=%d", guests)
	}
}

func TestNights_FullCalendarRange(t *testing.T) {
	assert.Equal(t, 3652058, Nights(day(1, 1, 1), day(9999, 12, 31)))
}

func TestPrice_OutOfRange(t *testing.T) {
	cases := []struct {
		name   string
		rate   float64
		in     time.Time
		out    time.Time
		guests int
	}{
		{"huge rate", 1e300, day(2024, 1, 1), day(2024, 1, 2), 1},
		{"infinite rate", math.Inf(1), day(2024, 1, 1), day(2024, 1, 2), 1},
		{"negative rate", -10, day(2024, 1, 1), day(2024, 1, 2), 1},
		{"whole calendar", 1, day(1, 1, 1), day(9999, 12, 31), 100},
		{"one cent past max", 99999999.99, day(2024, 1, 1), day(2024, 1, 3), 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Price(&domain.Listing{PricePerNight: tc.rate}, tc.in, tc.out, tc.guests)
			assert.ErrorIs(t, err, ErrPriceOutOfRange)
		})
	}
}

func TestPrice_AtMaximumTotal(t *testing.T) {
	q, err := Price(&domain.Listing{PricePerNight: 99999999.99}, day(2024, 1, 1), day(2024, 1, 2), 1)
	require.NoError(t, err)
	assert.Equal(t, money.MaxCents, q.Total)

	q, err = Price(&domain.Listing{PricePerNight: 0}, day(1, 1, 1), day(9999, 12, 31), MaxGuests)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(0), q.Total)
	assert.Equal(t, 3652058, q.Nights)
}
