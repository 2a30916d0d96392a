package booking

import (
	"time"

	"staybook/internal/domain"
	"staybook/internal/pkg/money"
)

const dateLayout = "2006-01-02"

type QuoteRequest struct {
	ListingID      int64  `json:"listing_id" binding:"required,gt=0"`
	CheckIn        string `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut       string `json:"check_out" binding:"required,datetime=2006-01-02"`
	NumberOfGuests int    `json:"number_of_guests" binding:"max=100"`
}

// CreateBookingRequest carries no price: total_price is always computed here.
type CreateBookingRequest struct {
	ListingID      int64  `json:"listing_id" binding:"required,gt=0"`
	CheckIn        string `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut       string `json:"check_out" binding:"required,datetime=2006-01-02"`
	NumberOfGuests int    `json:"number_of_guests" binding:"max=100"`
}

type QuoteResponse struct {
	ListingID         int64   `json:"listing_id"`
	CheckIn           string  `json:"check_in"`
	CheckOut          string  `json:"check_out"`
	Nights            int     `json:"nights"`
	NumberOfGuests    int     `json:"number_of_guests"`
	PricePerNight     float64 `json:"price_per_night"`
	TotalPrice        float64 `json:"total_price"`
	TotalPriceDisplay string  `json:"total_price_display"`
}

type BookingResponse struct {
	ID                int64                `json:"id"`
	UserID            int64                `json:"user_id"`
	ListingID         int64                `json:"listing_id"`
	Listing           string               `json:"listing,omitempty"`
	CheckIn           string               `json:"check_in"`
	CheckOut          string               `json:"check_out"`
	Nights            int                  `json:"nights"`
	NumberOfGuests    int                  `json:"number_of_guests"`
	TotalPrice        float64              `json:"total_price"`
	TotalPriceDisplay string               `json:"total_price_display"`
	PaymentStatus     domain.PaymentStatus `json:"payment_status"`
	PaidAt            *time.Time           `json:"paid_at,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

func toQuoteResponse(listingID int64, q Quote) *QuoteResponse {
	return &QuoteResponse{
		ListingID:         listingID,
		CheckIn:           q.CheckIn.Format(dateLayout),
		CheckOut:          q.CheckOut.Format(dateLayout),
		Nights:            q.Nights,
		NumberOfGuests:    q.Guests,
		PricePerNight:     q.PricePerNight.Float(),
		TotalPrice:        q.Total.Float(),
		TotalPriceDisplay: q.Total.Display(),
	}
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	total := money.Round(b.TotalPrice)
	out := BookingResponse{
		ID:                b.ID,
		UserID:            b.UserID,
		ListingID:         b.ListingID,
		CheckIn:           b.CheckIn.Format(dateLayout),
		CheckOut:          b.CheckOut.Format(dateLayout),
		Nights:            Nights(b.CheckIn, b.CheckOut),
		NumberOfGuests:    b.NumberOfGuests,
		TotalPrice:        total.Float(),
		TotalPriceDisplay: total.Display(),
		PaymentStatus:     b.PaymentStatus,
		PaidAt:            b.PaidAt,
		CreatedAt:         b.CreatedAt,
	}
	if b.Listing != nil {
		out.Listing = b.Listing.Title
	}
	return out
}
