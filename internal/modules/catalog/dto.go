package catalog

import (
	"time"

	"staybook/internal/pkg/money"
)

const dateLayout = "2006-01-02"

type CreateListingRequest struct {
	Title         string  `json:"title" binding:"required,max=255"`
	Description   string  `json:"description"`
	Location      string  `json:"location" binding:"required,max=255"`
	PricePerNight float64 `json:"price_per_night" binding:"gte=0,lte=99999999.99"`
	AvailableFrom string  `json:"available_from" binding:"required,datetime=2006-01-02"`
	AvailableTo   string  `json:"available_to" binding:"required,datetime=2006-01-02"`
}

// UpdateListingRequest applies only the fields that are present.
type UpdateListingRequest struct {
	Title         *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Description   *string  `json:"description"`
	Location      *string  `json:"location" binding:"omitempty,min=1,max=255"`
	PricePerNight *float64 `json:"price_per_night" binding:"omitempty,gte=0,lte=99999999.99"`
	AvailableFrom *string  `json:"available_from" binding:"omitempty,datetime=2006-01-02"`
	AvailableTo   *string  `json:"available_to" binding:"omitempty,datetime=2006-01-02"`
}

type ListingResponse struct {
	ID            int64     `json:"id"`
	HostID        int64     `json:"host_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	PricePerNight float64   `json:"price_per_night"`
	PriceDisplay  string    `json:"price_display"`
	AvailableFrom string    `json:"available_from"`
	AvailableTo   string    `json:"available_to"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Pagination struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

type ListingsPage struct {
	Listings   []ListingResponse `json:"listings"`
	Pagination Pagination        `json:"pagination"`
}

// priceOf rounds to cents so stored prices always carry two decimals and
// fit the decimal(10,2) column.
func priceOf(v float64) (float64, error) {
	c, err := money.FromFloat(v)
	if err != nil || c < 0 {
		return 0, ErrInvalidPrice
	}
	return c.Float(), nil
}
