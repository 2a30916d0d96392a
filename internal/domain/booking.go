package domain

import "time"

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type Booking struct {
	ID             int64         `json:"id" gorm:"primaryKey"`
	UserID         int64         `json:"user_id" gorm:"index;not null"`
	ListingID      int64         `json:"listing_id" gorm:"index;not null"`
	CheckIn        time.Time     `json:"check_in" gorm:"type:date"`
	CheckOut       time.Time     `json:"check_out" gorm:"type:date"`
	NumberOfGuests int           `json:"number_of_guests"`
	TotalPrice     float64       `json:"total_price" gorm:"type:decimal(10,2)"`
	PaymentStatus  PaymentStatus `json:"payment_status" gorm:"size:16;default:unpaid"`
	PaidAt         *time.Time    `json:"paid_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`

	User    *User    `json:"-" gorm:"foreignKey:UserID"`
	Listing *Listing `json:"-" gorm:"foreignKey:ListingID"`
}
