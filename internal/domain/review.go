package domain

import "time"

// Review is unique per (user, listing); the index backs the duplicate check.
type Review struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_user_listing"`
	ListingID int64     `json:"listing_id" gorm:"not null;uniqueIndex:idx_reviews_user_listing;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`

	User    *User    `json:"-" gorm:"foreignKey:UserID"`
	Listing *Listing `json:"-" gorm:"foreignKey:ListingID"`
}
