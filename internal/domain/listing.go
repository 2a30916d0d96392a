package domain

import "time"

type Listing struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	HostID        int64     `json:"host_id" gorm:"index"`
	Title         string    `json:"title" gorm:"size:255;not null"`
	Description   string    `json:"description" gorm:"type:text"`
	Location      string    `json:"location" gorm:"size:255;index"`
	PricePerNight float64   `json:"price_per_night" gorm:"type:decimal(10,2);not null"`
	AvailableFrom time.Time `json:"available_from" gorm:"type:date"`
	AvailableTo   time.Time `json:"available_to" gorm:"type:date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
