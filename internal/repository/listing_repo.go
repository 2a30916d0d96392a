package repository

import (
	"context"

	"staybook/internal/domain"

	"gorm.io/gorm"
)

type ListingFilters struct {
	Location string
	MaxPrice float64
	Limit    int
	Offset   int
}

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	var l domain.Listing
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// List returns listings matching f and the total count before paging.
func (r *ListingRepository) List(ctx context.Context, f ListingFilters) ([]domain.Listing, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := r.db.WithContext(ctx).Model(&domain.Listing{})
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price_per_night <= ?", f.MaxPrice)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Listing
	err := q.Session(&gorm.Session{}).Order("id ASC").Limit(f.Limit).Offset(f.Offset).Find(&out).Error
	return out, total, err
}

func (r *ListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Listing{}).
		Where("id = ?", l.ID).
		Updates(map[string]any{
			"title":           l.Title,
			"description":     l.Description,
			"location":        l.Location,
			"price_per_night": l.PricePerNight,
			"available_from":  l.AvailableFrom,
			"available_to":    l.AvailableTo,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the listing together with its reviews and bookings.
func (r *ListingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).Delete(&domain.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", id).Delete(&domain.Booking{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Listing{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
