package catalog

import (
	"context"
	"errors"
	"time"

	"staybook/internal/domain"
	"staybook/internal/pkg/money"
	"staybook/internal/repository"
)

type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) error
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	List(ctx context.Context, f repository.ListingFilters) ([]domain.Listing, int64, error)
	Update(ctx context.Context, l *domain.Listing) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	listings ListingRepository
}

func NewService(listings ListingRepository) *Service {
	return &Service{listings: listings}
}

// Actor is the authenticated caller as set by the auth middleware.
type Actor struct {
	UserID int64
	Role   domain.UserRole
}

func (a Actor) canHost() bool {
	return a.Role == domain.RoleHost || a.Role == domain.RoleAdmin
}

func (a Actor) owns(l *domain.Listing) bool {
	return a.Role == domain.RoleAdmin || (a.Role == domain.RoleHost && l.HostID == a.UserID)
}

func (s *Service) Create(ctx context.Context, actor Actor, req CreateListingRequest) (*ListingResponse, error) {
	if !actor.canHost() {
		return nil, ErrForbidden
	}

	from, to, err := parseWindow(req.AvailableFrom, req.AvailableTo)
	if err != nil {
		return nil, err
	}
	price, err := priceOf(req.PricePerNight)
	if err != nil {
		return nil, err
	}

	l := &domain.Listing{
		HostID:        actor.UserID,
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: price,
		AvailableFrom: from,
		AvailableTo:   to,
	}
	if err := s.listings.Create(ctx, l); err != nil {
		return nil, err
	}

	resp := toListingResponse(l)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*ListingResponse, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toListingResponse(l)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, f repository.ListingFilters) (*ListingsPage, error) {
	rows, total, err := s.listings.List(ctx, f)
	if err != nil {
		return nil, err
	}

	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	page := &ListingsPage{
		Listings:   make([]ListingResponse, 0, len(rows)),
		Pagination: Pagination{Limit: f.Limit, Offset: f.Offset, Total: total},
	}
	for i := range rows {
		page.Listings = append(page.Listings, toListingResponse(&rows[i]))
	}
	return page, nil
}

func (s *Service) Update(ctx context.Context, actor Actor, id int64, req UpdateListingRequest) (*ListingResponse, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(l) {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		l.Title = *req.Title
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.Location != nil {
		l.Location = *req.Location
	}
	if req.PricePerNight != nil {
		price, err := priceOf(*req.PricePerNight)
		if err != nil {
			return nil, err
		}
		l.PricePerNight = price
	}

	from, to := l.AvailableFrom.Format(dateLayout), l.AvailableTo.Format(dateLayout)
	if req.AvailableFrom != nil {
		from = *req.AvailableFrom
	}
	if req.AvailableTo != nil {
		to = *req.AvailableTo
	}
	if l.AvailableFrom, l.AvailableTo, err = parseWindow(from, to); err != nil {
		return nil, err
	}

	if err := s.listings.Update(ctx, l); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp := toListingResponse(l)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, actor Actor, id int64) error {
	l, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !actor.owns(l) {
		return ErrForbidden
	}

	if err := s.listings.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Listing, error) {
	l, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func parseWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidAvailability
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidAvailability
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, ErrInvalidAvailability
	}
	return from, to, nil
}

func toListingResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ID:            l.ID,
		HostID:        l.HostID,
		Title:         l.Title,
		Description:   l.Description,
		Location:      l.Location,
		PricePerNight: l.PricePerNight,
		PriceDisplay:  money.Round(l.PricePerNight).Display(),
		AvailableFrom: l.AvailableFrom.Format(dateLayout),
		AvailableTo:   l.AvailableTo.Format(dateLayout),
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}
