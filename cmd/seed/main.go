package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staybook/internal/config"
	"staybook/internal/database"
	"staybook/internal/domain"
	"staybook/internal/modules/auth"
	"staybook/internal/modules/booking"
)

const (
	userCount      = 10
	hostCount      = 3
	listingCount   = 20
	bookingCount   = 30
	reviewAttempts = 50
	seedPassword   = "password123"
)

type stats struct {
	Users, Listings, Bookings, Reviews, SkippedReviews int
}

func main() {
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	st, err := run(context.Background(), db, gofakeit.New(*seed), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("seed failed:", err)
	}
	log.Printf("Database seeding completed: users=%d listings=%d bookings=%d reviews=%d skipped_reviews=%d",
		st.Users, st.Listings, st.Bookings, st.Reviews, st.SkippedReviews)
}

func run(ctx context.Context, db *gorm.DB, fake *gofakeit.Faker, cost int) (stats, error) {
	var st stats
	db = db.WithContext(ctx)

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	for _, table := range []string{"reviews", "bookings", "listings"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return st, err
		}
	}
	if err := db.Exec("DELETE FROM users WHERE role <> ?", domain.RoleAdmin).Error; err != nil {
		return st, err
	}

	// ================== USERS ==================
	hash, err := auth.HashPassword(seedPassword, cost)
	if err != nil {
		return st, err
	}

	users := make([]domain.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		role := domain.RoleGuest
		if i < hostCount {
			role = domain.RoleHost
		}
		// suffix keeps generated names unique across the batch
		u := domain.User{
			Username:     fmt.Sprintf("%s%d", fake.Username(), i+1),
			Email:        fmt.Sprintf("%d.%s", i+1, fake.Email()),
			PasswordHash: hash,
			Role:         role,
		}
		if err := db.Create(&u).Error; err != nil {
			return st, err
		}
		users = append(users, u)
		st.Users++
		log.Printf("Created user: %s (%s)", u.Username, u.Role)
	}

	// ================== LISTINGS ==================
	today := time.Now().UTC().Truncate(24 * time.Hour)
	listings := make([]domain.Listing, 0, listingCount)
	for i := 0; i < listingCount; i++ {
		from := dayOf(fake.DateRange(today, today.AddDate(0, 0, 30)))
		l := domain.Listing{
			HostID:        users[fake.IntRange(0, hostCount-1)].ID,
			Title:         fake.Sentence(4),
			Description:   fake.Paragraph(1, 5, 8, " "),
			Location:      fake.City(),
			PricePerNight: fake.Price(50, 500),
			AvailableFrom: from,
			AvailableTo:   from.AddDate(0, 0, fake.IntRange(5, 30)),
		}
		if err := db.Create(&l).Error; err != nil {
			return st, err
		}
		listings = append(listings, l)
		st.Listings++
		log.Printf("Created listing: %s", l.Title)
	}

	// ================== BOOKINGS ==================
	for i := 0; i < bookingCount; i++ {
		u := users[fake.IntRange(0, len(users)-1)]
		l := listings[fake.IntRange(0, len(listings)-1)]

		checkIn := dayOf(fake.DateRange(l.AvailableFrom, l.AvailableTo))
		checkOut := checkIn.AddDate(0, 0, fake.IntRange(1, 7))
		guests := fake.IntRange(1, 6)

		q, err := booking.Price(&l, checkIn, checkOut, guests)
		if err != nil {
			return st, err
		}

		b := domain.Booking{
			UserID:         u.ID,
			ListingID:      l.ID,
			CheckIn:        q.CheckIn,
			CheckOut:       q.CheckOut,
			NumberOfGuests: q.Guests,
			TotalPrice:     q.Total.Float(),
			PaymentStatus:  domain.PaymentUnpaid,
		}
		if err := db.Create(&b).Error; err != nil {
			return st, err
		}
		st.Bookings++
		log.Printf("Created booking: %s -> %s (%s)", u.Username, l.Title, q.Total.Display())
	}

	// ================== REVIEWS ==================
	for i := 0; i < reviewAttempts; i++ {
		u := users[fake.IntRange(0, len(users)-1)]
		l := listings[fake.IntRange(0, len(listings)-1)]

		rv := domain.Review{
			UserID:    u.ID,
			ListingID: l.ID,
			Rating:    fake.IntRange(1, 5),
			Comment:   fake.Paragraph(1, 2, 10, " "),
		}
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "listing_id"}},
			DoNothing: true,
		}).Create(&rv)
		if res.Error != nil {
			return st, res.Error
		}
		if res.RowsAffected == 0 {
			st.SkippedReviews++
			log.Printf("Skipped duplicate review: %s -> %s", u.Username, l.Title)
			continue
		}
		st.Reviews++
		log.Printf("Created review: %s -> %s (%d/5)", u.Username, l.Title, rv.Rating)
	}

	return st, nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
