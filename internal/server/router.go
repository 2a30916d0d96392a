package server

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"staybook/internal/middleware"
	"staybook/internal/modules/auth"
	"staybook/internal/modules/booking"
	"staybook/internal/modules/catalog"
	"staybook/internal/modules/review"
	"staybook/internal/notification"
	"staybook/internal/pkg/jwt"
	"staybook/internal/repository"
)

// Notifier is what the booking flow needs from the notification layer.
type Notifier = booking.NotificationSender

type Deps struct {
	DB          *gorm.DB
	JWT         *jwt.Service
	Notifier    Notifier
	Hub         *notification.Hub
	CORSOrigins []string
}

// NewRouter wires repositories, services and handlers under /api/v1.
func NewRouter(d Deps) *gin.Engine {
	userRepo := repository.NewUserRepository(d.DB)
	listingRepo := repository.NewListingRepository(d.DB)
	bookingRepo := repository.NewBookingRepository(d.DB)
	reviewRepo := repository.NewReviewRepository(d.DB)

	authHandler := auth.NewHandler(auth.NewService(userRepo, d.JWT))
	catalogHandler := catalog.NewHandler(catalog.NewService(listingRepo))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, listingRepo, userRepo, d.Notifier))
	reviewHandler := review.NewHandler(review.NewService(reviewRepo, listingRepo))

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(d.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(d.JWT))

		hosts := protected.Group("")
		hosts.Use(middleware.RequireRole("host", "admin"))

		catalogHandler.RegisterRoutes(v1, hosts)
		bookingHandler.RegisterRoutes(protected)
		reviewHandler.RegisterRoutes(v1, protected)

		if d.Hub != nil {
			notification.NewHandler(d.Hub, d.CORSOrigins).RegisterRoutes(protected)
		}
	}

	return r
}
