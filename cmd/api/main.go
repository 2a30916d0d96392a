package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"staybook/internal/config"
	"staybook/internal/database"
	"staybook/internal/notification"
	jwtsvc "staybook/internal/pkg/jwt"
	"staybook/internal/server"
)

// closableQueue is what main needs to shut the notification queue down.
type closableQueue interface {
	notification.Queue
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue, err := newQueue(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	hub := notification.NewHub()
	dispatcher := notification.NewDispatcher(queue, hub)

	r := server.NewRouter(server.Deps{
		DB:          db,
		JWT:         jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		Notifier:    dispatcher,
		Hub:         hub,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("http server listening addr=%s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error=%q", err.Error())
	}

	dispatcher.Wait()
	if err := queue.Close(); err != nil {
		log.Printf("notification queue close error=%q", err.Error())
	}
}

func newQueue(ctx context.Context, cfg *config.Config) (closableQueue, error) {
	if cfg.Notify.Driver == config.DriverKafka {
		log.Printf("notifications via kafka brokers=%v topic=%s", cfg.Kafka.Brokers, cfg.Kafka.Topic)
		kq, err := notification.NewKafkaQueue(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, err
		}
		return kq, nil
	}

	mailer, err := notification.NewMailer(cfg.Mail)
	if err != nil {
		return nil, err
	}
	deliverer := notification.NewDeliverer(mailer, cfg.Mail.From, cfg.Notify.MaxAttempts, cfg.Notify.RetryBackoff)

	q := notification.NewMemoryQueue(deliverer, cfg.Notify.Workers, cfg.Notify.QueueSize)
	// workers must outlive the signal context to drain the buffer on Close
	q.Start(context.WithoutCancel(ctx))
	log.Printf("notifications via memory queue workers=%d size=%d", cfg.Notify.Workers, cfg.Notify.QueueSize)
	return q, nil
}
