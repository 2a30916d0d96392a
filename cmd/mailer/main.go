package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"staybook/internal/config"
	"staybook/internal/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatal("KAFKA_BROKERS is empty")
	}

	mailer, err := notification.NewMailer(cfg.Mail)
	if err != nil {
		log.Fatal(err)
	}
	deliverer := notification.NewDeliverer(mailer, cfg.Mail.From, cfg.Notify.MaxAttempts, cfg.Notify.RetryBackoff)

	consumer, err := notification.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, cfg.Kafka.DLQTopic, deliverer)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			log.Printf("consumer close error=%q", err.Error())
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("mailer started topic=%s group=%s dlq=%s", cfg.Kafka.Topic, cfg.Kafka.GroupID, cfg.Kafka.DLQTopic)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("consumer stopped error=%q", err.Error())
	}
}
