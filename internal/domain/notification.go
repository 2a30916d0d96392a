package domain

type NotificationType string

const (
	NotifBookingConfirmed NotificationType = "booking_confirmed"
	NotifPaymentConfirmed NotificationType = "payment_confirmed"
)
