package model

import "time"

// NotificationKind tags the event that produced a notification.
type NotificationKind string

const (
	NotificationOrder   NotificationKind = "order"
	NotificationAccount NotificationKind = "account"
	NotificationEMI     NotificationKind = "emi"
)

// Notification is an inbox message owned by one user.
type Notification struct {
	ID        int64
	UserID    int64
	Kind      NotificationKind
	Title     string
	Message   string
	Link      string
	IsRead    bool
	CreatedAt time.Time
}

// EmailStatus tracks outbox delivery.
type EmailStatus string

const (
	EmailPending EmailStatus = "pending"
	EmailSent    EmailStatus = "sent"
	EmailFailed  EmailStatus = "failed"
)

// Email templates understood by the mailer.
const (
	TemplateVerifyEmail    = "verify_email"
	TemplateShippingReview = "order_shipping_review"
	TemplateOrderStatus    = "order_status"
)

// MaxEmailAttempts bounds delivery retries before a message is failed.
const MaxEmailAttempts = 5

// EmailMessage is a queued outbound email.
type EmailMessage struct {
	ID        int64
	Recipient string
	Template  string
	Payload   map[string]string
	Status    EmailStatus
	Attempts  int
	LastError string
	CreatedAt time.Time
	SentAt    *time.Time
}
