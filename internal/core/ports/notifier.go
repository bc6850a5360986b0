package ports

import "context"

// Notification is one queued outbound message. TaskID and UserID identify the
// triggering assignment for dedup purposes; they are empty for non-task mail.
type Notification struct {
	Kind      string
	Recipient string
	Subject   string
	Body      string
	TaskID    string
	UserID    string
}

// Notifier is the fire-and-forget side channel for lifecycle mail. Enqueue
// must never block or fail the calling mutation; delivery has no ordering or
// cancellation guarantee.
type Notifier interface {
	Enqueue(n Notification)
}

// EmailService processes queued notifications and exposes the mail audit.
type EmailService interface {
	// Process records the message, attempts delivery and persists the
	// outcome. Called from dispatcher workers, never from request handlers.
	Process(ctx context.Context, n Notification) error
	// Resend re-enqueues a previously failed message by id.
	Resend(ctx context.Context, id string) error
}

// EmailSender is the transport boundary. Implementations either talk SMTP or
// simulate delivery in development mode. A non-empty note marks a simulated
// delivery and is appended to the stored record.
type EmailSender interface {
	Send(recipient, subject, body string) (note string, err error)
}

// NotificationDedup prevents re-mailing a task/user pair that was already
// notified within the TTL window. Backed by Redis.
type NotificationDedup interface {
	IsDuplicate(ctx context.Context, taskID, userID string) (bool, error)
	Mark(ctx context.Context, taskID, userID string) error
}
