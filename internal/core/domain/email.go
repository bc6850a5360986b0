package domain

import (
	"errors"
	"time"
)

// EmailStatus is the delivery outcome recorded for an outbound message.
type EmailStatus string

const (
	EmailPending EmailStatus = "PENDING"
	EmailSent    EmailStatus = "SENT"
	EmailFailed  EmailStatus = "FAILED"
)

// Email kinds, one per lifecycle event that produces mail.
const (
	EmailKindTaskAssignment   = "task_assignment"
	EmailKindWelcome          = "welcome"
	EmailKindAdminNewUser     = "admin_new_user"
	EmailKindPasswordRecovery = "password_recovery"
)

var ErrEmailNotFound = errors.New("email record not found")

// EmailMessage is the persisted record of one outbound email. Delivery is
// best effort: the status column is the only durability guarantee.
type EmailMessage struct {
	ID        string      `json:"id" bson:"_id,omitempty"`
	Recipient string      `json:"recipient" bson:"recipient"`
	Subject   string      `json:"subject" bson:"subject"`
	Body      string      `json:"body" bson:"body"`
	Kind      string      `json:"kind" bson:"kind"`
	Status    EmailStatus `json:"status" bson:"status"`
	SentAt    time.Time   `json:"sent_at" bson:"sent_at"`
	Error     string      `json:"error,omitempty" bson:"error,omitempty"`
}
