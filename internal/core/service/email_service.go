package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ilungi/gestora-api/internal/core/domain"
	"github.com/ilungi/gestora-api/internal/core/ports"
)

type EmailService struct {
	emails   ports.EmailRepository
	sender   ports.EmailSender
	dedup    ports.NotificationDedup
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewEmailService returns the EmailService implementation consumed by the
// notification dispatcher workers. The notifier reference is only used by
// Resend to re-enqueue failed messages; it may be set later via SetNotifier
// to break the construction cycle with the dispatcher.
func NewEmailService(
	emails ports.EmailRepository,
	sender ports.EmailSender,
	dedup ports.NotificationDedup,
	log zerolog.Logger,
) *EmailService {
	return &EmailService{
		emails: emails,
		sender: sender,
		dedup:  dedup,
		log:    log,
	}
}

// SetNotifier wires the dispatcher after both sides exist.
func (s *EmailService) SetNotifier(n ports.Notifier) {
	s.notifier = n
}

// Process records, deduplicates and delivers a single notification. Failures
// are recorded in the status column and logged; nothing propagates back to
// the mutation that triggered the mail.
func (s *EmailService) Process(ctx context.Context, n ports.Notification) error {
	// 1. Task-assignment dedup — skip pairs already notified in the window.
	if n.TaskID != "" && n.UserID != "" {
		isDup, err := s.dedup.IsDuplicate(ctx, n.TaskID, n.UserID)
		if err != nil {
			s.log.Warn().Err(err).Str("task_id", n.TaskID).Msg("dedup check failed, sending anyway")
		} else if isDup {
			s.log.Debug().Str("task_id", n.TaskID).Str("user_id", n.UserID).Msg("duplicate notification skipped")
			return nil
		}
	}

	// 2. Record the message before attempting delivery.
	record := &domain.EmailMessage{
		Recipient: n.Recipient,
		Subject:   n.Subject,
		Body:      n.Body,
		Kind:      n.Kind,
		Status:    domain.EmailPending,
		SentAt:    time.Now().UTC(),
	}
	record, err := s.emails.Insert(ctx, record)
	if err != nil {
		return fmt.Errorf("process notification: insert record: %w", err)
	}

	// 3. Mark the pair before sending so a crashed retry does not double-mail.
	if n.TaskID != "" && n.UserID != "" {
		if markErr := s.dedup.Mark(ctx, n.TaskID, n.UserID); markErr != nil {
			s.log.Warn().Err(markErr).Str("task_id", n.TaskID).Msg("failed to set dedup key")
		}
	}

	// 4. Deliver and record the outcome.
	note, sendErr := s.sender.Send(n.Recipient, n.Subject, n.Body)
	if sendErr != nil {
		record.Status = domain.EmailFailed
		record.Error = sendErr.Error()
		if upErr := s.emails.Update(ctx, record); upErr != nil {
			s.log.Warn().Err(upErr).Str("email_id", record.ID).Msg("failed to record delivery failure")
		}
		s.log.Error().Err(sendErr).
			Str("recipient", n.Recipient).
			Str("kind", n.Kind).
			Msg("email delivery failed")
		return fmt.Errorf("process notification: send: %w", sendErr)
	}

	record.Status = domain.EmailSent
	if note != "" {
		record.Body = record.Body + "\n\n[" + note + "]"
	}
	if err := s.emails.Update(ctx, record); err != nil {
		s.log.Warn().Err(err).Str("email_id", record.ID).Msg("failed to record delivery success")
	}

	s.log.Info().
		Str("recipient", n.Recipient).
		Str("kind", n.Kind).
		Str("subject", n.Subject).
		Msg("email sent")

	return nil
}

// Resend re-enqueues a previously failed message. Messages in any other
// status are left alone.
func (s *EmailService) Resend(ctx context.Context, id string) error {
	record, err := s.emails.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if record.Status != domain.EmailFailed {
		return fmt.Errorf("%w: only failed emails can be resent", domain.ErrValidation)
	}
	if s.notifier == nil {
		return fmt.Errorf("resend: notifier not configured")
	}

	s.notifier.Enqueue(ports.Notification{
		Kind:      record.Kind,
		Recipient: record.Recipient,
		Subject:   record.Subject,
		Body:      record.Body,
	})
	s.log.Info().Str("email_id", id).Str("recipient", record.Recipient).Msg("email resend queued")
	return nil
}
