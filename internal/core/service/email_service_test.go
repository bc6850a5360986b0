package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ilungi/gestora-api/internal/core/domain"
	"github.com/ilungi/gestora-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubEmailRepo struct {
	messages map[string]*domain.EmailMessage
	seq      int
}

func newStubEmailRepo() *stubEmailRepo {
	return &stubEmailRepo{messages: make(map[string]*domain.EmailMessage)}
}

func (r *stubEmailRepo) Insert(_ context.Context, m *domain.EmailMessage) (*domain.EmailMessage, error) {
	r.seq++
	clone := *m
	clone.ID = fmt.Sprintf("e%d", r.seq)
	r.messages[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubEmailRepo) Update(_ context.Context, m *domain.EmailMessage) error {
	if _, ok := r.messages[m.ID]; !ok {
		return domain.ErrEmailNotFound
	}
	clone := *m
	r.messages[m.ID] = &clone
	return nil
}

func (r *stubEmailRepo) FindByID(_ context.Context, id string) (*domain.EmailMessage, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, domain.ErrEmailNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubEmailRepo) FindByStatus(_ context.Context, status domain.EmailStatus) ([]*domain.EmailMessage, error) {
	var out []*domain.EmailMessage
	for _, m := range r.messages {
		if m.Status == status {
			clone := *m
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubEmailRepo) FindByKind(_ context.Context, kind string) ([]*domain.EmailMessage, error) {
	var out []*domain.EmailMessage
	for _, m := range r.messages {
		if m.Kind == kind {
			clone := *m
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubEmailRepo) FindByRecipient(_ context.Context, recipient string) ([]*domain.EmailMessage, error) {
	var out []*domain.EmailMessage
	for _, m := range r.messages {
		if m.Recipient == recipient {
			clone := *m
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubEmailRepo) CountByStatus(_ context.Context, status domain.EmailStatus) (int64, error) {
	var n int64
	for _, m := range r.messages {
		if m.Status == status {
			n++
		}
	}
	return n, nil
}

type stubSender struct {
	err  error
	note string
	sent []string // recipients
}

func (s *stubSender) Send(recipient, _, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, recipient)
	return s.note, nil
}

type stubDedup struct {
	marked map[string]bool
	err    error
}

func newStubDedup() *stubDedup {
	return &stubDedup{marked: make(map[string]bool)}
}

func (d *stubDedup) IsDuplicate(_ context.Context, taskID, userID string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	return d.marked[taskID+"/"+userID], nil
}

func (d *stubDedup) Mark(_ context.Context, taskID, userID string) error {
	d.marked[taskID+"/"+userID] = true
	return nil
}

func newEmailFixture() (*EmailService, *stubEmailRepo, *stubSender, *stubDedup) {
	repo := newStubEmailRepo()
	sender := &stubSender{}
	dedup := newStubDedup()
	svc := NewEmailService(repo, sender, dedup, zerolog.Nop())
	return svc, repo, sender, dedup
}

func assignmentNotification() ports.Notification {
	return ports.Notification{
		Kind:      domain.EmailKindTaskAssignment,
		Recipient: "alice@example.com",
		Subject:   "New task assigned - Report",
		Body:      "Hello Alice",
		TaskID:    "t1",
		UserID:    "u1",
	}
}

// ---------------------------------------------------------------------------
// Process
// ---------------------------------------------------------------------------

func TestEmailService_Process_SendsAndRecords(t *testing.T) {
	svc, repo, sender, _ := newEmailFixture()

	if err := svc.Process(context.Background(), assignmentNotification()); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(sender.sent) != 1 || sender.sent[0] != "alice@example.com" {
		t.Fatalf("expected one delivery to alice, got %v", sender.sent)
	}

	sent, _ := repo.FindByStatus(context.Background(), domain.EmailSent)
	if len(sent) != 1 {
		t.Fatalf("expected one SENT record, got %d", len(sent))
	}
	if sent[0].Kind != domain.EmailKindTaskAssignment {
		t.Fatalf("unexpected kind %q", sent[0].Kind)
	}
}

func TestEmailService_Process_SkipsDuplicatePair(t *testing.T) {
	svc, repo, sender, _ := newEmailFixture()

	if err := svc.Process(context.Background(), assignmentNotification()); err != nil {
		t.Fatalf("first process: %v", err)
	}
	if err := svc.Process(context.Background(), assignmentNotification()); err != nil {
		t.Fatalf("duplicate process should be silently skipped: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("duplicate pair must not be re-mailed, got %d deliveries", len(sender.sent))
	}
	if len(repo.messages) != 1 {
		t.Fatalf("duplicate pair must not create a second record, got %d", len(repo.messages))
	}
}

func TestEmailService_Process_DedupFailureStillSends(t *testing.T) {
	svc, _, sender, dedup := newEmailFixture()
	dedup.err = errors.New("redis down")

	if err := svc.Process(context.Background(), assignmentNotification()); err != nil {
		t.Fatalf("process should survive a dedup outage: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("mail must still be sent when dedup is unavailable")
	}
}

func TestEmailService_Process_NonTaskMailSkipsDedup(t *testing.T) {
	svc, _, sender, dedup := newEmailFixture()

	n := ports.Notification{
		Kind:      domain.EmailKindWelcome,
		Recipient: "eve@example.com",
		Subject:   "Welcome",
		Body:      "hi",
	}
	if err := svc.Process(context.Background(), n); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := svc.Process(context.Background(), n); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("mail without task/user ids is never deduplicated, got %d deliveries", len(sender.sent))
	}
	if len(dedup.marked) != 0 {
		t.Fatalf("no dedup keys expected for non-task mail")
	}
}

func TestEmailService_Process_SimulatedDeliveryNoteRecorded(t *testing.T) {
	svc, repo, sender, _ := newEmailFixture()
	sender.note = "delivery simulated in dev mode"

	if err := svc.Process(context.Background(), assignmentNotification()); err != nil {
		t.Fatalf("process: %v", err)
	}

	sent, _ := repo.FindByStatus(context.Background(), domain.EmailSent)
	if len(sent) != 1 {
		t.Fatalf("expected one SENT record, got %d", len(sent))
	}
	if !strings.Contains(sent[0].Body, "[delivery simulated in dev mode]") {
		t.Fatalf("simulated delivery note missing from record body:\n%s", sent[0].Body)
	}
}

func TestEmailService_Process_DeliveryFailureRecorded(t *testing.T) {
	svc, repo, sender, _ := newEmailFixture()
	sender.err = errors.New("smtp timeout")

	if err := svc.Process(context.Background(), assignmentNotification()); err == nil {
		t.Fatalf("expected error to be reported to the worker")
	}

	failed, _ := repo.FindByStatus(context.Background(), domain.EmailFailed)
	if len(failed) != 1 {
		t.Fatalf("expected one FAILED record, got %d", len(failed))
	}
	if failed[0].Error != "smtp timeout" {
		t.Fatalf("failure cause should be recorded, got %q", failed[0].Error)
	}
}

// ---------------------------------------------------------------------------
// Resend
// ---------------------------------------------------------------------------

func TestEmailService_Resend_OnlyFailed(t *testing.T) {
	svc, repo, _, _ := newEmailFixture()
	notifier := &stubNotifier{}
	svc.SetNotifier(notifier)

	sent, _ := repo.Insert(context.Background(), &domain.EmailMessage{
		Recipient: "a@example.com",
		Status:    domain.EmailSent,
	})
	failed, _ := repo.Insert(context.Background(), &domain.EmailMessage{
		Recipient: "b@example.com",
		Subject:   "retry me",
		Kind:      domain.EmailKindWelcome,
		Status:    domain.EmailFailed,
	})

	if err := svc.Resend(context.Background(), sent.ID); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("resending a SENT message must be rejected, got %v", err)
	}
	if err := svc.Resend(context.Background(), "missing"); !errors.Is(err, domain.ErrEmailNotFound) {
		t.Fatalf("expected ErrEmailNotFound, got %v", err)
	}

	if err := svc.Resend(context.Background(), failed.ID); err != nil {
		t.Fatalf("resend: %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Recipient != "b@example.com" {
		t.Fatalf("expected re-enqueue for b@example.com, got %v", notifier.recipients())
	}
	if notifier.sent[0].Subject != "retry me" {
		t.Fatalf("resend must reuse the recorded subject")
	}
}
