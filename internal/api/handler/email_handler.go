package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ilungi/gestora-api/internal/core/domain"
	"github.com/ilungi/gestora-api/internal/core/ports"
)

// EmailHandler exposes the outbound-mail audit to admins: what was queued,
// what failed, and a manual resend knob.
type EmailHandler struct {
	emails  ports.EmailRepository
	service ports.EmailService
}

func NewEmailHandler(emails ports.EmailRepository, service ports.EmailService) *EmailHandler {
	return &EmailHandler{emails: emails, service: service}
}

type emailStatsResponse struct {
	Pending int64 `json:"pending"`
	Sent    int64 `json:"sent"`
	Failed  int64 `json:"failed"`
}

// Pending handles GET /admin/emails/pending.
//
// @Summary      List emails not yet delivered
// @Tags         emails
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.EmailMessage
// @Router       /admin/emails/pending [get]
func (h *EmailHandler) Pending(c echo.Context) error {
	messages, err := h.emails.FindByStatus(c.Request().Context(), domain.EmailPending)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messages)
}

// Failed handles GET /admin/emails/failed.
//
// @Summary      List emails whose delivery failed
// @Tags         emails
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.EmailMessage
// @Router       /admin/emails/failed [get]
func (h *EmailHandler) Failed(c echo.Context) error {
	messages, err := h.emails.FindByStatus(c.Request().Context(), domain.EmailFailed)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messages)
}

// ByKind handles GET /admin/emails/kind/:kind.
//
// @Summary      List emails of one kind
// @Tags         emails
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path     string  true  "e.g. task_assignment, welcome"
// @Success      200   {array}  domain.EmailMessage
// @Router       /admin/emails/kind/{kind} [get]
func (h *EmailHandler) ByKind(c echo.Context) error {
	messages, err := h.emails.FindByKind(c.Request().Context(), c.Param("kind"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messages)
}

// ByRecipient handles GET /admin/emails/recipient/:email.
//
// @Summary      List emails sent to one recipient
// @Tags         emails
// @Produce      json
// @Security     BearerAuth
// @Param        email  path     string  true  "Recipient address"
// @Success      200    {array}  domain.EmailMessage
// @Router       /admin/emails/recipient/{email} [get]
func (h *EmailHandler) ByRecipient(c echo.Context) error {
	messages, err := h.emails.FindByRecipient(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messages)
}

// Stats handles GET /admin/emails/stats.
//
// @Summary      Per-status email counts
// @Tags         emails
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  emailStatsResponse
// @Router       /admin/emails/stats [get]
func (h *EmailHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	pending, err := h.emails.CountByStatus(ctx, domain.EmailPending)
	if err != nil {
		return err
	}
	sent, err := h.emails.CountByStatus(ctx, domain.EmailSent)
	if err != nil {
		return err
	}
	failed, err := h.emails.CountByStatus(ctx, domain.EmailFailed)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, emailStatsResponse{
		Pending: pending,
		Sent:    sent,
		Failed:  failed,
	})
}

// Resend handles POST /admin/emails/:id/resend. Only failed messages are
// eligible.
//
// @Summary      Re-queue a failed email
// @Tags         emails
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Email record id"
// @Success      202  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/emails/{id}/resend [post]
func (h *EmailHandler) Resend(c echo.Context) error {
	if err := h.service.Resend(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]string{"message": "resend queued"})
}
