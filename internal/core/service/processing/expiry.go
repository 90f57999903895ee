package processing

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"vize-dostu/internal/config"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"

	"github.com/google/uuid"
)

type expiryService struct {
	uow      port.UnitOfWork
	notifier port.Notifier
	window   time.Duration
	logger   *slog.Logger
}

// NewExpiryService creates the reminder side of document processing
func NewExpiryService(uow port.UnitOfWork, notifier port.Notifier, cfg config.ExpiryConfig, logger *slog.Logger) port.ExpiryService {
	window := cfg.ReminderWindow
	if window <= 0 {
		window = domain.ReminderWindow
	}
	return &expiryService{uow: uow, notifier: notifier, window: window, logger: logger}
}

// reminder is one dated subject the sweep may warn about
type reminder struct {
	userID    uuid.UUID
	reference string
	label     string
	expiry    time.Time
}

// SweepExpiring warns about every document and passport expired or expiring within the horizon
func (e *expiryService) SweepExpiring(ctx context.Context, now time.Time) (*domain.SweepResult, error) {
	horizon := now.AddDate(0, domain.ExpiryHorizonMonths, 0)

	documents, err := e.uow.DocumentRepo().FindExpiringBefore(ctx, horizon)
	if err != nil {
		return nil, err
	}
	passports, err := e.uow.PassportRepo().FindExpiringBefore(ctx, horizon)
	if err != nil {
		return nil, err
	}

	reminders := make([]reminder, 0, len(documents)+len(passports))
	for _, document := range documents {
		if document.ExpiryDate == nil {
			continue
		}
		reminders = append(reminders, documentReminder(document))
	}
	for _, passport := range passports {
		reminders = append(reminders, reminder{
			userID:    passport.UserID,
			reference: domain.PassportReference(passport.ID),
			label:     fmt.Sprintf("passport %s", passport.PassportNumber),
			expiry:    passport.ExpiryDate,
		})
	}

	result := &domain.SweepResult{}
	for _, r := range reminders {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Checked++
		if e.remind(ctx, r, now) {
			result.Notified++
		}
	}

	e.logger.InfoContext(ctx, "expiry sweep completed", "checked", result.Checked, "notified", result.Notified)
	return result, nil
}

// CheckDocument applies the reminder rule to one document
func (e *expiryService) CheckDocument(ctx context.Context, documentID uuid.UUID, now time.Time) (bool, error) {
	document, err := e.uow.DocumentRepo().FindByID(ctx, documentID)
	if err != nil {
		return false, err
	}
	if document.ExpiryDate == nil {
		return false, nil
	}
	return e.remind(ctx, documentReminder(*document), now), nil
}

func documentReminder(document domain.Document) reminder {
	return reminder{
		userID:    document.UserID,
		reference: domain.DocumentReference(document.ID),
		label:     fmt.Sprintf("%s (%s)", document.FileName, document.Category),
		expiry:    *document.ExpiryDate,
	}
}

// remind emits one warning unless the subject was warned within the window
func (e *expiryService) remind(ctx context.Context, r reminder, now time.Time) bool {
	freshness := domain.FreshnessAt(r.expiry, now)
	if !freshness.NeedsReminder() {
		return false
	}

	sent, err := e.notifier.NotifiedSince(ctx, r.userID, domain.NotificationTypeDocumentWarning, r.reference, now.Add(-e.window))
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to check previous reminders", "reference", r.reference, "error", err)
		return false
	}
	if sent {
		return false
	}

	title := "Document expiring soon"
	message := fmt.Sprintf("Your %s expires on %s", r.label, r.expiry.Format(time.DateOnly))
	if freshness == domain.FreshnessExpired {
		title = "Document expired"
		message = fmt.Sprintf("Your %s expired on %s", r.label, r.expiry.Format(time.DateOnly))
	}

	e.notifier.Notify(ctx, domain.Notification{
		UserID:    r.userID,
		Title:     title,
		Message:   message,
		Type:      domain.NotificationTypeDocumentWarning,
		Reference: r.reference,
		CreatedAt: now,
	})
	return true
}
