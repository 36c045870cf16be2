// Package logging es el notifier por defecto: solo deja constancia en el log.
package logging

import (
	"context"

	"medication-reminder/internal/platform/logger"
	"medication-reminder/internal/ports/notify"
)

type Notifier struct {
	log logger.Logger
}

func New(l logger.Logger) *Notifier {
	if l == nil {
		l = logger.Nop()
	}
	return &Notifier{log: l.With(map[string]any{"component": "notify.logging"})}
}

func (n *Notifier) ReplaceRecurring(ctx context.Context, items []notify.Recurring) error {
	n.log.Info("recurring reminders replaced", map[string]any{"count": len(items)})
	for _, it := range items {
		fields := map[string]any{"id": it.ID, "hour": it.Hour, "minute": it.Minute, "body": it.Body}
		if it.Weekday != nil {
			fields["weekday"] = it.Weekday.String()
		}
		n.log.Debug("recurring reminder", fields)
	}
	return nil
}

func (n *Notifier) ScheduleOnce(ctx context.Context, item notify.Once) error {
	n.log.Info("one-shot reminder scheduled", map[string]any{
		"id":      item.ID,
		"fire_at": item.FireAt,
		"body":    item.Body,
	})
	return nil
}

func (n *Notifier) Cancel(ctx context.Context, id string) error {
	n.log.Info("reminder cancelled", map[string]any{"id": id})
	return nil
}
