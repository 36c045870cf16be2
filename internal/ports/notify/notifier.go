package notify

import (
	"context"
	"errors"
	"time"
)

// Recurring es un recordatorio diario (o semanal si Weekday != nil) a una hora local.
type Recurring struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Body    string        `json:"body"`
	Hour    int           `json:"hour"`
	Minute  int           `json:"minute"`
	Weekday *time.Weekday `json:"weekday,omitempty"`
}

// Once es un recordatorio de un solo disparo (snooze).
type Once struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	FireAt time.Time `json:"fire_at"`
}

// Notifier es el subsistema externo de entrega de notificaciones.
// ReplaceRecurring reemplaza SOLO el conjunto recurrente; los Once pendientes se conservan.
type Notifier interface {
	ReplaceRecurring(ctx context.Context, items []Recurring) error
	ScheduleOnce(ctx context.Context, item Once) error
	Cancel(ctx context.Context, id string) error
}

// Multi reparte cada llamada entre varios notifiers y junta los errores.
type Multi []Notifier

func (m Multi) ReplaceRecurring(ctx context.Context, items []Recurring) error {
	var errs []error
	for _, n := range m {
		if err := n.ReplaceRecurring(ctx, items); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) ScheduleOnce(ctx context.Context, item Once) error {
	var errs []error
	for _, n := range m {
		if err := n.ScheduleOnce(ctx, item); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Cancel(ctx context.Context, id string) error {
	var errs []error
	for _, n := range m {
		if err := n.Cancel(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
