// Package mqtt publica los comandos de recordatorio como mensajes JSON:
//
//	<topic>/recurring  conjunto completo (retained, así un suscriptor nuevo lo recibe)
//	<topic>/once       un one-shot
//	<topic>/cancel     {"id": ...}
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"medication-reminder/internal/ports/notify"
)

const DefaultTopic = "medrem/triggers"

// Publisher es lo que el notifier necesita del cliente MQTT.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

type Notifier struct {
	pub   Publisher
	topic string
	qos   byte
}

func New(pub Publisher, topic string) *Notifier {
	topic = strings.TrimRight(strings.TrimSpace(topic), "/")
	if topic == "" {
		topic = DefaultTopic
	}
	return &Notifier{pub: pub, topic: topic, qos: 1}
}

type recurringMessage struct {
	Items []notify.Recurring `json:"items"`
}

type cancelMessage struct {
	ID string `json:"id"`
}

func (n *Notifier) ReplaceRecurring(ctx context.Context, items []notify.Recurring) error {
	if items == nil {
		items = []notify.Recurring{}
	}
	return n.publish(ctx, "recurring", true, recurringMessage{Items: items})
}

func (n *Notifier) ScheduleOnce(ctx context.Context, item notify.Once) error {
	return n.publish(ctx, "once", false, item)
}

func (n *Notifier) Cancel(ctx context.Context, id string) error {
	return n.publish(ctx, "cancel", false, cancelMessage{ID: id})
}

func (n *Notifier) publish(ctx context.Context, sub string, retained bool, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", sub, err)
	}
	return n.pub.Publish(n.topic+"/"+sub, n.qos, retained, b)
}
