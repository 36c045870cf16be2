// Package redis publica los recordatorios en Redis para que un proceso de entrega
// (app móvil, bot, etc.) los consuma.
//
// Layout de claves:
//
//	<prefix>recurring      HASH  id -> JSON de notify.Recurring (se reemplaza completo)
//	<prefix>once           ZSET  id con score = epoch de disparo
//	<prefix>once:payload   HASH  id -> JSON de notify.Once
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"medication-reminder/internal/ports/notify"
)

const DefaultPrefix = "medrem:"

type Notifier struct {
	rdb    redis.Cmdable
	prefix string
}

func New(rdb redis.Cmdable, prefix string) *Notifier {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Notifier{rdb: rdb, prefix: prefix}
}

func (n *Notifier) recurringKey() string { return n.prefix + "recurring" }
func (n *Notifier) onceKey() string      { return n.prefix + "once" }
func (n *Notifier) payloadKey() string   { return n.prefix + "once:payload" }

// ReplaceRecurring borra y reescribe el hash en una transacción (MULTI/EXEC).
// No toca los one-shot.
func (n *Notifier) ReplaceRecurring(ctx context.Context, items []notify.Recurring) error {
	fields := make(map[string]interface{}, len(items))
	for _, it := range items {
		b, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encode recurring %s: %w", it.ID, err)
		}
		fields[it.ID] = b
	}

	pipe := n.rdb.TxPipeline()
	pipe.Del(ctx, n.recurringKey())
	if len(fields) > 0 {
		pipe.HSet(ctx, n.recurringKey(), fields)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("replace recurring: %w", err)
	}
	return nil
}

func (n *Notifier) ScheduleOnce(ctx context.Context, item notify.Once) error {
	b, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode once %s: %w", item.ID, err)
	}

	pipe := n.rdb.TxPipeline()
	pipe.ZAdd(ctx, n.onceKey(), &redis.Z{Score: float64(item.FireAt.Unix()), Member: item.ID})
	pipe.HSet(ctx, n.payloadKey(), item.ID, b)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("schedule once: %w", err)
	}
	return nil
}

// Cancel quita el id de donde esté; cancelar algo inexistente no es error.
func (n *Notifier) Cancel(ctx context.Context, id string) error {
	pipe := n.rdb.TxPipeline()
	pipe.ZRem(ctx, n.onceKey(), id)
	pipe.HDel(ctx, n.payloadKey(), id)
	pipe.HDel(ctx, n.recurringKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cancel %s: %w", id, err)
	}
	return nil
}

// Due devuelve los one-shot con disparo <= now, en orden de disparo.
func (n *Notifier) Due(ctx context.Context, now time.Time) ([]notify.Once, error) {
	ids, err := n.rdb.ZRangeByScore(ctx, n.onceKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("range once: %w", err)
	}
	if len(ids) == 0 {
		return []notify.Once{}, nil
	}

	vals, err := n.rdb.HMGet(ctx, n.payloadKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("load payloads: %w", err)
	}

	out := make([]notify.Once, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // payload ya borrado
		}
		var it notify.Once
		if err := json.Unmarshal([]byte(s), &it); err != nil {
			return nil, fmt.Errorf("decode once: %w", err)
		}
		out = append(out, it)
	}
	return out, nil
}
