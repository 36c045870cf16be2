package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medication-reminder/internal/ports/notify"
)

type published struct {
	topic    string
	retained bool
	payload  []byte
}

type fakePublisher struct {
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(topic string, qos byte, retained bool, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{topic: topic, retained: retained, payload: payload})
	return nil
}

func TestNotifier_Topics(t *testing.T) {
	pub := &fakePublisher{}
	n := New(pub, "home/meds/")
	ctx := context.Background()

	require.NoError(t, n.ReplaceRecurring(ctx, nil))
	require.NoError(t, n.ScheduleOnce(ctx, notify.Once{ID: "snooze_a1_1", FireAt: time.Unix(1, 0).UTC()}))
	require.NoError(t, n.Cancel(ctx, "snooze_a1_1"))

	require.Len(t, pub.msgs, 3)
	assert.Equal(t, "home/meds/recurring", pub.msgs[0].topic)
	assert.True(t, pub.msgs[0].retained)
	assert.JSONEq(t, `{"items":[]}`, string(pub.msgs[0].payload))

	assert.Equal(t, "home/meds/once", pub.msgs[1].topic)
	assert.False(t, pub.msgs[1].retained)
	var once notify.Once
	require.NoError(t, json.Unmarshal(pub.msgs[1].payload, &once))
	assert.Equal(t, "snooze_a1_1", once.ID)

	assert.Equal(t, "home/meds/cancel", pub.msgs[2].topic)
	assert.JSONEq(t, `{"id":"snooze_a1_1"}`, string(pub.msgs[2].payload))
}

func TestNotifier_DefaultTopicAndErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("not connected")}
	n := New(pub, "")

	assert.EqualError(t, n.Cancel(context.Background(), "x"), "not connected")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pub.err = nil
	assert.ErrorIs(t, n.Cancel(ctx, "x"), context.Canceled)
	assert.Empty(t, pub.msgs)
	assert.Equal(t, DefaultTopic, n.topic)
}
