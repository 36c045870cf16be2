package logging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"medication-reminder/internal/platform/logger"
	"medication-reminder/internal/ports/notify"
)

func TestNotifier_LogsEachCall(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := New(logger.FromZap(zap.New(core)))
	ctx := context.Background()

	wd := time.Monday
	require.NoError(t, n.ReplaceRecurring(ctx, []notify.Recurring{
		{ID: "assignment_a1_8_0", Hour: 8},
		{ID: "assignment_a2_9_0_w1", Hour: 9, Weekday: &wd},
	}))
	require.NoError(t, n.ScheduleOnce(ctx, notify.Once{ID: "snooze_a1_1", FireAt: time.Unix(1, 0)}))
	require.NoError(t, n.Cancel(ctx, "snooze_a1_1"))

	assert.Equal(t, 1, logs.FilterMessage("recurring reminders replaced").Len())
	assert.Equal(t, 2, logs.FilterMessage("recurring reminder").Len())
	assert.Equal(t, 1, logs.FilterMessage("one-shot reminder scheduled").Len())
	assert.Equal(t, 1, logs.FilterMessage("reminder cancelled").Len())

	weekly := logs.FilterField(zap.String("weekday", "Monday"))
	assert.Equal(t, 1, weekly.Len())
}
