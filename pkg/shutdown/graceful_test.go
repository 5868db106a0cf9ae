package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSignalsCancel(t *testing.T) {
	ctx, cancel := WithSignals(context.Background())
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not canceled")
	}
}

func TestDrainBoundsContext(t *testing.T) {
	err := Drain(10*time.Millisecond, func(ctx context.Context) error {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 50*time.Millisecond)
		<-ctx.Done()
		return ctx.Err()
	})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
