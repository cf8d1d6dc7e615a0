package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	t.Cleanup(func() { SetOutput(prev) })
	return &buf
}

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", RequestID(ctx))
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestContextualLogs(t *testing.T) {
	t.Run("request ID is prefixed when present", func(t *testing.T) {
		buf := capture(t)
		ctx := WithRequestID(context.Background(), "abc-123")

		InfoWithContext(ctx, "dispatch complete: %d sent", 3)

		assert.Contains(t, buf.String(), "[req_id=abc-123] dispatch complete: 3 sent")
	})

	t.Run("no prefix without request ID", func(t *testing.T) {
		buf := capture(t)

		WarnWithContext(context.Background(), "transient failure")

		assert.Contains(t, buf.String(), "transient failure")
		assert.NotContains(t, buf.String(), "req_id")
	})
}
