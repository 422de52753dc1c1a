package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextAddsRequestMetadata(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "debug", "json")

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUser(ctx, 7, 3)
	WithContext(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.EqualValues(t, 7, line["user_id"])
	assert.EqualValues(t, 3, line["center_id"])
}

func TestInitRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "warn", "text")

	Get().Info("dropped")
	assert.Empty(t, buf.String())

	Get().Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewRequestIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NewRequestID(), NewRequestID())
}
