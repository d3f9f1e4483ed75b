package observability

import (
	"context"
	"testing"
	"time"

	"unit-lookup/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_RecordLookup(t *testing.T) {
	obs := New("unit-lookup-test", logger.NewTestLogger(t))
	require.NotNil(t, obs)
	require.NotNil(t, obs.meterProvider)

	assert.NotPanics(t, func() {
		obs.RecordLookup(context.Background(), "http", "found", 25*time.Millisecond)
		obs.RecordLookup(context.Background(), "telegram", "not_found", time.Millisecond)
	})
	assert.NoError(t, obs.Shutdown(context.Background()))
}

func TestObservability_NilIsNoOp(t *testing.T) {
	var obs *Observability

	assert.NotPanics(t, func() {
		obs.RecordLookup(context.Background(), "cli", "invalid", 0)
	})
	assert.NoError(t, obs.Shutdown(context.Background()))

	empty := &Observability{}
	assert.NotPanics(t, func() {
		empty.RecordLookup(context.Background(), "cli", "found", time.Second)
	})
	assert.NoError(t, empty.Shutdown(context.Background()))
}
