package interpretcode

import (
	"context"
	"encoding/json"
	"testing"

	"unit-lookup/internal/common/camunda/camundatest"
	"unit-lookup/internal/common/logger"
	"unit-lookup/internal/common/metrics"
	"unit-lookup/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	h := createTestHandler(t)

	tests := []struct {
		name           string
		input          *Input
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:  "tower and apartment",
			input: &Input{Text: "1-101"},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, models.TowerApartmentQuery(1, 101), output.Query)
				assert.Equal(t, "numeric", output.Rule)
			},
		},
		{
			name:  "plate",
			input: &Input{Text: "HMN835"},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, models.QueryPlate, output.Query.Kind)
				assert.Equal(t, "HMN835", output.Query.Plate)
			},
		},
		{
			name:  "invalid text completes with an invalid query",
			input: &Input{Text: "hola"},
			validateOutput: func(t *testing.T, output *Output) {
				assert.False(t, output.Query.Valid())
				assert.Equal(t, RuleNone, output.Rule)
				assert.NotEmpty(t, output.Query.Reason)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := h.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			require.NotNil(t, output)
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Execute_CancelledContext(t *testing.T) {
	h := createTestHandler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	output, err := h.Execute(ctx, &Input{Text: "1101"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, output)
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name          string
		variables     string
		wantCompleted string
		wantThrown    []string
	}{
		{
			name:          "completes with the parsed query",
			variables:     `{"text": "T1101"}`,
			wantCompleted: `{"query":{"kind":"tower_apartment","tower":1,"apartment":101},"rule":"tower-prefix"}`,
		},
		{
			name:          "unrecognized text still completes",
			variables:     `{"text": "hola"}`,
			wantCompleted: `{"query":{"kind":"invalid","reason":"unrecognized format"},"rule":"none"}`,
		},
		{
			name:       "unparseable variables throw INVALID_REQUEST",
			variables:  `{"text": 5}`,
			wantThrown: []string{"INVALID_REQUEST"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := camundatest.NewJobClient()
			before := testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(TaskType))

			createTestHandler(t).Handle(client, camundatest.NewJob(7, tt.variables))

			if tt.wantCompleted == "" {
				assert.Empty(t, client.Completed())
				assert.Equal(t, tt.wantThrown, client.Thrown())
				assert.Equal(t, before, testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(TaskType)))
				return
			}
			require.Len(t, client.Completed(), 1)
			assert.JSONEq(t, tt.wantCompleted, client.Completed()[0])
			assert.Empty(t, client.Thrown())
			assert.Equal(t, before+1, testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(TaskType)))
		})
	}
}

func TestOutput_JSONShape(t *testing.T) {
	h := createTestHandler(t)
	output, err := h.Execute(context.Background(), &Input{Text: "C90"})
	require.NoError(t, err)

	raw, err := json.Marshal(output)
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":{"kind":"house","house":90},"rule":"house-prefix"}`, string(raw))
}
