// internal/workers/lookup/match-record/handler.go
package matchrecord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "unit-lookup/internal/common/errors"
	"unit-lookup/internal/common/logger"
	"unit-lookup/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "match-record"

var ErrInvalidQuery = errors.New("INVALID_CODE")

type Handler struct {
	config       *Config
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job,
			apperrors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if errors.Is(err, ErrInvalidQuery) {
		err = apperrors.NewInvalidCodeError(input.Query.String(), input.Query.Reason)
	}
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}
	h.completeJob(client, job, output)
}

// Execute scans input.Records for input.Query. Not finding a record is
// reported through Output.Found, not as an error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !input.Query.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuery, input.Query.Reason)
	}

	summary, found := Match(input.Query, input.Records, h.config.Layout)

	h.logger.Debug("records scanned", map[string]interface{}{
		"query":   input.Query.String(),
		"records": len(input.Records),
		"found":   found,
	})

	if !found {
		return &Output{Found: false}, nil
	}
	return &Output{
		Found:   true,
		Summary: summary,
		Text:    Render(summary, h.config.Layout),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}
