// internal/workers/lookup/unit-lookup/handler.go
package unitlookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "unit-lookup/internal/common/errors"
	"unit-lookup/internal/common/logger"
	"unit-lookup/internal/common/metrics"
	"unit-lookup/internal/common/observability"
	"unit-lookup/internal/records"
	interpretcode "unit-lookup/internal/workers/lookup/interpret-code"
	matchrecord "unit-lookup/internal/workers/lookup/match-record"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "unit-lookup"

// Handler answers one chat message end to end: interpret the text, read a
// fresh snapshot of the store and match it.
type Handler struct {
	config       *Config
	source       records.Source
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, source records.Source, log logger.Logger, obs *observability.Observability) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		source:       source,
		obs:          obs,
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
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}
	h.completeJob(client, job, output)
}

// Execute runs one lookup. Invalid text and missing records are reported in
// Output.Status; only a failed store read is an error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	requestID := input.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := h.logger.WithFields(map[string]interface{}{"requestId": requestID})

	query, rule := interpretcode.Classify(input.Text, h.config.Ranges)
	out := &Output{RequestID: requestID, Query: query}

	if !query.Valid() {
		out.Status = StatusInvalid
		h.record(ctx, out, start)
		log.Info("invalid code", map[string]interface{}{"reason": query.Reason})
		return out, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, h.config.StoreTimeout)
	defer cancel()

	recs, err := h.source.FetchAll(fetchCtx)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues(string(query.Kind), "error").Inc()
		h.obs.RecordLookup(ctx, TaskType, "error", time.Since(start))
		if errors.Is(err, records.ErrUnreadable) {
			return nil, apperrors.NewStoreReadFailedError(h.source.Name(), err)
		}
		return nil, apperrors.NewStoreUnavailableError(h.source.Name(), err)
	}
	out.RecordsScanned = len(recs)

	summary, found := matchrecord.Match(query, recs, h.config.Layout)
	if found {
		out.Status = StatusFound
		out.Summary = summary
		out.Message = matchrecord.Render(summary, h.config.Layout)
	} else {
		out.Status = StatusNotFound
	}
	h.record(ctx, out, start)

	log.Info("lookup finished", map[string]interface{}{
		"query":    query.String(),
		"rule":     rule,
		"status":   out.Status,
		"records":  out.RecordsScanned,
		"duration": time.Since(start).String(),
	})
	return out, nil
}

func (h *Handler) record(ctx context.Context, out *Output, start time.Time) {
	elapsed := time.Since(start)
	metrics.LookupsTotal.WithLabelValues(string(out.Query.Kind), string(out.Status)).Inc()
	metrics.LookupDuration.WithLabelValues(h.source.Name()).Observe(elapsed.Seconds())
	h.obs.RecordLookup(ctx, TaskType, string(out.Status), elapsed)
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
