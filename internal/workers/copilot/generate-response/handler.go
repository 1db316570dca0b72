// internal/workers/copilot/generate-response/handler.go
package generateresponse

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"marigold-copilot/internal/common/errors"
	"marigold-copilot/internal/common/logger"
	"marigold-copilot/internal/common/metrics"
	"marigold-copilot/internal/common/validation"
	"marigold-copilot/internal/copilot/analyzer"
	"marigold-copilot/internal/copilot/router"
	"marigold-copilot/internal/models"
)

const (
	TaskType = "generate-copilot-response"
)

// SurfaceLookup resolves the optional surface id carried by the job.
type SurfaceLookup interface {
	Lookup(id string) (models.Surface, error)
}

type Handler struct {
	config   *Config
	router   *router.Router
	surfaces SurfaceLookup
	logger   logger.Logger
	errs     *errors.ErrorHandler
}

// NewHandler wires the worker. surfaces may be nil, in which case the surface
// variable is not checked.
func NewHandler(config *Config, r *router.Router, surfaces SurfaceLookup, log logger.Logger) *Handler {
	if r == nil {
		r = router.New(nil)
	}
	l := log.With(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:   config,
		router:   r,
		surfaces: surfaces,
		logger:   l,
		errs:     errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, errors.NewInvalidInputError(err.Error()))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, errors.NewEmptyQuestionError()
	}

	if input.Surface != "" && h.surfaces != nil {
		if _, err := h.surfaces.Lookup(input.Surface); err != nil {
			return nil, errors.NewSurfaceNotFoundError(input.Surface)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.NewInternalError(err)
	}

	topic, resp := h.router.Respond(question)

	result, err := validation.ValidateResponse(resp)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if !result.Valid {
		return nil, errors.NewResponseValidationFailedError(result.Summary())
	}

	output := &Output{
		Intent:   analyzer.Analyze(question),
		Topic:    string(topic),
		Response: resp,
	}

	h.logger.Info("response generated", map[string]interface{}{
		"topic":           output.Topic,
		"urgency":         string(output.Intent.Urgency),
		"recommendations": len(resp.Recommendations),
	})

	return output, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)

	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err = cmd.Send(ctx); err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errs.HandleJobError(ctx, client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
