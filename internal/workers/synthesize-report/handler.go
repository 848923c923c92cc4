// internal/workers/synthesize-report/handler.go
package synthesizereport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"construction-engine/internal/common/logger"
	"construction-engine/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "synthesize-report"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

// Synthesizer is the engine surface the worker drives.
type Synthesizer interface {
	SynthesizeReport(ctx context.Context, project *models.Project, providers []models.Provider, topN int) (*models.Report, error)
}

type Handler struct {
	config      *Config
	synthesizer Synthesizer
	logger      logger.Logger
}

func NewHandler(config *Config, synthesizer Synthesizer, log logger.Logger) *Handler {
	return &Handler{
		config:      config,
		synthesizer: synthesizer,
		logger:      log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "REPORT_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	topN := input.TopN
	if topN <= 0 {
		topN = h.config.DefaultTopN
	}

	report, err := h.synthesizer.SynthesizeReport(ctx, &input.Project, input.Providers, topN)
	if err != nil {
		return nil, err
	}

	h.logger.Info("report synthesized", map[string]interface{}{
		"source":       report.Source,
		"topProviders": len(report.TopProviders),
	})

	return &Output{Report: report}, nil
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
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
