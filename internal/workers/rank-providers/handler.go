// internal/workers/rank-providers/handler.go
package rankproviders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"construction-engine/internal/common/logger"
	"construction-engine/internal/engine/recommend"
	"construction-engine/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "rank-providers"
)

var (
	ErrNilInput    = errors.New("input cannot be nil")
	ErrNoProviders = errors.New("provider list cannot be empty")
)

// Ranker is the engine surface the worker drives.
type Ranker interface {
	RankProviders(ctx context.Context, project *models.Project, providers []models.Provider, count int) (*recommend.Recommendation, error)
}

// ProviderSource supplies the full catalog for jobs that carry no provider
// list of their own. May be nil.
type ProviderSource interface {
	ListProviders(ctx context.Context) ([]models.Provider, error)
}

type Handler struct {
	config  *Config
	ranker  Ranker
	catalog ProviderSource
	logger  logger.Logger
}

func NewHandler(config *Config, ranker Ranker, catalog ProviderSource, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		ranker:  ranker,
		catalog: catalog,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		h.failJob(client, job, "RANKING_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	providers := input.Providers
	if len(providers) == 0 && h.catalog != nil {
		var err error
		providers, err = h.catalog.ListProviders(ctx)
		if err != nil {
			return nil, err
		}
	}
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}

	count := input.Count
	if count <= 0 {
		count = h.config.DefaultCount
	}

	rec, err := h.ranker.RankProviders(ctx, &input.Project, providers, count)
	if err != nil {
		return nil, err
	}

	h.logger.Info("ranking completed", map[string]interface{}{
		"source":   rec.Source,
		"degraded": rec.Degraded,
		"count":    len(rec.Providers),
	})

	return &Output{
		Providers: rec.Providers,
		Source:    rec.Source,
		Degraded:  rec.Degraded,
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
