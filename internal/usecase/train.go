package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"ArticleIntel/internal/apperr"
	"ArticleIntel/internal/classify"
	"ArticleIntel/internal/domain"
	"ArticleIntel/internal/ports"
)

// trainingLimit bounds how many stored articles feed one training run.
const trainingLimit = 5000

// TrainerDeps wires the classifier training workflow. ModelPath is optional.
type TrainerDeps struct {
	Store     ports.ArticleStore
	Models    *classify.ModelStore
	ModelPath string
	Logger    *slog.Logger
}

// TrainResult summarizes a finished training run.
type TrainResult struct {
	Samples int               `json:"samples"`
	Classes []domain.Category `json:"classes"`
	Saved   bool              `json:"saved"`
}

// Trainer retrains the classifier from stored articles and publishes the model.
// At most one training run is active at a time.
type Trainer struct {
	running   atomic.Bool
	store     ports.ArticleStore
	models    *classify.ModelStore
	modelPath string
	logger    *slog.Logger
}

// NewTrainer constructs the training use case.
func NewTrainer(deps TrainerDeps) *Trainer {
	return &Trainer{
		store:     deps.Store,
		models:    deps.Models,
		modelPath: deps.ModelPath,
		logger:    deps.Logger,
	}
}

// Train fits a model on stored articles, swaps it in and persists it when a path is set.
func (t *Trainer) Train(ctx context.Context) (TrainResult, error) {
	if !t.running.CompareAndSwap(false, true) {
		return TrainResult{}, apperr.Conflict("classifier training already in progress")
	}
	defer t.running.Store(false)

	records, err := t.store.Query(ctx, domain.ArticleFilter{}, trainingLimit)
	if err != nil {
		return TrainResult{}, fmt.Errorf("load training articles: %w", err)
	}

	samples := make([]classify.Sample, 0, len(records))
	for _, r := range records {
		samples = append(samples, classify.Sample{Title: r.Title, Content: r.Content, Category: r.Category})
	}

	model, err := classify.Train(samples)
	if err != nil {
		return TrainResult{}, fmt.Errorf("train classifier: %w", err)
	}
	t.models.Swap(model)

	result := TrainResult{Samples: model.Samples, Classes: model.Classes}
	if t.modelPath != "" {
		if err := model.Save(t.modelPath); err != nil {
			return result, fmt.Errorf("persist classifier: %w", err)
		}
		result.Saved = true
	}

	if t.logger != nil {
		t.logger.Info("classifier trained", "samples", result.Samples, "classes", len(result.Classes), "saved", result.Saved)
	}
	return result, nil
}
