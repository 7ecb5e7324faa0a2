package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/smarttask/smarttask-go/internal/classifier"
	"github.com/smarttask/smarttask-go/internal/model"
)

// Enricher computes the priority and category of a new task.
type Enricher interface {
	Enrich(ctx context.Context, text string) (model.Classification, error)
}

// EnricherFunc adapts a function to Enricher.
type EnricherFunc func(ctx context.Context, text string) (model.Classification, error)

func (f EnricherFunc) Enrich(ctx context.Context, text string) (model.Classification, error) {
	return f(ctx, text)
}

// Classifier maps task text to a raw classification.
type Classifier interface {
	Classify(ctx context.Context, text string) (model.Classification, error)
}

// LocalEnricher assigns medium/General to every task.
type LocalEnricher struct{}

func (LocalEnricher) Enrich(context.Context, string) (model.Classification, error) {
	return model.DefaultClassification(), nil
}

// ClassifyingEnricher asks a Classifier.
//
// A response that arrives but cannot be parsed falls back to medium/General.
// A call that produces no response at all fails with
// ErrClassificationUnavailable.
type ClassifyingEnricher struct {
	classifier Classifier
}

// NewClassifyingEnricher creates a ClassifyingEnricher.
func NewClassifyingEnricher(c Classifier) *ClassifyingEnricher {
	return &ClassifyingEnricher{classifier: c}
}

func (e *ClassifyingEnricher) Enrich(ctx context.Context, text string) (model.Classification, error) {
	c, err := e.classifier.Classify(ctx, text)
	if err != nil {
		if errors.Is(err, classifier.ErrMalformedResponse) {
			slog.WarnContext(ctx, "classification unparsable, using defaults", "error", err)
			return model.DefaultClassification(), nil
		}
		return model.Classification{}, fmt.Errorf("%w: %v", ErrClassificationUnavailable, err)
	}
	return c.Normalize(), nil
}
