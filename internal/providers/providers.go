package providers

import (
	"context"

	"github.com/flowerview/flowerview/internal/models"
	"github.com/flowerview/flowerview/internal/render"
)

// Classifier ranks an image against the known flower classes
type Classifier interface {
	PredictFile(ctx context.Context, upload models.Upload) ([]models.Prediction, error)
	PredictURL(ctx context.Context, imageURL string) ([]models.Prediction, error)
}

// InfoSource returns the descriptive record for one class
type InfoSource interface {
	ClassInfo(ctx context.Context, classID string) (render.Value, error)
}

// Config represents the configuration for an LLM provider
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
}

// Provider defines the interface for an LLM provider
type Provider interface {
	ExtractText(ctx context.Context, config Config) (string, error)
}
