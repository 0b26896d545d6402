package session

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/flowerview/flowerview/internal/models"
	"github.com/flowerview/flowerview/internal/render"
)

// MockClassifier is a mock implementation of providers.Classifier.
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) PredictFile(ctx context.Context, upload models.Upload) ([]models.Prediction, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Prediction), args.Error(1)
}

func (m *MockClassifier) PredictURL(ctx context.Context, imageURL string) ([]models.Prediction, error) {
	args := m.Called(ctx, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Prediction), args.Error(1)
}

// MockInfoSource is a mock implementation of providers.InfoSource.
type MockInfoSource struct {
	mock.Mock
}

func (m *MockInfoSource) ClassInfo(ctx context.Context, classID string) (render.Value, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).(render.Value), args.Error(1)
}
