// Package session holds the interaction state of one viewer session and the
// transitions driven by user actions and service responses.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/flowerview/flowerview/internal/models"
	"github.com/flowerview/flowerview/internal/providers"
	"github.com/flowerview/flowerview/internal/render"
)

// User-visible messages.
const (
	MsgNoFile     = "Please select an image file."
	MsgFileFailed = "Failed to get predictions for file upload."
	MsgURLFailed  = "Failed to get predictions for URL."
	MsgInfoFailed = "Failed to get flower info."
)

var (
	// ErrNoFile is returned by SubmitFile when no file has been selected.
	ErrNoFile = errors.New("no file selected")
	// ErrNoPredictions is returned by SelectPrediction before any prediction exists.
	ErrNoPredictions = errors.New("no predictions to inspect")
	// ErrStale marks a response that arrived after a newer request was issued.
	ErrStale = errors.New("response superseded by a newer request")
)

// Phase is the submission state.
type Phase int

const (
	Idle Phase = iota
	Submitting
	Predicted
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Predicted:
		return "predicted"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText lets a Phase appear by name in JSON snapshots.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is a snapshot of one session.
type State struct {
	Phase       Phase               `json:"phase"`
	File        *models.Upload      `json:"file,omitempty"`
	URL         string              `json:"url"`
	Err         string              `json:"error,omitempty"`
	Predictions []models.Prediction `json:"predictions"`
	Detail      *render.Value       `json:"detail,omitempty"`
}

// DetailOpen reports whether the detail view is showing a record.
func (s State) DetailOpen() bool {
	return s.Detail != nil
}

// Machine owns a session's State. Its mutex is never held across a remote
// call; every call is tagged with a generation and a response is applied
// only if no newer call of the same kind was issued after it.
type Machine struct {
	mu         sync.Mutex
	classifier providers.Classifier
	info       providers.InfoSource
	logger     *slog.Logger

	state      State
	predictGen uint64
	detailGen  uint64
}

func New(classifier providers.Classifier, info providers.InfoSource) *Machine {
	return &Machine{
		classifier: classifier,
		info:       info,
		logger:     slog.Default(),
		state:      State{Predictions: []models.Prediction{}},
	}
}

// WithLogger replaces the logger used for service failures.
func (m *Machine) WithLogger(logger *slog.Logger) *Machine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
	return m
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state
	s.Predictions = make([]models.Prediction, len(m.state.Predictions))
	copy(s.Predictions, m.state.Predictions)
	if m.state.File != nil {
		f := *m.state.File
		s.File = &f
	}
	if m.state.Detail != nil {
		d := *m.state.Detail
		s.Detail = &d
	}
	return s
}

// SelectFile stores the pending file. The URL text is left as is.
func (m *Machine) SelectFile(upload models.Upload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.File = &upload
}

// EditURL stores the pending URL text. The selected file is left as is.
func (m *Machine) EditURL(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.URL = url
}

// SubmitFile sends the selected file for classification.
func (m *Machine) SubmitFile(ctx context.Context) error {
	m.mu.Lock()
	if m.state.File == nil {
		m.state.Phase = Failed
		m.state.Err = MsgNoFile
		m.mu.Unlock()
		return ErrNoFile
	}
	upload := *m.state.File
	gen := m.beginPredict()
	m.mu.Unlock()

	preds, err := m.classifier.PredictFile(ctx, upload)
	return m.finishPredict(gen, preds, err, MsgFileFailed)
}

// SubmitURL sends the current URL text for classification. The text is not
// validated locally.
func (m *Machine) SubmitURL(ctx context.Context) error {
	m.mu.Lock()
	url := m.state.URL
	gen := m.beginPredict()
	m.mu.Unlock()

	preds, err := m.classifier.PredictURL(ctx, url)
	return m.finishPredict(gen, preds, err, MsgURLFailed)
}

// SelectPrediction looks up the record for classID and opens the detail view.
func (m *Machine) SelectPrediction(ctx context.Context, classID string) error {
	m.mu.Lock()
	if len(m.state.Predictions) == 0 {
		m.mu.Unlock()
		return ErrNoPredictions
	}
	m.detailGen++
	gen := m.detailGen
	m.mu.Unlock()

	record, err := m.info.ClassInfo(ctx, classID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.detailGen {
		m.logger.Debug("Discarding stale class info response", "class_id", classID, "generation", gen, "latest", m.detailGen)
		return ErrStale
	}
	if err != nil {
		m.logger.Error("Failed to get class info", "class_id", classID, "err", err)
		m.state.Err = MsgInfoFailed
		return fmt.Errorf("class info for %q: %w", classID, err)
	}
	m.state.Detail = &record
	m.state.Err = ""
	return nil
}

// CloseDetail hides the detail view. Predictions, inputs and the error
// message are untouched.
func (m *Machine) CloseDetail() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Detail = nil
}

// beginPredict must be called with m.mu held.
func (m *Machine) beginPredict() uint64 {
	m.predictGen++
	m.state.Phase = Submitting
	return m.predictGen
}

func (m *Machine) finishPredict(gen uint64, preds []models.Prediction, err error, failMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.predictGen {
		m.logger.Debug("Discarding stale prediction response", "generation", gen, "latest", m.predictGen)
		return ErrStale
	}
	if err != nil {
		m.logger.Error("Prediction request failed", "err", err)
		m.state.Err = failMsg
		m.state.Phase = Failed
		return err
	}
	if preds == nil {
		preds = []models.Prediction{}
	}
	m.state.Predictions = preds
	m.state.Err = ""
	m.state.Phase = Predicted
	return nil
}
