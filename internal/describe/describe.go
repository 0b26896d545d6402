// Package describe asks an LLM provider for a class record when no metadata
// service is available.
package describe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/flowerview/flowerview/internal/labels"
	"github.com/flowerview/flowerview/internal/providers"
	"github.com/flowerview/flowerview/internal/render"
)

// ErrNotRecord is returned when the model's reply is valid JSON but not an object.
var ErrNotRecord = errors.New("model reply is not a JSON object")

// Source implements class info lookups on top of a text provider.
type Source struct {
	provider    providers.Provider
	model       string
	temperature float64
	keys        []string
}

// New creates a Source. The label table's keys are offered to the model as
// the preferred field names.
func New(provider providers.Provider, model string, temperature float64, table labels.Table) *Source {
	keys := make([]string, 0, len(table.Fields))
	for k := range table.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Source{
		provider:    provider,
		model:       model,
		temperature: temperature,
		keys:        keys,
	}
}

func (s *Source) ClassInfo(ctx context.Context, classID string) (render.Value, error) {
	prompt := s.buildPrompt(classID)

	slog.Debug("Requesting class description", "class_id", classID, "model", s.model)
	text, err := s.provider.ExtractText(ctx, providers.Config{
		Model:       s.model,
		Temperature: s.temperature,
		Prompt:      prompt,
	})
	if err != nil {
		return render.Value{}, fmt.Errorf("describe %s: %w", classID, err)
	}

	v, err := render.Parse([]byte(stripFences(text)))
	if err != nil {
		return render.Value{}, fmt.Errorf("describe %s: invalid JSON reply: %w", classID, err)
	}
	if v.Kind() != render.KindRecord {
		return render.Value{}, fmt.Errorf("describe %s: %w (got %s)", classID, ErrNotRecord, v.Kind())
	}
	return v, nil
}

func (s *Source) buildPrompt(classID string) string {
	var sb strings.Builder
	sb.WriteString("You are a botanist. Describe the flower class identified by ")
	fmt.Fprintf(&sb, "%q as a single JSON object and nothing else.\n\n", classID)
	sb.WriteString("Rules:\n")
	sb.WriteString("- Use nested objects for grouped facts and arrays for lists.\n")
	sb.WriteString(`- Put the names under "name" with "commonName", "scientificName" and "localName".` + "\n")
	sb.WriteString(`- Put image links, if you know any, in "sampleImageUrl" as an array of full http(s) URLs.` + "\n")
	if len(s.keys) > 0 {
		sb.WriteString("- Prefer these field names where they apply: ")
		sb.WriteString(strings.Join(s.keys, ", "))
		sb.WriteString(".\n")
	}
	sb.WriteString("- Do not wrap the object in markdown.\n")
	return sb.String()
}

// stripFences removes a surrounding markdown code fence, which some models
// add despite being asked not to.
func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		t = ""
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
