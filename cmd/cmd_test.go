package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/flowerview/flowerview/internal/config"
	"github.com/flowerview/flowerview/internal/labels"
	"github.com/flowerview/flowerview/internal/logging"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict_url/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"top5_predictions": [
			{"class": "Rose", "class_id": "r1", "confidence": 0.9},
			{"class": "Lily", "class_id": "l1", "confidence": 0.0}
		]}`))
	})
	mux.HandleFunc("POST /predict_image_file/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"top5_predictions": [{"class": "Tulip", "class_id": "t1", "confidence": 0.5}]}`))
	})
	mux.HandleFunc("POST /flower_info/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": {"commonName": "Rose"}, "color": "red", "sampleImageUrl": "https://img.example/r.jpg"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPredictURL(t *testing.T) {
	backend := newBackend(t)
	out, err := run(t, "predict", "--url", "http://img.example/rose.jpg", "--backend", backend.URL)
	require.NoError(t, err)
	assert.Equal(t, "1. Rose: 90.00% (r1)\n", out)
}

func TestPredictFileWithInfo(t *testing.T) {
	backend := newBackend(t)
	path := filepath.Join(t.TempDir(), "tulip.jpg")
	require.NoError(t, os.WriteFile(path, []byte("image bytes"), 0644))

	out, err := run(t, "predict", "--file", path, "--info", "--backend", backend.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "1. Tulip: 50.00% (t1)")
	assert.Contains(t, out, "Rose\n====")
	assert.Contains(t, out, "Màu sắc: red")
	assert.Contains(t, out, "<https://img.example/r.jpg>")
}

func TestPredictRequiresOneInput(t *testing.T) {
	_, err := run(t, "predict")
	assert.Error(t, err)

	_, err = run(t, "predict", "--file", "a.jpg", "--url", "http://x")
	assert.Error(t, err)
}

func TestPredictBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := run(t, "predict", "--url", "u", "--backend", server.URL)
	assert.ErrorContains(t, err, "Failed to get predictions for URL.")
}

func TestInfoFromCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowers.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"class_id": "r1", "info": {"name": {"commonName": "Rose"}, "petal": {"count": 5}}}`+"\n"), 0644))

	out, err := run(t, "info", "r1", "--info-provider", "catalog", "--catalog", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Rose\n====")
	assert.Contains(t, out, "Cánh hoa:")
	assert.Contains(t, out, "Số lượng: 5")

	out, err = run(t, "info", "r1", "--info-provider", "catalog", "--catalog", path, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": {"commonName": "Rose"}, "petal": {"count": 5}}`, out)

	_, err = run(t, "info", "zz", "--info-provider", "catalog", "--catalog", path)
	assert.Error(t, err)
}

func TestLabels(t *testing.T) {
	out, err := run(t, "labels")
	require.NoError(t, err)

	var table struct {
		Fields          map[string]string `yaml:"fields"`
		FallbackHeading string            `yaml:"fallback_heading"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &table))
	assert.Equal(t, "Tên", table.Fields["name"])
	assert.Equal(t, "Flower Information", table.FallbackHeading)
}

func TestEvictInterval(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{ttl: 24 * time.Hour, want: 12 * time.Hour},
		{ttl: 2 * time.Second, want: time.Second},
		{ttl: time.Second, want: time.Second},
		{ttl: time.Nanosecond, want: time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evictInterval(tt.ttl), "ttl %s", tt.ttl)
	}
}

func TestCatalogSourceLogsLoadOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowers.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"class_id": "r1", "info": {"color": "red"}}`+"\n"), 0644))

	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(logging.New(&buf, "text", slog.LevelDebug))
	t.Cleanup(func() { slog.SetDefault(previous) })

	src, err := newInfoSource(config.InfoConfig{Provider: "catalog", Catalog: path}, nil, labels.Default())
	require.NoError(t, err)
	require.NotNil(t, src)
	assert.Equal(t, 1, strings.Count(buf.String(), "Class catalog loaded"))
}
