package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/flowerview/flowerview/internal/render"
	"github.com/flowerview/flowerview/internal/results"
	"github.com/flowerview/flowerview/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// pageData is everything the page template reads. It is built from a
// snapshot, so rendering never touches live session state.
type pageData struct {
	State      session.State
	Submitting bool
	Rows       []results.Row
	Detail     *render.Detail
}

func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	state := h.machineFor(w, r).Snapshot()

	data := pageData{
		State:      state,
		Submitting: state.Phase == session.Submitting,
		Rows:       results.Rows(state.Predictions),
	}
	if state.Detail != nil {
		d := h.renderer.RenderTopLevel(*state.Detail)
		data.Detail = &d
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		slog.Error("Unable to render page", "err", err)
	}
}

// HandleStatic serves the embedded stylesheet under /static/.
func (h *Handler) HandleStatic() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
