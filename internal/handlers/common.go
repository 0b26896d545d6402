package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/flowerview/flowerview/internal/render"
	"github.com/flowerview/flowerview/internal/session"
	"github.com/flowerview/flowerview/internal/storage"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "flowerview_session"

type Handler struct {
	sessionStore *storage.SessionStore
	renderer     *render.Renderer
	maxUpload    int64
}

func New(store *storage.SessionStore, renderer *render.Renderer, maxUpload int64) *Handler {
	return &Handler{
		sessionStore: store,
		renderer:     renderer,
		maxUpload:    maxUpload,
	}
}

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("POST /predict/file", h.HandlePredictFile)
	mux.HandleFunc("POST /predict/url", h.HandlePredictURL)
	mux.HandleFunc("POST /detail", h.HandleDetail)
	mux.HandleFunc("POST /detail/close", h.HandleCloseDetail)
	mux.HandleFunc("GET /api/session", h.HandleSession)
	mux.Handle("GET /static/", h.HandleStatic())
	mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// Session helpers

// machineFor returns the caller's state machine, starting a new session and
// setting the cookie when the request carries no live session id.
func (h *Handler) machineFor(w http.ResponseWriter, r *http.Request) *session.Machine {
	var current string
	if c, err := r.Cookie(SessionCookie); err == nil {
		current = c.Value
	}

	id, machine, created := h.sessionStore.GetOrCreate(current)
	if created {
		slog.Debug("Session started", "session_id", id)
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return machine
}

// respond finishes a state-changing request: JSON clients get the new
// snapshot, browsers are redirected back to the page.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, machine *session.Machine, err error) {
	if err != nil && !errors.Is(err, session.ErrStale) {
		slog.Debug("Session action failed", "path", r.URL.Path, "err", err)
	}
	if wantsJSON(r) {
		h.writeJSON(w, machine.Snapshot())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// serviceContext is the context for backend calls made on behalf of r. It
// keeps r's values but not its cancellation, so a call still completes and
// updates the session after the browser disconnects.
func serviceContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
