package handlers

import (
	"errors"
	"net/http"

	"github.com/flowerview/flowerview/internal/session"
)

// HandleDetail opens the detail view for the posted class_id.
func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, "Failed to read form: "+err.Error(), http.StatusBadRequest)
		return
	}
	classID := r.PostFormValue("class_id")
	if classID == "" {
		h.writeError(w, "class_id is required", http.StatusBadRequest)
		return
	}

	machine := h.machineFor(w, r)
	err := machine.SelectPrediction(serviceContext(r), classID)
	if errors.Is(err, session.ErrNoPredictions) {
		h.writeError(w, "No predictions to inspect", http.StatusConflict)
		return
	}
	h.respond(w, r, machine, err)
}

func (h *Handler) HandleCloseDetail(w http.ResponseWriter, r *http.Request) {
	machine := h.machineFor(w, r)
	machine.CloseDetail()
	h.respond(w, r, machine, nil)
}

// HandleSession returns the session snapshot as JSON.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.machineFor(w, r).Snapshot())
}
