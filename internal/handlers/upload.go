package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/flowerview/flowerview/internal/models"
)

// HandlePredictFile selects the uploaded file, when one is attached, and
// submits the session's pending file for classification.
func (h *Handler) HandlePredictFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, fmt.Sprintf("File too large (max %d bytes)", h.maxUpload), http.StatusRequestEntityTooLarge)
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			h.writeError(w, "Failed to read form: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	machine := h.machineFor(w, r)

	upload, err := readUpload(r)
	switch {
	case err == nil:
		machine.SelectFile(upload)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// resubmit whatever file the session already holds
	default:
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.respond(w, r, machine, machine.SubmitFile(serviceContext(r)))
}

// HandlePredictURL stores the submitted URL text and classifies it as is.
func (h *Handler) HandlePredictURL(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, "Failed to read form: "+err.Error(), http.StatusBadRequest)
		return
	}

	machine := h.machineFor(w, r)
	machine.EditURL(r.PostFormValue("image_url"))
	h.respond(w, r, machine, machine.SubmitURL(serviceContext(r)))
}

func readUpload(r *http.Request) (models.Upload, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return models.Upload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.Upload{}, fmt.Errorf("failed to read file contents: %w", err)
	}

	return inspectImage(data, header.Filename, header.Header.Get("Content-Type")), nil
}
