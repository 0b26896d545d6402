package handlers

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"

	"github.com/flowerview/flowerview/internal/models"
)

// inspectImage builds the upload passed to the classifier. The bytes are
// forwarded untouched; decoding is only used to log the dimensions, and a
// file that does not decode is still sent.
func inspectImage(data []byte, filename, contentType string) models.Upload {
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Failed to get image dimensions", "filename", filename, "error", err)
	} else {
		slog.Info("Image received", "filename", filename, "format", format, "width", cfg.Width, "height", cfg.Height)
	}

	return models.Upload{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	}
}
