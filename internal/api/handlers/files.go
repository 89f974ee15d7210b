package handlers

import (
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"golistarr/internal/services/filestore"
)

// maxUploadSize caps list exports at 10 MB
const maxUploadSize = 10 << 20

// FilesHandler handles list export uploads
type FilesHandler struct {
	files  *filestore.Store
	logger *logrus.Logger
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(files *filestore.Store, logger *logrus.Logger) *FilesHandler {
	return &FilesHandler{files: files, logger: logger}
}

// Upload handles POST /api/files, accepting a multipart form with a "file" part
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file part", http.StatusBadRequest)
		return
	}
	defer part.Close()

	content, err := io.ReadAll(part)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read uploaded file")
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return
	}

	file, err := h.files.Save(user, header.Filename, content)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, file)
}
