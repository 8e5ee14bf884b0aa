package web

import (
	"net/http"

	"github.com/litoralapp/litoral/internal/auth"
	"github.com/litoralapp/litoral/internal/upload"
)

// handleUpload accepts one multipart image and stores it, returning its
// public URL. The kind query parameter selects the size cap.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if auth.RecordFromContext(r) == nil {
		apiError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	kind := upload.Kind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = upload.KindAvatar
	}

	if err := r.ParseMultipartForm(kind.MaxBytes()); err != nil {
		apiError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		apiError(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	url, err := s.uploads.Save(kind, file, header)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	apiJSON(w, map[string]string{"url": url}, http.StatusCreated)
}
