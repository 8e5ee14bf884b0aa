package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/litoralapp/litoral/internal/auth"
)

// handleAPIKeys lists or creates API keys for the logged-in account.
// The middleware guarantees these paths carry a browser session.
func (s *Server) handleAPIKeys(w http.ResponseWriter, r *http.Request) {
	rec := auth.RecordFromContext(r)
	if rec == nil {
		apiError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		keys, err := s.apiKeys.ListByEmail(rec.Email)
		if err != nil {
			apiError(w, "listing keys", http.StatusInternalServerError)
			return
		}
		if keys == nil {
			keys = make([]auth.APIKey, 0)
		}
		apiJSON(w, keys, http.StatusOK)
	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			apiError(w, "name is required", http.StatusBadRequest)
			return
		}

		raw, key, err := s.apiKeys.Create(rec.Email, strings.TrimSpace(req.Name))
		if err != nil {
			apiError(w, "creating key", http.StatusInternalServerError)
			return
		}

		// The raw key is shown exactly once.
		type response struct {
			Key *auth.APIKey `json:"key"`
			Raw string       `json:"raw"`
		}
		apiJSON(w, response{Key: key, Raw: raw}, http.StatusCreated)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAPIKeyDelete revokes one key at /api/keys/{id}.
func (s *Server) handleAPIKeyDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rec := auth.RecordFromContext(r)
	if rec == nil {
		apiError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/keys/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		apiError(w, "invalid key ID", http.StatusBadRequest)
		return
	}

	if err := s.apiKeys.Delete(id, rec.Email); err != nil {
		apiError(w, "key not found", http.StatusNotFound)
		return
	}

	apiJSON(w, map[string]interface{}{"id": id, "removed": true}, http.StatusOK)
}
