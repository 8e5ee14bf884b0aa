package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/litoralapp/litoral/internal/auth"
	"github.com/litoralapp/litoral/internal/place"
)

// requireAdmin gates catalog mutations.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	rec := auth.RecordFromContext(r)
	if rec == nil || rec.Role != auth.RoleAdmin {
		apiError(w, "admin only", http.StatusForbidden)
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, path, prefix string) (int64, bool) {
	idStr := strings.TrimPrefix(path, prefix)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		apiError(w, "invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// handleCities routes /api/cities — list or create.
func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cities, err := s.cities.List()
		if err != nil {
			apiError(w, fmt.Sprintf("listing cities: %v", err), http.StatusInternalServerError)
			return
		}
		if cities == nil {
			cities = make([]*place.City, 0)
		}
		apiJSON(w, cities, http.StatusOK)
	case http.MethodPost:
		if !requireAdmin(w, r) {
			return
		}
		var c place.City
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			apiError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		created, err := s.cities.Create(&c)
		if err != nil {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
		apiJSON(w, created, http.StatusCreated)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCityRoute routes /api/cities/{id}.
func (s *Server) handleCityRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r.URL.Path, "/api/cities/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := s.cities.GetByID(id)
		if err != nil {
			apiError(w, "city not found", http.StatusNotFound)
			return
		}
		apiJSON(w, c, http.StatusOK)
	case http.MethodPut:
		if !requireAdmin(w, r) {
			return
		}
		var c place.City
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			apiError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		c.ID = id
		if err := s.cities.Update(&c); err != nil {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
		apiJSON(w, c, http.StatusOK)
	case http.MethodDelete:
		if !requireAdmin(w, r) {
			return
		}
		if err := s.cities.Delete(id); err != nil {
			apiError(w, err.Error(), http.StatusNotFound)
			return
		}
		apiJSON(w, map[string]interface{}{"id": id, "removed": true}, http.StatusOK)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleBeaches routes /api/beaches — list (optionally ?city_id=) or create.
func (s *Server) handleBeaches(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var cityID int64
		if v := r.URL.Query().Get("city_id"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				apiError(w, "invalid city_id", http.StatusBadRequest)
				return
			}
			cityID = n
		}
		beaches, err := s.beaches.List(cityID)
		if err != nil {
			apiError(w, fmt.Sprintf("listing beaches: %v", err), http.StatusInternalServerError)
			return
		}
		if beaches == nil {
			beaches = make([]*place.Beach, 0)
		}
		apiJSON(w, beaches, http.StatusOK)
	case http.MethodPost:
		if !requireAdmin(w, r) {
			return
		}
		var b place.Beach
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			apiError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		created, err := s.beaches.Create(&b)
		if err != nil {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
		apiJSON(w, created, http.StatusCreated)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleBeachRoute routes /api/beaches/{id}.
func (s *Server) handleBeachRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r.URL.Path, "/api/beaches/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		b, err := s.beaches.GetByID(id)
		if err != nil {
			apiError(w, "beach not found", http.StatusNotFound)
			return
		}
		apiJSON(w, b, http.StatusOK)
	case http.MethodPut:
		if !requireAdmin(w, r) {
			return
		}
		var b place.Beach
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			apiError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		b.ID = id
		if err := s.beaches.Update(&b); err != nil {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
		apiJSON(w, b, http.StatusOK)
	case http.MethodDelete:
		if !requireAdmin(w, r) {
			return
		}
		if err := s.beaches.Delete(id); err != nil {
			apiError(w, err.Error(), http.StatusNotFound)
			return
		}
		apiJSON(w, map[string]interface{}{"id": id, "removed": true}, http.StatusOK)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCategories routes /api/categories — list or create.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		categories, err := s.categories.List()
		if err != nil {
			apiError(w, fmt.Sprintf("listing categories: %v", err), http.StatusInternalServerError)
			return
		}
		if categories == nil {
			categories = make([]*place.Category, 0)
		}
		apiJSON(w, categories, http.StatusOK)
	case http.MethodPost:
		if !requireAdmin(w, r) {
			return
		}
		var c place.Category
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			apiError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		created, err := s.categories.Create(&c)
		if err != nil {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
		apiJSON(w, created, http.StatusCreated)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCategoryRoute routes /api/categories/{id}.
func (s *Server) handleCategoryRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r.URL.Path, "/api/categories/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := s.categories.GetByID(id)
		if err != nil {
			apiError(w, "category not found", http.StatusNotFound)
			return
		}
		apiJSON(w, c, http.StatusOK)
	case http.MethodDelete:
		if !requireAdmin(w, r) {
			return
		}
		if err := s.categories.Delete(id); err != nil {
			apiError(w, err.Error(), http.StatusNotFound)
			return
		}
		apiJSON(w, map[string]interface{}{"id": id, "removed": true}, http.StatusOK)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
