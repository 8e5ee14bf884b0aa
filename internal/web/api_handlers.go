package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/litoralapp/litoral/internal/auth"
	"github.com/litoralapp/litoral/internal/email"
	"github.com/litoralapp/litoral/internal/listing"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// filterFromQuery parses the listing filter state from query parameters.
func filterFromQuery(q url.Values) (listing.FilterState, error) {
	f := listing.FilterState{
		Tab:       q.Get("tab"),
		Query:     q.Get("q"),
		Type:      q.Get("type"),
		Bedrooms:  q.Get("bedrooms"),
		Bathrooms: q.Get("bathrooms"),
		Sort:      q.Get("sort"),
	}

	for key, dst := range map[string]*int64{
		"city_id":     &f.CityID,
		"category_id": &f.CategoryID,
		"min_price":   &f.MinPrice,
		"max_price":   &f.MaxPrice,
	} {
		if v := q.Get(key); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 0 {
				return f, fmt.Errorf("invalid %s %q", key, v)
			}
			*dst = n
		}
	}

	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

// handleProperties routes /api/properties — filtered list or create.
func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.apiListProperties(w, r)
	case http.MethodPost:
		s.apiCreateProperty(w, r)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// apiListProperties returns the filtered, sorted listing collection.
// Every request refilters the full collection from scratch.
func (s *Server) apiListProperties(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r.URL.Query())
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	all, err := s.properties.List()
	if err != nil {
		apiError(w, fmt.Sprintf("listing properties: %v", err), http.StatusInternalServerError)
		return
	}

	var favs map[int64]bool
	if rec := auth.RecordFromContext(r); rec != nil {
		favs, err = s.favorites.Set(rec.Email)
		if err != nil {
			apiError(w, fmt.Sprintf("loading favorites: %v", err), http.StatusInternalServerError)
			return
		}
	}

	items := listing.Apply(all, f, favs)
	if items == nil {
		items = make([]*listing.Property, 0)
	}

	type response struct {
		Items []*listing.Property `json:"items"`
		Total int                 `json:"total"`
		Chips []listing.Chip      `json:"chips"`
	}
	apiJSON(w, response{Items: items, Total: len(items), Chips: listing.Chips(f)}, http.StatusOK)
}

// apiCreateProperty publishes a listing for the authenticated realtor.
func (s *Server) apiCreateProperty(w http.ResponseWriter, r *http.Request) {
	rec := auth.RecordFromContext(r)
	if rec == nil || (rec.Role != auth.RoleRealtor && rec.Role != auth.RoleAdmin) {
		apiError(w, "only realtors can publish listings", http.StatusForbidden)
		return
	}

	var p listing.Property
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if rec.Role == auth.RoleRealtor {
		p.RealtorID = rec.RealtorID
		if p.RealtorID == nil {
			// Token-authenticated requests carry no profile IDs.
			if rl, err := s.realtors.GetByEmail(rec.Email); err == nil && rl != nil {
				p.RealtorID = &rl.ID
			}
		}
	}

	created, err := s.properties.Create(&p)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	apiJSON(w, created, http.StatusCreated)
}

// handlePropertyRoute routes /api/properties/{id} and its subresources.
func (s *Server) handlePropertyRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/properties/")

	if strings.HasSuffix(path, "/favorite") {
		s.apiToggleFavorite(w, r, strings.TrimSuffix(path, "/favorite"))
		return
	}
	if strings.HasSuffix(path, "/inquiry") {
		s.apiSendInquiry(w, r, strings.TrimSuffix(path, "/inquiry"))
		return
	}

	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		apiError(w, "invalid property ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.apiGetProperty(w, id)
	case http.MethodPut:
		s.apiUpdateProperty(w, r, id)
	case http.MethodDelete:
		s.apiDeleteProperty(w, r, id)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) apiGetProperty(w http.ResponseWriter, id int64) {
	p, err := s.properties.GetByID(id)
	if err != nil {
		apiError(w, "property not found", http.StatusNotFound)
		return
	}
	apiJSON(w, p, http.StatusOK)
}

// canEditProperty checks listing ownership: realtors may only touch
// their own listings, admin may touch all.
func (s *Server) canEditProperty(rec *auth.SessionRecord, p *listing.Property) bool {
	if rec == nil {
		return false
	}
	if rec.Role == auth.RoleAdmin {
		return true
	}
	if rec.Role != auth.RoleRealtor {
		return false
	}

	realtorID := rec.RealtorID
	if realtorID == nil {
		// Token-authenticated requests carry no profile IDs.
		rl, err := s.realtors.GetByEmail(rec.Email)
		if err != nil || rl == nil {
			return false
		}
		realtorID = &rl.ID
	}
	return p.RealtorID != nil && *p.RealtorID == *realtorID
}

func (s *Server) apiUpdateProperty(w http.ResponseWriter, r *http.Request, id int64) {
	existing, err := s.properties.GetByID(id)
	if err != nil {
		apiError(w, "property not found", http.StatusNotFound)
		return
	}
	if !s.canEditProperty(auth.RecordFromContext(r), existing) {
		apiError(w, "not your listing", http.StatusForbidden)
		return
	}

	var p listing.Property
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	p.ID = id
	p.RealtorID = existing.RealtorID

	if err := s.properties.Update(&p); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := s.properties.GetByID(id)
	if err != nil {
		apiError(w, "property not found", http.StatusNotFound)
		return
	}
	apiJSON(w, updated, http.StatusOK)
}

func (s *Server) apiDeleteProperty(w http.ResponseWriter, r *http.Request, id int64) {
	existing, err := s.properties.GetByID(id)
	if err != nil {
		apiError(w, "property not found", http.StatusNotFound)
		return
	}
	if !s.canEditProperty(auth.RecordFromContext(r), existing) {
		apiError(w, "not your listing", http.StatusForbidden)
		return
	}

	if err := s.properties.Delete(id); err != nil {
		apiError(w, fmt.Sprintf("deleting property: %v", err), http.StatusInternalServerError)
		return
	}
	apiJSON(w, map[string]interface{}{"id": id, "removed": true}, http.StatusOK)
}

// apiToggleFavorite flips favorite membership for the logged-in account.
func (s *Server) apiToggleFavorite(w http.ResponseWriter, r *http.Request, idStr string) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rec := auth.RecordFromContext(r)
	if rec == nil {
		apiError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		apiError(w, "invalid property ID", http.StatusBadRequest)
		return
	}
	if _, err := s.properties.GetByID(id); err != nil {
		apiError(w, "property not found", http.StatusNotFound)
		return
	}

	favorite, err := s.favorites.Toggle(rec.Email, id)
	if err != nil {
		apiError(w, fmt.Sprintf("toggling favorite: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{"id": id, "favorite": favorite}, http.StatusOK)
}

// apiSendInquiry mails a visitor's message to the listing realtor.
func (s *Server) apiSendInquiry(w http.ResponseWriter, r *http.Request, idStr string) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		apiError(w, "invalid property ID", http.StatusBadRequest)
		return
	}

	p, err := s.properties.GetByID(id)
	if err != nil {
		apiError(w, "property not found", http.StatusNotFound)
		return
	}
	if p.RealtorID == nil {
		apiError(w, "listing has no contact", http.StatusConflict)
		return
	}

	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		apiError(w, "name and email are required", http.StatusBadRequest)
		return
	}

	realtor, err := s.realtors.GetByID(*p.RealtorID)
	if err != nil {
		apiError(w, "listing has no contact", http.StatusConflict)
		return
	}

	body := email.FormatInquiry(email.Inquiry{
		Property: p,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Message:  req.Message,
	}, s.config.BaseURL)
	subject := fmt.Sprintf("New inquiry: %s", p.Title)

	if s.config.DevMode && !s.smtp.IsConfigured() {
		fmt.Printf("--- inquiry for %s ---\n%s\n", realtor.Email, body)
		apiJSON(w, map[string]string{"status": "sent"}, http.StatusOK)
		return
	}
	if !s.smtp.IsConfigured() {
		apiError(w, "inquiries are not available", http.StatusServiceUnavailable)
		return
	}

	if err := email.Send(s.smtp, []string{realtor.Email}, subject, body); err != nil {
		slog.Error("sending inquiry", "property", id, "error", err)
		apiError(w, "sending inquiry failed", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]string{"status": "sent"}, http.StatusOK)
}

// handleFavorites lists the account's favorite properties.
func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rec := auth.RecordFromContext(r)
	if rec == nil {
		apiError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	ids, err := s.favorites.List(rec.Email)
	if err != nil {
		apiError(w, fmt.Sprintf("listing favorites: %v", err), http.StatusInternalServerError)
		return
	}

	items := make([]*listing.Property, 0, len(ids))
	for _, id := range ids {
		p, err := s.properties.GetByID(id)
		if err != nil {
			continue // property deleted since favoriting
		}
		items = append(items, p)
	}

	apiJSON(w, items, http.StatusOK)
}

// handleCompare returns the session's compare selection with full
// property details.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cl := s.compareList(r)
	if cl == nil {
		apiJSON(w, []*listing.Property{}, http.StatusOK)
		return
	}

	items := make([]*listing.Property, 0, listing.CompareCap)
	for _, id := range cl.IDs() {
		p, err := s.properties.GetByID(id)
		if err != nil {
			continue
		}
		items = append(items, p)
	}

	apiJSON(w, items, http.StatusOK)
}

// handleCompareToggle flips compare membership for /api/compare/{id}.
func (s *Server) handleCompareToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/compare/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		apiError(w, "invalid property ID", http.StatusBadRequest)
		return
	}

	cl := s.compareList(r)
	if cl == nil {
		apiError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	in, err := cl.Toggle(id)
	if err != nil {
		if errors.Is(err, listing.ErrCompareFull) {
			// A full list is a user-facing warning, not a failure.
			apiJSON(w, map[string]interface{}{
				"id":       id,
				"compared": false,
				"warning":  fmt.Sprintf("you can compare at most %d properties", listing.CompareCap),
			}, http.StatusOK)
			return
		}
		apiError(w, fmt.Sprintf("toggling compare: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{"id": id, "compared": in}, http.StatusOK)
}
