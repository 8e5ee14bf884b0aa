package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/litoralapp/litoral/internal/auth"
	"github.com/litoralapp/litoral/internal/post"
	"github.com/litoralapp/litoral/internal/profile"
)

// handleBusinesses lists the local-guide directory, filterable by city,
// category, and approval status.
func (s *Server) handleBusinesses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	opts := profile.BusinessListOptions{}

	for key, dst := range map[string]**int64{
		"city_id":     &opts.CityID,
		"category_id": &opts.CategoryID,
	} {
		if v := q.Get(key); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				apiError(w, fmt.Sprintf("invalid %s", key), http.StatusBadRequest)
				return
			}
			*dst = &n
		}
	}

	if v := q.Get("status"); v != "" {
		if !profile.ValidApprovalStatus(v) {
			apiError(w, "invalid status", http.StatusBadRequest)
			return
		}
		opts.Status = profile.ApprovalStatus(v)
	} else {
		// The public directory shows approved businesses only; admin sees
		// whatever status it asks for.
		opts.Status = profile.StatusApproved
	}

	businesses, err := s.businesses.List(opts)
	if err != nil {
		apiError(w, fmt.Sprintf("listing businesses: %v", err), http.StatusInternalServerError)
		return
	}
	if businesses == nil {
		businesses = make([]*profile.Business, 0)
	}

	apiJSON(w, businesses, http.StatusOK)
}

// handleBusinessRoute routes /api/businesses/{id} and {id}/status.
func (s *Server) handleBusinessRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/businesses/")

	if strings.HasSuffix(path, "/status") {
		s.apiSetBusinessStatus(w, r, strings.TrimSuffix(path, "/status"))
		return
	}

	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		apiError(w, "invalid business ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		b, err := s.businesses.GetByID(id)
		if err != nil {
			apiError(w, "business not found", http.StatusNotFound)
			return
		}
		apiJSON(w, b, http.StatusOK)
	case http.MethodPut:
		s.apiUpdateBusiness(w, r, id)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) apiUpdateBusiness(w http.ResponseWriter, r *http.Request, id int64) {
	rec := auth.RecordFromContext(r)
	owns := rec != nil && rec.Role == auth.RoleBusiness && rec.BusinessID != nil && *rec.BusinessID == id
	if !owns && (rec == nil || rec.Role != auth.RoleAdmin) {
		apiError(w, "not your business", http.StatusForbidden)
		return
	}

	var b profile.Business
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	b.ID = id

	if err := s.businesses.Update(&b); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := s.businesses.GetByID(id)
	if err != nil {
		apiError(w, "business not found", http.StatusNotFound)
		return
	}
	apiJSON(w, updated, http.StatusOK)
}

// apiSetBusinessStatus approves or rejects a business (admin only).
func (s *Server) apiSetBusinessStatus(w http.ResponseWriter, r *http.Request, idStr string) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !requireAdmin(w, r) {
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		apiError(w, "invalid business ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := s.businesses.SetStatus(id, profile.ApprovalStatus(req.Status)); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	apiJSON(w, map[string]interface{}{"id": id, "status": req.Status}, http.StatusOK)
}

// handleServiceProviders lists providers, filterable by city.
func (s *Server) handleServiceProviders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var cityID *int64
	if v := r.URL.Query().Get("city_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			apiError(w, "invalid city_id", http.StatusBadRequest)
			return
		}
		cityID = &n
	}

	providers, err := s.providers.List(cityID)
	if err != nil {
		apiError(w, fmt.Sprintf("listing providers: %v", err), http.StatusInternalServerError)
		return
	}
	if providers == nil {
		providers = make([]*profile.ServiceProvider, 0)
	}

	apiJSON(w, providers, http.StatusOK)
}

// handlePosts routes /api/posts — feed or create.
func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				apiError(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		posts, err := s.posts.List(limit)
		if err != nil {
			apiError(w, fmt.Sprintf("listing posts: %v", err), http.StatusInternalServerError)
			return
		}
		if posts == nil {
			posts = make([]*post.Post, 0)
		}
		apiJSON(w, posts, http.StatusOK)
	case http.MethodPost:
		rec := auth.RecordFromContext(r)
		if rec == nil {
			apiError(w, "not logged in", http.StatusUnauthorized)
			return
		}

		var req struct {
			Body     string `json:"body"`
			ImageURL string `json:"image_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		created, err := s.posts.Create(&post.Post{
			AuthorRole: string(rec.Role),
			AuthorID:   rec.ID,
			AuthorName: rec.FullName,
			Body:       req.Body,
			ImageURL:   req.ImageURL,
		})
		if err != nil {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
		apiJSON(w, created, http.StatusCreated)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handlePostRoute routes /api/posts/{id}.
func (s *Server) handlePostRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r.URL.Path, "/api/posts/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := s.posts.GetByID(id)
		if err != nil {
			apiError(w, "post not found", http.StatusNotFound)
			return
		}
		apiJSON(w, p, http.StatusOK)
	case http.MethodDelete:
		rec := auth.RecordFromContext(r)
		if rec == nil {
			apiError(w, "not logged in", http.StatusUnauthorized)
			return
		}
		if rec.Role == auth.RoleAdmin {
			p, err := s.posts.GetByID(id)
			if err != nil {
				apiError(w, "post not found", http.StatusNotFound)
				return
			}
			if err := s.posts.Delete(id, p.AuthorRole, p.AuthorID); err != nil {
				apiError(w, err.Error(), http.StatusNotFound)
				return
			}
		} else if err := s.posts.Delete(id, string(rec.Role), rec.ID); err != nil {
			apiError(w, err.Error(), http.StatusForbidden)
			return
		}
		apiJSON(w, map[string]interface{}{"id": id, "removed": true}, http.StatusOK)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
