package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/litoralapp/litoral/internal/auth"
	"github.com/litoralapp/litoral/internal/fetch"
	"github.com/litoralapp/litoral/internal/listing"
	"github.com/litoralapp/litoral/internal/post"
	"github.com/litoralapp/litoral/internal/profile"
)

// Section is one dashboard panel's payload. A section that failed to
// load reports its error and Data stays null; an empty section has
// Error "" and an empty Data array. Clients must not confuse the two.
type Section struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error,omitempty"`
}

func section[T any](res fetch.Result[T]) Section {
	if res.Failed() {
		return Section{Error: res.Err.Error()}
	}
	return Section{Data: res.Value}
}

// handleDashboard loads the role-specific dashboard sections in
// parallel. Each section is best-effort: one failing fetch leaves the
// others intact.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rec := auth.RecordFromContext(r)
	if rec == nil {
		apiError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	switch rec.Role {
	case auth.RoleAdmin:
		s.adminDashboard(w, r)
	case auth.RoleRealtor:
		s.realtorDashboard(w, r, rec)
	default:
		s.memberDashboard(w, r, rec)
	}
}

func (s *Server) adminDashboard(w http.ResponseWriter, r *http.Request) {
	g := fetch.NewGroup(r.Context(), 4)

	var pendingRealtors fetch.Result[[]*profile.Realtor]
	var pendingBusinesses fetch.Result[[]*profile.Business]
	var cities fetch.Result[int]
	var properties fetch.Result[int]

	fetch.Go(g, &pendingRealtors, func(ctx context.Context) ([]*profile.Realtor, error) {
		return s.realtors.List(profile.StatusPending)
	})
	fetch.Go(g, &pendingBusinesses, func(ctx context.Context) ([]*profile.Business, error) {
		return s.businesses.List(profile.BusinessListOptions{Status: profile.StatusPending})
	})
	fetch.Go(g, &cities, func(ctx context.Context) (int, error) {
		list, err := s.cities.List()
		return len(list), err
	})
	fetch.Go(g, &properties, func(ctx context.Context) (int, error) {
		list, err := s.properties.List()
		return len(list), err
	})
	g.Wait()

	apiJSON(w, map[string]Section{
		"pending_realtors":   section(pendingRealtors),
		"pending_businesses": section(pendingBusinesses),
		"city_count":         section(cities),
		"property_count":     section(properties),
	}, http.StatusOK)
}

func (s *Server) realtorDashboard(w http.ResponseWriter, r *http.Request, rec *auth.SessionRecord) {
	g := fetch.NewGroup(r.Context(), 4)

	var myListings fetch.Result[[]*listing.Property]
	var myPosts fetch.Result[[]*post.Post]
	var cities fetch.Result[interface{}]

	fetch.Go(g, &myListings, func(ctx context.Context) ([]*listing.Property, error) {
		if rec.RealtorID == nil {
			return nil, nil
		}
		return s.properties.ListByRealtor(*rec.RealtorID)
	})
	fetch.Go(g, &myPosts, func(ctx context.Context) ([]*post.Post, error) {
		return s.posts.ListByAuthor(string(auth.RoleRealtor), rec.ID)
	})
	fetch.Go(g, &cities, func(ctx context.Context) (interface{}, error) {
		return s.cities.List()
	})
	g.Wait()

	apiJSON(w, map[string]Section{
		"listings": section(myListings),
		"posts":    section(myPosts),
		"cities":   section(cities),
	}, http.StatusOK)
}

// memberDashboard serves tourists, businesses, influencers, and service
// providers: their favorites, their posts, and the community feed.
func (s *Server) memberDashboard(w http.ResponseWriter, r *http.Request, rec *auth.SessionRecord) {
	g := fetch.NewGroup(r.Context(), 4)

	var favoriteIDs fetch.Result[[]int64]
	var myPosts fetch.Result[[]*post.Post]
	var feed fetch.Result[[]*post.Post]

	fetch.Go(g, &favoriteIDs, func(ctx context.Context) ([]int64, error) {
		return s.favorites.List(rec.Email)
	})
	fetch.Go(g, &myPosts, func(ctx context.Context) ([]*post.Post, error) {
		return s.posts.ListByAuthor(string(rec.Role), rec.ID)
	})
	fetch.Go(g, &feed, func(ctx context.Context) ([]*post.Post, error) {
		return s.posts.List(20)
	})
	g.Wait()

	apiJSON(w, map[string]Section{
		"favorites": section(favoriteIDs),
		"posts":     section(myPosts),
		"feed":      section(feed),
	}, http.StatusOK)
}

// handleApprovals lists and resolves pending realtor sign-ups.
func (s *Server) handleApprovals(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		pending, err := s.realtors.List(profile.StatusPending)
		if err != nil {
			apiError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if pending == nil {
			pending = make([]*profile.Realtor, 0)
		}
		apiJSON(w, pending, http.StatusOK)
	case http.MethodPost:
		var req struct {
			RealtorID int64  `json:"realtor_id"`
			Status    string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if err := s.realtors.SetStatus(req.RealtorID, profile.ApprovalStatus(req.Status)); err != nil {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
		apiJSON(w, map[string]interface{}{"realtor_id": req.RealtorID, "status": req.Status}, http.StatusOK)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
