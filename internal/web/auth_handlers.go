package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/litoralapp/litoral/internal/auth"
	"github.com/litoralapp/litoral/internal/profile"
)

type signupRequest struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`

	// Role-specific extras.
	CompanyName   string `json:"company_name"`
	LicenseNumber string `json:"license_number"`
	CityID        *int64 `json:"city_id"`
	CategoryID    *int64 `json:"category_id"`
	Description   string `json:"description"`
	ServiceType   string `json:"service_type"`
	Instagram     string `json:"instagram"`
}

// handleSignup creates a profile for the requested role, registers the
// bcrypt credential, and opens a session.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	role := auth.Role(req.Role)
	if !auth.ValidRole(role) || role == auth.RoleAdmin {
		apiError(w, "invalid role", http.StatusBadRequest)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Name) == "" {
		apiError(w, "name and email are required", http.StatusBadRequest)
		return
	}

	// The password policy runs before any profile row exists, so a
	// rejected signup leaves the email fully reusable.
	if err := auth.ValidatePassword(req.Password); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	existing, err := s.creds.Get(email)
	if err != nil {
		apiError(w, "checking account", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		apiError(w, "an account with this email already exists", http.StatusConflict)
		return
	}

	profileID, err := s.createProfile(role, &req, email)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.creds.Register(email, req.Password, role, profileID); err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
		apiError(w, "creating account", http.StatusInternalServerError)
		return
	}

	rec, err := s.resolver.Resolve(email, req.Password)
	if err != nil {
		apiError(w, "creating session", http.StatusInternalServerError)
		return
	}

	if err := s.sessions.Save(w, rec); err != nil {
		apiError(w, "creating session", http.StatusInternalServerError)
		return
	}

	slog.Info("signup", "email", email, "role", role)
	apiJSON(w, loginResponse{Record: rec, Redirect: rec.Role.DashboardRoute()}, http.StatusCreated)
}

func (s *Server) createProfile(role auth.Role, req *signupRequest, email string) (int64, error) {
	switch role {
	case auth.RoleTourist:
		t, err := s.tourists.Create(&profile.Tourist{Name: req.Name, Email: email, Phone: req.Phone})
		if err != nil {
			return 0, err
		}
		return t.ID, nil
	case auth.RoleRealtor:
		rl, err := s.realtors.Create(&profile.Realtor{
			Name: req.Name, Email: email, Phone: req.Phone,
			CompanyName: req.CompanyName, LicenseNumber: req.LicenseNumber,
		})
		if err != nil {
			return 0, err
		}
		return rl.ID, nil
	case auth.RoleBusiness:
		b, err := s.businesses.Create(&profile.Business{
			BusinessName: req.Name, BusinessEmail: email, Phone: req.Phone,
			CityID: req.CityID, CategoryID: req.CategoryID,
			Description: req.Description, Instagram: req.Instagram,
		})
		if err != nil {
			return 0, err
		}
		return b.ID, nil
	case auth.RoleInfluencer:
		inf, err := s.influencers.Create(&profile.Influencer{Name: req.Name, Email: email})
		if err != nil {
			return 0, err
		}
		return inf.ID, nil
	case auth.RoleServiceProvider:
		sp, err := s.providers.Create(&profile.ServiceProvider{
			Name: req.Name, Email: email, Phone: req.Phone,
			ServiceType: req.ServiceType, CityID: req.CityID,
		})
		if err != nil {
			return 0, err
		}
		return sp.ID, nil
	}
	return 0, fmt.Errorf("invalid role")
}

type loginResponse struct {
	Record   *auth.SessionRecord `json:"record"`
	Redirect string              `json:"redirect"`
}

// handleLogin resolves the identity across all roles and opens a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	rec, err := s.resolver.Resolve(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			apiError(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		slog.Error("login failed", "error", err)
		apiError(w, "login failed", http.StatusInternalServerError)
		return
	}

	if err := s.sessions.Save(w, rec); err != nil {
		slog.Error("saving session", "error", err)
		apiError(w, "login failed", http.StatusInternalServerError)
		return
	}

	slog.Info("login success", "email", rec.Email, "role", rec.Role, "method", "password")
	apiJSON(w, loginResponse{Record: rec, Redirect: rec.Role.DashboardRoute()}, http.StatusOK)
}

// handleLogout destroys the session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := s.sessions.SessionID(r)
	if id != "" {
		s.compareMu.Lock()
		delete(s.compares, id)
		s.compareMu.Unlock()
	}

	if err := s.sessions.Clear(w, r); err != nil {
		slog.Error("clearing session", "error", err)
	}

	apiJSON(w, map[string]string{"status": "logged out"}, http.StatusOK)
}

// handleMe returns the current session record.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rec := auth.RecordFromContext(r)
	if rec == nil {
		apiError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	apiJSON(w, rec, http.StatusOK)
}

// handleSwitchContext swaps the session to a linked secondary profile.
// The session row is rewritten in place; no re-login happens.
func (s *Server) handleSwitchContext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rec := auth.RecordFromContext(r)
	if rec == nil {
		apiError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	var req struct {
		Target string `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	patch, err := s.resolver.SwitchTarget(rec, auth.Role(req.Target))
	if err != nil {
		if errors.Is(err, auth.ErrNoLinkedProfile) {
			apiError(w, "no linked profile for that role", http.StatusConflict)
			return
		}
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := s.sessions.SwitchContext(r, patch)
	if err != nil {
		slog.Error("switching context", "error", err)
		apiError(w, "switching context", http.StatusInternalServerError)
		return
	}

	slog.Info("context switch", "email", updated.Email, "role", updated.Role)
	apiJSON(w, loginResponse{Record: updated, Redirect: updated.Role.DashboardRoute()}, http.StatusOK)
}

// handleToken exchanges a session or credentials for a JWT, for CLI and
// integration use.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rec := auth.RecordFromContext(r)
	if rec == nil {
		apiError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	token, err := s.issuer.Issue(rec)
	if err != nil {
		slog.Error("issuing token", "error", err)
		apiError(w, "issuing token", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]string{"token": token, "email": rec.Email}, http.StatusOK)
}
