// Package web provides the HTTP server and JSON API for the litoral
// marketplace.
package web

import (
	"database/sql"
	"fmt"
	"net/http"
	"sync"

	"github.com/litoralapp/litoral/internal/auth"
	"github.com/litoralapp/litoral/internal/email"
	"github.com/litoralapp/litoral/internal/listing"
	"github.com/litoralapp/litoral/internal/logging"
	"github.com/litoralapp/litoral/internal/place"
	"github.com/litoralapp/litoral/internal/post"
	"github.com/litoralapp/litoral/internal/profile"
	"github.com/litoralapp/litoral/internal/upload"
)

// Server is the marketplace HTTP server.
type Server struct {
	config auth.Config

	tourists    *profile.TouristRepository
	realtors    *profile.RealtorRepository
	businesses  *profile.BusinessRepository
	influencers *profile.InfluencerRepository
	providers   *profile.ServiceProviderRepository

	cities     *place.CityRepository
	beaches    *place.BeachRepository
	categories *place.CategoryRepository

	properties *listing.Repository
	favorites  *listing.FavoriteStore
	posts      *post.Repository

	creds    *auth.CredentialStore
	sessions *auth.SessionStore
	resolver *auth.Resolver
	issuer   *auth.TokenIssuer
	apiKeys  *auth.APIKeyStore
	passkeys *auth.PasskeyStore

	uploads *upload.Store
	smtp    email.SMTPConfig

	// Compare lists are transient per session, never persisted.
	compareMu sync.Mutex
	compares  map[string]*listing.CompareList

	passkey *passkeyHandlers
	mux     *http.ServeMux
}

// NewServer creates the marketplace server over an opened database.
func NewServer(db *sql.DB, cfg auth.Config) (*Server, error) {
	creds := auth.NewCredentialStore(db)
	tourists := profile.NewTouristRepository(db)
	realtors := profile.NewRealtorRepository(db)
	businesses := profile.NewBusinessRepository(db)
	influencers := profile.NewInfluencerRepository(db)
	providers := profile.NewServiceProviderRepository(db)

	uploadDir := cfg.UploadDir
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	s := &Server{
		config:      cfg,
		tourists:    tourists,
		realtors:    realtors,
		businesses:  businesses,
		influencers: influencers,
		providers:   providers,
		cities:      place.NewCityRepository(db),
		beaches:     place.NewBeachRepository(db),
		categories:  place.NewCategoryRepository(db),
		properties:  listing.NewRepository(db),
		favorites:   listing.NewFavoriteStore(db),
		posts:       post.NewRepository(db),
		creds:       creds,
		sessions:    auth.NewSessionStore(db),
		resolver:    auth.NewResolver(creds, tourists, realtors, businesses, influencers, providers, cfg),
		issuer:      auth.NewTokenIssuer(cfg.JWTSecret),
		apiKeys:     auth.NewAPIKeyStore(db),
		passkeys:    auth.NewPasskeyStore(db),
		uploads:     upload.NewStore(uploadDir, "/files"),
		smtp: email.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		},
		compares: make(map[string]*listing.CompareList),
		mux:      http.NewServeMux(),
	}

	pk, err := newPasskeyHandlers(cfg, s.passkeys, s.sessions, s.resolver)
	if err != nil {
		return nil, fmt.Errorf("configuring passkeys: %w", err)
	}
	s.passkey = pk

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.Handle("/files/", http.StripPrefix("/files/", http.FileServer(http.Dir(s.uploads.Dir()))))
	s.mux.HandleFunc("/health", s.handleHealth)

	s.mux.HandleFunc("/api/auth/signup", s.handleSignup)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/auth/logout", s.handleLogout)
	s.mux.HandleFunc("/api/auth/me", s.handleMe)
	s.mux.HandleFunc("/api/auth/switch-context", s.handleSwitchContext)
	s.mux.HandleFunc("/api/auth/token", s.handleToken)

	s.mux.HandleFunc("/api/auth/passkey/register/begin", s.passkey.handleBeginRegistration)
	s.mux.HandleFunc("/api/auth/passkey/register/finish", s.passkey.handleFinishRegistration)
	s.mux.HandleFunc("/api/auth/passkey/login/begin", s.passkey.handleBeginLogin)
	s.mux.HandleFunc("/api/auth/passkey/login/finish", s.passkey.handleFinishLogin)
	s.mux.HandleFunc("/api/auth/passkeys", s.handleListPasskeys)
	s.mux.HandleFunc("/api/auth/passkeys/", s.handleDeletePasskey)

	s.mux.HandleFunc("/api/properties", s.handleProperties)
	s.mux.HandleFunc("/api/properties/", s.handlePropertyRoute)
	s.mux.HandleFunc("/api/favorites", s.handleFavorites)
	s.mux.HandleFunc("/api/compare", s.handleCompare)
	s.mux.HandleFunc("/api/compare/", s.handleCompareToggle)

	s.mux.HandleFunc("/api/cities", s.handleCities)
	s.mux.HandleFunc("/api/cities/", s.handleCityRoute)
	s.mux.HandleFunc("/api/beaches", s.handleBeaches)
	s.mux.HandleFunc("/api/beaches/", s.handleBeachRoute)
	s.mux.HandleFunc("/api/categories", s.handleCategories)
	s.mux.HandleFunc("/api/categories/", s.handleCategoryRoute)

	s.mux.HandleFunc("/api/businesses", s.handleBusinesses)
	s.mux.HandleFunc("/api/businesses/", s.handleBusinessRoute)
	s.mux.HandleFunc("/api/service-providers", s.handleServiceProviders)
	s.mux.HandleFunc("/api/posts", s.handlePosts)
	s.mux.HandleFunc("/api/posts/", s.handlePostRoute)

	s.mux.HandleFunc("/api/dashboard", s.handleDashboard)
	s.mux.HandleFunc("/api/admin/approvals", s.handleApprovals)
	s.mux.HandleFunc("/api/upload", s.handleUpload)

	s.mux.HandleFunc("/api/keys", s.handleAPIKeys)
	s.mux.HandleFunc("/api/keys/", s.handleAPIKeyDelete)
}

// Handler returns the full middleware chain around the mux.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = auth.RequireAPIAuth(s.issuer, s.apiKeys, s.creds, s.sessions, h)
	h = auth.RequireSession(s.sessions, h)
	h = logging.RequestLogger(h)
	return h
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Starting litoral server on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// compareList returns the compare list for the request's session,
// creating it on first use. Anonymous visitors share none: without a
// session cookie there is no compare list.
func (s *Server) compareList(r *http.Request) *listing.CompareList {
	id := s.sessions.SessionID(r)
	if id == "" {
		return nil
	}

	s.compareMu.Lock()
	defer s.compareMu.Unlock()

	cl, ok := s.compares[id]
	if !ok {
		cl = listing.NewCompareList()
		s.compares[id] = cl
	}
	return cl
}
