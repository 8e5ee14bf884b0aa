package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"

	"github.com/litoralapp/litoral/internal/auth"
)

// passkeyHandlers holds WebAuthn-related HTTP handlers.
type passkeyHandlers struct {
	wan      *webauthn.WebAuthn
	passkeys *auth.PasskeyStore
	sessions *auth.SessionStore
	resolver *auth.Resolver
	config   auth.Config

	// In-memory session data for in-flight WebAuthn ceremonies.
	// regSessions is keyed by email for registration.
	// loginSessionData holds a single login ceremony — only one concurrent
	// passkey login is supported (acceptable for the current scale).
	mu               sync.Mutex
	regSessions      map[string]*webauthn.SessionData
	loginSessionData *webauthn.SessionData
}

func newPasskeyHandlers(cfg auth.Config, passkeys *auth.PasskeyStore, sessions *auth.SessionStore, resolver *auth.Resolver) (*passkeyHandlers, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	rpID := parsed.Hostname()

	wan, err := webauthn.New(&webauthn.Config{
		RPDisplayName: "Litoral",
		RPID:          rpID,
		RPOrigins:     []string{cfg.BaseURL},
	})
	if err != nil {
		return nil, err
	}

	return &passkeyHandlers{
		wan:         wan,
		passkeys:    passkeys,
		sessions:    sessions,
		resolver:    resolver,
		config:      cfg,
		regSessions: make(map[string]*webauthn.SessionData),
	}, nil
}

// handleBeginRegistration starts passkey registration for the logged-in
// account.
func (h *passkeyHandlers) handleBeginRegistration(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sessions.Load(r)
	if err != nil || rec == nil {
		apiError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	creds, err := h.passkeys.WebAuthnCredentials(rec.Email)
	if err != nil {
		slog.Error("loading credentials", "err", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	account := auth.NewPasskeyAccount(rec.Email, rec.FullName, creds)

	// Exclude existing credentials so the same key isn't re-registered
	excludeList := make([]protocol.CredentialDescriptor, len(creds))
	for i, c := range creds {
		excludeList[i] = c.Descriptor()
	}

	creation, session, err := h.wan.BeginRegistration(account,
		webauthn.WithExclusions(excludeList),
	)
	if err != nil {
		slog.Error("beginning registration", "err", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	h.regSessions[rec.Email] = session
	h.mu.Unlock()

	apiJSON(w, creation, http.StatusOK)
}

// handleFinishRegistration completes passkey registration.
func (h *passkeyHandlers) handleFinishRegistration(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sessions.Load(r)
	if err != nil || rec == nil {
		apiError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	h.mu.Lock()
	session, ok := h.regSessions[rec.Email]
	if ok {
		delete(h.regSessions, rec.Email)
	}
	h.mu.Unlock()

	if !ok {
		apiError(w, "no registration in progress", http.StatusBadRequest)
		return
	}

	creds, err := h.passkeys.WebAuthnCredentials(rec.Email)
	if err != nil {
		slog.Error("loading credentials", "err", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	account := auth.NewPasskeyAccount(rec.Email, rec.FullName, creds)

	credential, err := h.wan.FinishRegistration(account, *session, r)
	if err != nil {
		slog.Error("finishing registration", "err", err)
		apiError(w, "registration failed", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = "Passkey"
	}

	if err := h.passkeys.Save(rec.Email, name, credential); err != nil {
		slog.Error("saving credential", "err", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleBeginLogin starts passkey login (discoverable/conditional).
func (h *passkeyHandlers) handleBeginLogin(w http.ResponseWriter, r *http.Request) {
	assertion, session, err := h.wan.BeginDiscoverableLogin()
	if err != nil {
		slog.Error("beginning passkey login", "err", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	h.loginSessionData = session
	h.mu.Unlock()

	apiJSON(w, assertion, http.StatusOK)
}

// handleFinishLogin completes passkey login, resolves the account's
// role, and creates a session.
func (h *passkeyHandlers) handleFinishLogin(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	session := h.loginSessionData
	h.loginSessionData = nil
	h.mu.Unlock()

	if session == nil {
		apiError(w, "no login in progress", http.StatusBadRequest)
		return
	}

	var loggedInEmail string

	handler := func(rawID, userHandle []byte) (webauthn.User, error) {
		// The credential ID maps directly to the owning account.
		email, err := h.passkeys.FindEmailByCredentialID(rawID)
		if err != nil {
			return nil, protocol.ErrBadRequest.WithDetails("unknown credential")
		}

		creds, err := h.passkeys.WebAuthnCredentials(email)
		if err != nil {
			return nil, err
		}

		account := auth.NewPasskeyAccount(email, "", creds)
		if string(account.WebAuthnID()) != string(userHandle) {
			return nil, protocol.ErrBadRequest.WithDetails("user handle mismatch")
		}

		loggedInEmail = email
		return account, nil
	}

	_, _, err := h.wan.FinishPasskeyLogin(handler, *session, r)
	if err != nil {
		slog.Error("finishing passkey login", "err", err)
		apiError(w, "login failed", http.StatusUnauthorized)
		return
	}

	rec, err := h.resolver.ResolveEmail(loggedInEmail)
	if err != nil {
		slog.Error("resolving passkey account", "email", loggedInEmail, "err", err)
		apiError(w, "login failed", http.StatusUnauthorized)
		return
	}

	if err := h.sessions.Save(w, rec); err != nil {
		slog.Error("creating session", "err", err)
		apiError(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.Info("login success", "email", rec.Email, "role", rec.Role, "method", "passkey")
	apiJSON(w, loginResponse{Record: rec, Redirect: rec.Role.DashboardRoute()}, http.StatusOK)
}

// handleListPasskeys lists the account's registered passkeys.
func (s *Server) handleListPasskeys(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rec := auth.RecordFromContext(r)
	if rec == nil {
		apiError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	stored, err := s.passkeys.ListByEmail(rec.Email)
	if err != nil {
		apiError(w, "listing passkeys", http.StatusInternalServerError)
		return
	}

	type passkeyInfo struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	infos := make([]passkeyInfo, len(stored))
	for i, sp := range stored {
		infos[i] = passkeyInfo{ID: sp.ID, Name: sp.Name}
	}

	apiJSON(w, infos, http.StatusOK)
}

// handleDeletePasskey removes a passkey at /api/auth/passkeys/{id}.
func (s *Server) handleDeletePasskey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rec := auth.RecordFromContext(r)
	if rec == nil {
		apiError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/auth/passkeys/")
	if id == "" {
		apiError(w, "invalid passkey ID", http.StatusBadRequest)
		return
	}

	if err := s.passkeys.Delete(id, rec.Email); err != nil {
		apiError(w, "passkey not found", http.StatusNotFound)
		return
	}

	apiJSON(w, map[string]interface{}{"id": id, "removed": true}, http.StatusOK)
}
