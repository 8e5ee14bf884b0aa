package auth

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

type contextKey string

const recordContextKey contextKey = "session_record"

// WithRecord attaches the session record to a request context.
func WithRecord(ctx context.Context, rec *SessionRecord) context.Context {
	return context.WithValue(ctx, recordContextKey, rec)
}

// RecordFromContext returns the authenticated identity for a request,
// or nil for anonymous requests.
func RecordFromContext(r *http.Request) *SessionRecord {
	rec, _ := r.Context().Value(recordContextKey).(*SessionRecord)
	return rec
}

// protectedPagePrefixes are the role dashboards; everything else on the web
// surface is public browsing.
var protectedPagePrefixes = []string{
	"/dashboard",
	"/user-profile",
	"/realtor-dashboard",
	"/business-profile",
	"/influencer-profile",
	"/provider-dashboard",
	"/account",
}

// RequireSession is middleware for web page routes. It attaches the session
// record to the context when present and redirects dashboard requests to
// the login page when absent. API paths are handled by RequireAPIAuth.
func RequireSession(sessions *SessionStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		rec, err := sessions.Load(r)
		if err == nil && rec != nil {
			r = r.WithContext(WithRecord(r.Context(), rec))
		}

		if rec == nil && isProtectedPage(r.URL.Path) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isProtectedPage(path string) bool {
	for _, prefix := range protectedPagePrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// rateLimiter tracks failed API auth attempts per IP.
type rateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

var apiAuthLimiter = &rateLimiter{
	attempts: make(map[string][]time.Time),
}

const (
	rateLimitWindow  = 1 * time.Minute
	rateLimitMaxFail = 10
)

// recordFailure records a failed attempt and returns true if rate limited.
func (rl *rateLimiter) recordFailure(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rateLimitWindow)

	// Prune old entries
	valid := rl.attempts[ip][:0]
	for _, t := range rl.attempts[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	valid = append(valid, now)
	rl.attempts[ip] = valid

	return len(valid) > rateLimitMaxFail
}

// RequireAPIAuth is middleware for /api/ routes. Public catalog reads pass
// through untouched (with the identity attached when one is presented).
// Everything else needs a JWT bearer token, an lt_ API key, or a session
// cookie. Key management paths require session auth specifically.
// Returns 401 for missing/invalid credentials, 429 for rate-limited IPs.
func RequireAPIAuth(issuer *TokenIssuer, apiKeys *APIKeyStore, creds *CredentialStore, sessions *SessionStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		rec := resolveAPIIdentity(r, issuer, apiKeys, creds, sessions)
		if rec != nil {
			r = r.WithContext(WithRecord(r.Context(), rec))
		}

		if isPublicAPIPath(r.Method, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		// Key management endpoints require a browser session, not a key,
		// so a leaked key cannot mint more keys.
		if isAPIKeyManagementPath(r.URL.Path) {
			sessRec, err := sessions.Load(r)
			if err != nil || sessRec == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithRecord(r.Context(), sessRec)))
			return
		}

		if rec == nil {
			if apiAuthLimiter.recordFailure(r.RemoteAddr) {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			http.Error(w, "Authorization required", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// resolveAPIIdentity tries, in order: bearer API key, bearer JWT, session
// cookie. Returns nil for anonymous requests.
func resolveAPIIdentity(r *http.Request, issuer *TokenIssuer, apiKeys *APIKeyStore, creds *CredentialStore, sessions *SessionStore) *SessionRecord {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if strings.HasPrefix(token, "lt_") && apiKeys != nil {
			email, ok, err := apiKeys.Validate(token)
			if err != nil || !ok {
				return nil
			}
			rec := &SessionRecord{Email: email}
			if creds != nil {
				if c, err := creds.Get(email); err == nil && c != nil {
					rec.Role = c.Role
					rec.ID = c.ProfileID
				}
			}
			return rec
		}

		if issuer != nil {
			claims, err := issuer.Verify(token)
			if err != nil {
				return nil
			}
			return &SessionRecord{ID: claims.ID, Email: claims.Email, Role: claims.Role}
		}
		return nil
	}

	if sessions != nil {
		rec, err := sessions.Load(r)
		if err == nil {
			return rec
		}
	}

	return nil
}

// isPublicAPIPath returns true for the anonymous browsing surface.
func isPublicAPIPath(method, path string) bool {
	if method == http.MethodPost {
		switch path {
		case "/api/auth/login", "/api/auth/signup",
			"/api/auth/passkey/login/begin", "/api/auth/passkey/login/finish":
			return true
		}
		if strings.HasPrefix(path, "/api/properties/") && strings.HasSuffix(path, "/inquiry") {
			return true
		}
		return false
	}
	if method != http.MethodGet {
		return false
	}
	publicPrefixes := []string{
		"/api/properties",
		"/api/cities",
		"/api/beaches",
		"/api/categories",
		"/api/businesses",
		"/api/service-providers",
		"/api/posts",
	}
	for _, prefix := range publicPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func isAPIKeyManagementPath(path string) bool {
	return path == "/api/keys" || strings.HasPrefix(path, "/api/keys/")
}
