package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/litoralapp/litoral/internal/listing"
)

func TestListProperties(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/properties" {
			t.Errorf("path = %q, want /api/properties", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer testtoken" {
			t.Error("expected Bearer testtoken")
		}
		w.Header().Set("Content-Type", "application/json")
		resp := ListResponse{
			Items: []*listing.Property{{ID: 1, Title: "Casa na praia"}},
			Total: 1,
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testtoken")
	resp, err := c.ListProperties(listing.FilterState{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("total = %d, want 1", resp.Total)
	}
	if resp.Items[0].Title != "Casa na praia" {
		t.Errorf("title = %q", resp.Items[0].Title)
	}
}

func TestListPropertiesEncodesFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("tab") != "sale" {
			t.Errorf("tab = %q, want sale", q.Get("tab"))
		}
		if q.Get("bedrooms") != "4+" {
			t.Errorf("bedrooms = %q, want 4+", q.Get("bedrooms"))
		}
		if q.Get("min_price") != "100000" {
			t.Errorf("min_price = %q, want 100000", q.Get("min_price"))
		}
		if q.Has("max_price") {
			t.Error("unset max_price should be omitted")
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ListResponse{}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testtoken")
	_, err := c.ListProperties(listing.FilterState{
		Tab:      listing.TabSale,
		Bedrooms: "4+",
		MinPrice: 100000,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
}

func TestGetProperty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/properties/42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(&listing.Property{ID: 42, Title: "Cobertura"}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testtoken")
	p, err := c.GetProperty(42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.ID != 42 {
		t.Errorf("id = %d", p.ID)
	}
}

func TestCreateProperty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("method = %s", r.Method)
		}
		var req listing.Property
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Title != "Kitnet centro" {
			t.Errorf("title = %q", req.Title)
		}
		req.ID = 7
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(&req); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testtoken")
	created, err := c.CreateProperty(&listing.Property{Title: "Kitnet centro", Type: listing.TypeRent})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 7 {
		t.Errorf("id = %d", created.ID)
	}
}

func TestDeleteProperty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "DELETE" {
			t.Errorf("method = %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"removed": true}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testtoken")
	if err := c.DeleteProperty(1); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestToggleFavorite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/properties/3/favorite" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]bool{"favorite": true}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testtoken")
	fav, err := c.ToggleFavorite(3)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !fav {
		t.Error("favorite = false, want true")
	}
}

func TestToggleCompareFull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := CompareResult{Compared: false, Warning: "compare list holds at most 4 properties"}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testtoken")
	res, err := c.ToggleCompare(5)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if res.Compared || res.Warning == "" {
		t.Errorf("result = %+v, want warning with compared=false", res)
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var req struct{ Email, Password string }
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if req.Email != "ana@example.com" {
				t.Errorf("email = %q", req.Email)
			}
			http.SetCookie(w, &http.Cookie{Name: "litoral_session", Value: "abc123"})
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(map[string]string{"redirect": "/realtor-profile"}); err != nil {
				t.Fatalf("encode: %v", err)
			}
		case "/api/auth/token":
			ck, err := r.Cookie("litoral_session")
			if err != nil || ck.Value != "abc123" {
				t.Error("token request missing session cookie")
			}
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(map[string]string{"token": "jwt-token"}); err != nil {
				t.Fatalf("encode: %v", err)
			}
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	token, err := c.Login("ana@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "jwt-token" {
		t.Errorf("token = %q", token)
	}

	// The client adopts the token for subsequent requests.
	if c.token != "jwt-token" {
		t.Errorf("client token = %q", c.token)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if err := json.NewEncoder(w).Encode(map[string]string{"error": "invalid email or password"}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Login("ana@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "invalid email or password" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		if err := json.NewEncoder(w).Encode(map[string]string{"error": "db exploded"}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testtoken")
	_, err := c.ListProperties(listing.FilterState{})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "db exploded" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "badtoken")
	_, err := c.ListProperties(listing.FilterState{})
	if err == nil {
		t.Fatal("expected error")
	}
}
