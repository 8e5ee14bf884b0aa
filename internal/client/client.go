// Package client provides an HTTP client for the litoral REST API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/litoralapp/litoral/internal/auth"
	"github.com/litoralapp/litoral/internal/listing"
	"github.com/litoralapp/litoral/internal/place"
	"github.com/litoralapp/litoral/internal/post"
)

// Client is an HTTP client for the litoral API. The token may be a JWT
// obtained from Login or a long-lived API key.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListResponse is the response from GET /api/properties.
type ListResponse struct {
	Items []*listing.Property `json:"items"`
	Total int                 `json:"total"`
	Chips []listing.Chip      `json:"chips"`
}

// Login exchanges credentials for a bearer token. The server issues a
// session cookie on login; the cookie is forwarded once to mint the JWT
// and then discarded, so the client stays stateless.
func (c *Client) Login(email, password string) (string, error) {
	data, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/api/auth/login", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	cookies := resp.Cookies()
	body, _ := io.ReadAll(resp.Body)
	if cerr := resp.Body.Close(); cerr != nil {
		fmt.Printf("warning: closing response body: %v\n", cerr)
	}
	if resp.StatusCode >= 400 {
		return "", apiErrorFrom(body, resp.StatusCode)
	}

	tokReq, err := http.NewRequest("POST", c.baseURL+"/api/auth/token", nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	for _, ck := range cookies {
		tokReq.AddCookie(ck)
	}

	var tokResp struct {
		Token string `json:"token"`
	}
	if err := c.do(tokReq, &tokResp); err != nil {
		return "", err
	}
	if tokResp.Token == "" {
		return "", fmt.Errorf("server returned an empty token")
	}

	c.token = tokResp.Token
	return tokResp.Token, nil
}

// Me returns the account record behind the current token.
func (c *Client) Me() (*auth.SessionRecord, error) {
	var rec auth.SessionRecord
	if err := c.get("/api/auth/me", &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListProperties returns the filtered, sorted listing collection.
func (c *Client) ListProperties(f listing.FilterState) (*ListResponse, error) {
	path := "/api/properties"
	if q := filterQuery(f); q != "" {
		path += "?" + q
	}

	var resp ListResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// filterQuery encodes a filter state the way the server parses it.
func filterQuery(f listing.FilterState) string {
	q := url.Values{}
	set := func(key, val string) {
		if val != "" {
			q.Set(key, val)
		}
	}
	setID := func(key string, val int64) {
		if val > 0 {
			q.Set(key, strconv.FormatInt(val, 10))
		}
	}

	set("tab", f.Tab)
	set("q", f.Query)
	set("type", f.Type)
	set("bedrooms", f.Bedrooms)
	set("bathrooms", f.Bathrooms)
	set("sort", f.Sort)
	setID("city_id", f.CityID)
	setID("category_id", f.CategoryID)
	setID("min_price", f.MinPrice)
	setID("max_price", f.MaxPrice)

	return q.Encode()
}

// GetProperty returns one property.
func (c *Client) GetProperty(id int64) (*listing.Property, error) {
	var p listing.Property
	if err := c.get(fmt.Sprintf("/api/properties/%d", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProperty publishes a new listing.
func (c *Client) CreateProperty(p *listing.Property) (*listing.Property, error) {
	var created listing.Property
	if err := c.post("/api/properties", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProperty updates an existing listing.
func (c *Client) UpdateProperty(p *listing.Property) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("PUT", c.baseURL+fmt.Sprintf("/api/properties/%d", p.ID), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, nil)
}

// DeleteProperty removes a listing.
func (c *Client) DeleteProperty(id int64) error {
	return c.doDelete(fmt.Sprintf("/api/properties/%d", id))
}

// ToggleFavorite flips a property's favorite flag and returns the new
// state.
func (c *Client) ToggleFavorite(id int64) (bool, error) {
	var resp struct {
		Favorite bool `json:"favorite"`
	}
	if err := c.post(fmt.Sprintf("/api/properties/%d/favorite", id), nil, &resp); err != nil {
		return false, err
	}
	return resp.Favorite, nil
}

// ListFavorites returns the account's favorited properties.
func (c *Client) ListFavorites() ([]*listing.Property, error) {
	var props []*listing.Property
	if err := c.get("/api/favorites", &props); err != nil {
		return nil, err
	}
	return props, nil
}

// CompareResult is the response from toggling a compare entry. When the
// list is full the server answers with a warning instead of an error.
type CompareResult struct {
	Compared bool   `json:"compared"`
	Warning  string `json:"warning,omitempty"`
}

// ToggleCompare flips a property on the session's compare list.
func (c *Client) ToggleCompare(id int64) (*CompareResult, error) {
	var resp CompareResult
	if err := c.post(fmt.Sprintf("/api/compare/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListCompare returns the properties currently on the compare list.
func (c *Client) ListCompare() ([]*listing.Property, error) {
	var props []*listing.Property
	if err := c.get("/api/compare", &props); err != nil {
		return nil, err
	}
	return props, nil
}

// ListCities returns all cities.
func (c *Client) ListCities() ([]*place.City, error) {
	var cities []*place.City
	if err := c.get("/api/cities", &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

// ListBeaches returns beaches, optionally scoped to one city.
func (c *Client) ListBeaches(cityID int64) ([]*place.Beach, error) {
	path := "/api/beaches"
	if cityID > 0 {
		path += fmt.Sprintf("?city_id=%d", cityID)
	}

	var beaches []*place.Beach
	if err := c.get(path, &beaches); err != nil {
		return nil, err
	}
	return beaches, nil
}

// ListCategories returns all property categories.
func (c *Client) ListCategories() ([]*place.Category, error) {
	var cats []*place.Category
	if err := c.get("/api/categories", &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// ListPosts returns the community feed, newest first.
func (c *Client) ListPosts(limit int) ([]*post.Post, error) {
	path := "/api/posts"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}

	var posts []*post.Post
	if err := c.get(path, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost publishes a post to the community feed.
func (c *Client) CreatePost(body, imageURL string) (*post.Post, error) {
	req := map[string]string{"body": body}
	if imageURL != "" {
		req["image_url"] = imageURL
	}

	var p post.Post
	if err := c.post("/api/posts", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SendInquiry sends a contact message about a property to its realtor.
func (c *Client) SendInquiry(id int64, name, email, phone, message string) error {
	body := map[string]string{
		"name":    name,
		"email":   email,
		"phone":   phone,
		"message": message,
	}
	return c.post(fmt.Sprintf("/api/properties/%d/inquiry", id), body, nil)
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// doDelete performs a DELETE request.
func (c *Client) doDelete(path string) error {
	req, err := http.NewRequest("DELETE", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, nil)
}

// do executes an HTTP request with auth header and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return apiErrorFrom(respBody, resp.StatusCode)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

// apiErrorFrom extracts the server's error message from a response body.
func apiErrorFrom(body []byte, status int) error {
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return fmt.Errorf("%s", errResp.Error)
	}
	return fmt.Errorf("server error: %s", http.StatusText(status))
}
