// Package client is a typed HTTP client for the pilgrim administration API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-resty/resty/v2"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/pkg/filter"
)

const apiPrefix = "/api/v1"

type Tokens struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type LoginResult struct {
	Tokens
	Admin domain.Admin `json:"admin"`
}

// Page selects one page of the pilgrim list. Zero values use the server defaults.
type Page struct {
	Number int
	Limit  int
	Search string
}

type PilgrimList struct {
	domain.PilgrimPage
	Filter filter.DisplayState `json:"filter"`
}

type BulkResult struct {
	Message  string `json:"message"`
	Pilgrims int    `json:"pilgrims"`
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc).SetBaseURL(c.http.BaseURL).SetHeader("Accept", "application/json")
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithLanguage picks the fallback message used when a failed response
// carries none.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.lang = lang
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.http.SetHeader("User-Agent", ua)
	}
}

type Client struct {
	http *resty.Client
	lang string

	mu          sync.RWMutex
	accessToken string
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")+apiPrefix).
			SetTimeout(30*time.Second).
			SetHeader("Accept", "application/json"),
		lang: LangAR,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.accessToken
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx).SetError(&errorBody{})
	if token := c.AccessToken(); token != "" {
		req.SetAuthToken(token)
	}

	return req
}

func (c *Client) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("client.%s -> %w", op, err)
	}
	if resp.IsError() {
		body, _ := resp.Error().(*errorBody)
		return newServiceError(resp.StatusCode(), body, c.lang)
	}

	return nil
}

// Login stores the returned access token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required),
		"password": validation.Validate(password, validation.Required),
	}.Filter()
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var out LoginResult
	resp, err := c.request(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/auth/login")
	if err := c.check("Login", resp, err); err != nil {
		return LoginResult{}, err
	}
	c.SetAccessToken(out.AccessToken)

	return out, nil
}

// Refresh exchanges a refresh token for a new pair and stores the new
// access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (LoginResult, error) {
	if refreshToken == "" {
		return LoginResult{}, fmt.Errorf("%w: refresh token is empty", ErrValidation)
	}

	var out LoginResult
	resp, err := c.request(ctx).
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetResult(&out).
		Post("/auth/refresh")
	if err := c.check("Refresh", resp, err); err != nil {
		return LoginResult{}, err
	}
	c.SetAccessToken(out.AccessToken)

	return out, nil
}

func (c *Client) ListPilgrims(ctx context.Context, sel filter.Selection, page Page) (PilgrimList, error) {
	req := c.request(ctx).SetQueryParamsFromValues(sel.Values())
	if page.Number > 0 {
		req.SetQueryParam("page", strconv.Itoa(page.Number))
	}
	if page.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(page.Limit))
	}
	if page.Search != "" {
		req.SetQueryParam("search", page.Search)
	}

	var out PilgrimList
	resp, err := req.SetResult(&out).Get("/pilgrims/pilgrims")
	if err := c.check("ListPilgrims", resp, err); err != nil {
		return PilgrimList{}, err
	}

	return out, nil
}

func (c *Client) GetPilgrim(ctx context.Context, id uint) (domain.Pilgrim, error) {
	if id == 0 {
		return domain.Pilgrim{}, fmt.Errorf("%w: pilgrim id is required", ErrValidation)
	}

	var out domain.Pilgrim
	resp, err := c.request(ctx).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		SetResult(&out).
		Get("/pilgrims/{id}")
	if err := c.check("GetPilgrim", resp, err); err != nil {
		return domain.Pilgrim{}, err
	}

	return out, nil
}

func (c *Client) ListPackages(ctx context.Context) ([]domain.Package, error) {
	var out []domain.Package
	resp, err := c.request(ctx).SetResult(&out).Get("/dashboard/settings/packages")
	if err := c.check("ListPackages", resp, err); err != nil {
		return nil, err
	}

	return out, nil
}
