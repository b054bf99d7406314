// Package client talks to the job board HTTP API and keeps the signed-in
// session for the process.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/model"
)

// ErrNoSession is returned by calls that need a signed-in caller.
var ErrNoSession = errors.New("not signed in")

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu        sync.RWMutex
	session   *model.Session
	listeners map[int]func(*model.Identity)
	nextID    int

	// refreshes is keyed by refresh token so one token is rotated once no
	// matter how many calls see an expired access token together.
	refreshes singleflight.Group
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		listeners: make(map[int]func(*model.Identity)),
	}
}

// Subscribe registers fn to be told the new identity after every sign-in,
// refresh and sign-out. Sign-out passes nil. The returned function removes
// fn and may be called more than once.
func (c *Client) Subscribe(fn func(identity *model.Identity)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

func (c *Client) notify(identity *model.Identity) {
	c.mu.RLock()
	listeners := make([]func(*model.Identity), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.RUnlock()

	for _, fn := range listeners {
		fn(identity)
	}
}

// Session returns a copy of the current session, or nil.
func (c *Client) Session() *model.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

func (c *Client) setSession(s *model.Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}

func (c *Client) refreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.RefreshToken
}

// do sends one JSON request. With authed set, an expired access token is
// refreshed once and the request retried.
func (c *Client) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	if !authed {
		return c.send(ctx, method, path, in, out, "")
	}

	token := c.accessToken()
	if token == "" {
		return ErrNoSession
	}
	err := c.send(ctx, method, path, in, out, token)
	if !isInvalidToken(err) {
		return err
	}

	// A concurrent call may already have rotated the session.
	if c.accessToken() == token {
		if rerr := c.Refresh(ctx); rerr != nil {
			return err
		}
	}
	token = c.accessToken()
	if token == "" {
		return ErrNoSession
	}
	return c.send(ctx, method, path, in, out, token)
}

// send issues the request, adding a bearer header when token is set.
func (c *Client) send(ctx context.Context, method, path string, in, out any, token string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError turns an error body back into *apierrors.APIError.
func decodeError(resp *http.Response) error {
	apiErr := &apierrors.APIError{}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = apierrors.CodeInternal
		apiErr.Message = fmt.Sprintf("unexpected HTTP %d", resp.StatusCode)
	}
	apiErr.HTTPCode = resp.StatusCode
	return apiErr
}

func isInvalidToken(err error) bool {
	var apiErr *apierrors.APIError
	return errors.As(err, &apiErr) && apiErr.Code == apierrors.CodeInvalidToken
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// SignUpResult is what registration returns. The caller is not signed in.
type SignUpResult struct {
	User       model.Identity `json:"user"`
	Profile    model.Profile  `json:"profile"`
	RedirectTo string         `json:"redirect_to"`
}

func (c *Client) SignUp(ctx context.Context, email, password string, role model.Role) (SignUpResult, error) {
	var out SignUpResult
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", credentials{Email: email, Password: password, Role: string(role)}, &out, false)
	return out, err
}

// SignInResult is the session plus the landing route for its role.
type SignInResult struct {
	model.Session
	RedirectTo string `json:"redirect_to"`
}

// SignIn opens a session and notifies listeners.
func (c *Client) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	var out SignInResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", credentials{Email: email, Password: password}, &out, false); err != nil {
		return SignInResult{}, err
	}

	session := out.Session
	c.setSession(&session)
	c.notify(&session.User)

	return out, nil
}

// Refresh rotates the session tokens and notifies listeners. Concurrent
// calls share one rotation. A rejected refresh token ends the local session.
func (c *Client) Refresh(ctx context.Context) error {
	refresh := c.refreshToken()
	if refresh == "" {
		return ErrNoSession
	}

	_, err, _ := c.refreshes.Do(refresh, func() (any, error) {
		return nil, c.rotate(ctx, refresh)
	})
	return err
}

func (c *Client) rotate(ctx context.Context, refresh string) error {
	// Rotated while this caller waited for its turn.
	if c.refreshToken() != refresh {
		return nil
	}

	var out SignInResult
	err := c.send(ctx, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": refresh}, &out, "")
	if err != nil {
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) && apiErr.Code == apierrors.CodeInvalidRefreshToken && c.dropSession(refresh) {
			c.notify(nil)
		}
		return err
	}

	session := out.Session
	c.setSession(&session)
	c.notify(&session.User)

	return nil
}

// dropSession clears the session if it still holds refresh.
func (c *Client) dropSession(refresh string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || c.session.RefreshToken != refresh {
		return false
	}
	c.session = nil
	return true
}

// SignOut drops the local session even when revocation fails.
func (c *Client) SignOut(ctx context.Context) error {
	refresh := c.refreshToken()
	if refresh == "" {
		return nil
	}

	err := c.send(ctx, http.MethodPost, "/api/v1/auth/logout", map[string]string{"refresh_token": refresh}, nil, "")

	c.setSession(nil)
	c.notify(nil)

	return err
}

// CurrentIdentity returns nil without error when nobody is signed in.
func (c *Client) CurrentIdentity(ctx context.Context) (*model.Identity, error) {
	if c.accessToken() == "" {
		return nil, nil
	}
	var out model.Identity
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/user", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (model.Profile, error) {
	var out model.Profile
	err := c.do(ctx, http.MethodGet, "/api/v1/profile", nil, &out, true)
	return out, err
}

// ListOffers lists every offer, or only those of companyID when set.
func (c *Client) ListOffers(ctx context.Context, companyID *uuid.UUID) ([]model.JobOffer, error) {
	path := "/api/v1/offers"
	if companyID != nil {
		path += "?" + url.Values{"company_id": {companyID.String()}}.Encode()
	}
	var out []model.JobOffer
	err := c.do(ctx, http.MethodGet, path, nil, &out, true)
	return out, err
}

func (c *Client) GetOffer(ctx context.Context, id uuid.UUID) (model.JobOffer, error) {
	var out model.JobOffer
	err := c.do(ctx, http.MethodGet, "/api/v1/offers/"+id.String(), nil, &out, true)
	return out, err
}

func (c *Client) CreateOffer(ctx context.Context, title, description string) (model.JobOffer, error) {
	var out model.JobOffer
	in := map[string]string{"title": title, "description": description}
	err := c.do(ctx, http.MethodPost, "/api/v1/offers", in, &out, true)
	return out, err
}

func (c *Client) Apply(ctx context.Context, jobID uuid.UUID) (model.Application, error) {
	var out model.Application
	err := c.do(ctx, http.MethodPost, "/api/v1/applications", map[string]uuid.UUID{"job_id": jobID}, &out, true)
	return out, err
}

// MyApplications returns the caller's applications joined with their offers.
func (c *Client) MyApplications(ctx context.Context) ([]model.Application, error) {
	var out []model.Application
	err := c.do(ctx, http.MethodGet, "/api/v1/applications", nil, &out, true)
	return out, err
}

// OfferApplications returns the board rows of an owned offer.
func (c *Client) OfferApplications(ctx context.Context, jobID uuid.UUID) ([]model.Application, error) {
	var out []model.Application
	err := c.do(ctx, http.MethodGet, "/api/v1/offers/"+jobID.String()+"/applications", nil, &out, true)
	return out, err
}

// MoveApplication sets the status of userID's application to jobID and
// returns the stored row.
func (c *Client) MoveApplication(ctx context.Context, jobID, userID uuid.UUID, status model.Status) (model.Application, error) {
	var out model.Application
	path := "/api/v1/offers/" + jobID.String() + "/applications/" + userID.String()
	err := c.do(ctx, http.MethodPatch, path, map[string]string{"status": string(status)}, &out, true)
	return out, err
}
