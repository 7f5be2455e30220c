// Package gateway is the HTTP client for the GREX API.
package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/models"
	"github.com/pkg/errors"
)

const defaultTimeout = 15 * time.Second

// AuthEvent names why the auth state changed.
type AuthEvent string

const (
	SignedIn       AuthEvent = "SIGNED_IN"
	SignedOut      AuthEvent = "SIGNED_OUT"
	TokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// AuthListener receives the new session, nil after sign-out.
type AuthListener func(event AuthEvent, session *Session)

type Client struct {
	http    *resty.Client
	baseURL string
	store   SessionStore

	mu        sync.Mutex
	session   *Session
	listeners map[int]AuthListener
	nextID    int
}

type Option func(*Client)

// WithSessionStore persists sessions through store. The default keeps them in memory.
func WithSessionStore(store SessionStore) Option {
	return func(c *Client) { c.store = store }
}

// WithHTTPClient swaps the underlying transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = resty.NewWithClient(hc) }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:      resty.New(),
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		store:     &MemoryStore{},
		listeners: make(map[int]AuthListener),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.
		SetBaseURL(c.baseURL).
		SetTimeout(defaultTimeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		if s, err := c.store.Load(); err != nil {
			slog.Warn("failed to load saved session", "error", err)
		} else {
			c.session = s
		}
	}
	return c.session
}

func (c *Client) token() string {
	if s := c.current(); s != nil {
		return s.AccessToken
	}
	return ""
}

func (c *Client) setSession(event AuthEvent, s *Session) {
	c.mu.Lock()
	c.session = s
	listeners := make([]AuthListener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	var err error
	if s == nil {
		err = c.store.Clear()
	} else {
		err = c.store.Save(s)
	}
	if err != nil {
		slog.Warn("failed to persist session", "error", err)
	}

	for _, fn := range listeners {
		fn(event, s)
	}
}

// OnAuthStateChange registers fn and returns a function that removes it.
func (c *Client) OnAuthStateChange(fn AuthListener) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// request builds an authenticated request. out may be nil.
func (c *Client) request(ctx context.Context, out any) *resty.Request {
	r := c.http.R().SetContext(ctx).SetError(&errorBody{})
	if tok := c.token(); tok != "" {
		r.SetAuthToken(tok)
	}
	if out != nil {
		r.SetResult(out)
	}
	return r
}

func (c *Client) send(r *resty.Request, method, path string) error {
	resp, err := r.Execute(method, path)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	if resp.IsError() {
		body, _ := resp.Error().(*errorBody)
		return newAPIError(resp.StatusCode(), body)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	r := c.request(ctx, out)
	if body != nil {
		r.SetBody(body)
	}
	return c.send(r, method, path)
}

func (c *Client) SignUp(ctx context.Context, displayName, email, password string) (*Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"display_name": displayName,
		"email":        email,
		"password":     password,
	}, &s)
	if err != nil {
		return nil, err
	}
	c.setSession(SignedIn, &s)
	return &s, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &s)
	if err != nil {
		return nil, err
	}
	c.setSession(SignedIn, &s)
	return &s, nil
}

// Refresh rotates the refresh token. A rejected token signs the user out.
func (c *Client) Refresh(ctx context.Context) (*Session, error) {
	cur := c.current()
	if cur == nil || cur.RefreshToken == "" {
		return nil, ErrNoSession
	}
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": cur.RefreshToken}, &s)
	if errors.Is(err, ErrUnauthorized) {
		c.setSession(SignedOut, nil)
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	c.setSession(TokenRefreshed, &s)
	return &s, nil
}

// GetSession returns the signed-in user, or nil when there is none. An
// expired access token is refreshed once.
func (c *Client) GetSession(ctx context.Context) (*models.UserResponse, error) {
	if c.current() == nil {
		return nil, nil
	}

	var out struct {
		User models.UserResponse `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &out)
	if errors.Is(err, ErrUnauthorized) {
		if _, rerr := c.Refresh(ctx); rerr != nil {
			if errors.Is(rerr, ErrUnauthorized) {
				return nil, nil
			}
			return nil, rerr
		}
		err = c.do(ctx, http.MethodGet, "/api/auth/session", nil, &out)
	}
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

// SignOut revokes the refresh token and forgets the session locally even
// when the server cannot be reached.
func (c *Client) SignOut(ctx context.Context) error {
	cur := c.current()
	var err error
	if cur != nil {
		err = c.do(ctx, http.MethodPost, "/api/auth/logout", map[string]string{"refresh_token": cur.RefreshToken}, nil)
	}
	c.setSession(SignedOut, nil)
	return err
}

// CreateGroupInput mirrors the create form.
type CreateGroupInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsPublic    bool     `json:"is_public"`
	Tags        []string `json:"tags,omitempty"`
}

func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	var out []models.Group
	if err := c.do(ctx, http.MethodGet, "/api/groups", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchPublicGroups(ctx context.Context, query string) ([]models.Group, error) {
	var out []models.Group
	r := c.request(ctx, &out).SetQueryParam("q", query)
	if err := c.send(r, http.MethodGet, "/api/groups/public"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetGroup(ctx context.Context, groupID uuid.UUID) (*models.Group, error) {
	var out models.Group
	if err := c.do(ctx, http.MethodGet, groupPath(groupID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateGroup inserts the group and its owner membership in one step.
func (c *Client) CreateGroup(ctx context.Context, input CreateGroupInput) (*models.Group, error) {
	var out models.Group
	if err := c.do(ctx, http.MethodPost, "/api/groups", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetGroupPublic(ctx context.Context, groupID uuid.UUID, isPublic bool) (*models.Group, error) {
	var out models.Group
	if err := c.do(ctx, http.MethodPatch, groupPath(groupID), map[string]bool{"is_public": isPublic}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteGroup removes the group with its memberships and meetups.
func (c *Client) DeleteGroup(ctx context.Context, groupID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, groupPath(groupID), nil, nil)
}

func (c *Client) UploadGroupIcon(ctx context.Context, groupID uuid.UUID, filename string, r io.Reader) (*models.Group, error) {
	var out models.Group
	req := c.request(ctx, &out).SetFileReader("icon", filename, r)
	if err := c.send(req, http.MethodPut, groupPath(groupID)+"/icon"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) JoinGroup(ctx context.Context, groupID uuid.UUID) (*models.GroupMember, error) {
	var out models.GroupMember
	if err := c.do(ctx, http.MethodPost, groupPath(groupID)+"/join", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error) {
	var out []models.GroupMember
	if err := c.do(ctx, http.MethodGet, groupPath(groupID)+"/members", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMemberships lists the signed-in user's memberships.
func (c *Client) ListMemberships(ctx context.Context) ([]models.GroupMember, error) {
	var out []models.GroupMember
	if err := c.do(ctx, http.MethodGet, "/api/users/me/memberships", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddMember returns ErrAlreadyMember when the pair exists.
func (c *Client) AddMember(ctx context.Context, groupID, userID uuid.UUID) (*models.GroupMember, error) {
	var out models.GroupMember
	if err := c.do(ctx, http.MethodPost, groupPath(groupID)+"/members", map[string]string{"user_id": userID.String()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, groupPath(groupID)+"/members/"+userID.String(), nil, nil)
}

// ListMeetups lists visible meetups, narrowed to groupIDs when given.
func (c *Client) ListMeetups(ctx context.Context, groupIDs ...uuid.UUID) ([]models.Meetup, error) {
	var out []models.Meetup
	q := url.Values{}
	for _, id := range groupIDs {
		q.Add("group_id", id.String())
	}
	r := c.request(ctx, &out).SetQueryParamsFromValues(q)
	if err := c.send(r, http.MethodGet, "/api/meetups"); err != nil {
		return nil, err
	}
	return out, nil
}

type CreateMeetupInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DateTime    time.Time `json:"date_time"`
}

func (c *Client) CreateMeetup(ctx context.Context, groupID uuid.UUID, input CreateMeetupInput) (*models.Meetup, error) {
	var out models.Meetup
	if err := c.do(ctx, http.MethodPost, groupPath(groupID)+"/meetups", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func groupPath(id uuid.UUID) string {
	return "/api/groups/" + id.String()
}
