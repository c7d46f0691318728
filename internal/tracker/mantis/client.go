// Package mantis implements tracker.Client against the MantisBT REST API.
package mantis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mantisbeanstalk/internal/tracker"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const (
	apiPrefix      = "/api/rest"
	defaultTimeout = 10 * time.Second
	usersPageSize  = 100
	usersMaxPages  = 50
	usersCacheKey  = "mantis:project:%d:users"
)

// Cache stores encoded project user lists between requests.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Client talks to one MantisBT instance. Each call is a single attempt.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration

	http   *fasthttp.Client
	logger *zap.Logger

	cache    Cache
	cacheTTL time.Duration
}

var _ tracker.Client = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying fasthttp client.
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request that has no earlier context deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserCache caches project user lists for ttl. A zero ttl disables caching.
func WithUserCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the Mantis instance at baseURL authenticating with token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		timeout: defaultTimeout,
		http:    &fasthttp.Client{Name: "mantisbeanstalk"},
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type issuesEnvelope struct {
	Issues []tracker.Issue `json:"issues"`
}

type usersEnvelope struct {
	Users []tracker.User `json:"users"`
}

// FetchIssue loads issue id. A missing issue yields tracker.ErrNotFound.
func (c *Client) FetchIssue(ctx context.Context, id int) (*tracker.Issue, error) {
	var env issuesEnvelope
	if err := c.do(ctx, fasthttp.MethodGet, issuePath(id), nil, &env); err != nil {
		return nil, err
	}

	if len(env.Issues) == 0 {
		return nil, tracker.ErrNotFound
	}

	return &env.Issues[0], nil
}

// UpdateIssue writes the issue fields back in one PATCH call.
func (c *Client) UpdateIssue(ctx context.Context, id int, issue *tracker.Issue) error {
	return c.do(ctx, fasthttp.MethodPatch, issuePath(id), issue, nil)
}

// AddNote appends a public note to issue issueID.
func (c *Client) AddNote(ctx context.Context, issueID int, note tracker.Note) error {
	if note.ViewState == nil {
		note.ViewState = &tracker.ObjectRef{Name: "public"}
	}
	return c.do(ctx, fasthttp.MethodPost, issuePath(issueID)+"/notes", note, nil)
}

// FindUserByEmail looks up a project member by email address.
func (c *Client) FindUserByEmail(ctx context.Context, projectID int, email string) (*tracker.User, error) {
	users, err := c.projectUsers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return tracker.MatchEmail(users, email)
}

// FindUserByName looks up a project member by username or real name.
func (c *Client) FindUserByName(ctx context.Context, projectID int, name string) (*tracker.User, error) {
	users, err := c.projectUsers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return tracker.MatchName(users, name)
}

func (c *Client) projectUsers(ctx context.Context, projectID int) ([]tracker.User, error) {
	key := fmt.Sprintf(usersCacheKey, projectID)

	if users, ok := c.cachedUsers(ctx, key); ok {
		return users, nil
	}

	// Servers that ignore page keep returning the first page; a repeated
	// first user id ends the listing, and usersMaxPages bounds it regardless.
	var (
		users     []tracker.User
		prevFirst = -1
	)
	for page := 1; page <= usersMaxPages; page++ {
		var env usersEnvelope
		path := fmt.Sprintf("/projects/%d/users?page_size=%d&page=%d", projectID, usersPageSize, page)
		if err := c.do(ctx, fasthttp.MethodGet, path, nil, &env); err != nil {
			return nil, err
		}

		if len(env.Users) > 0 && env.Users[0].ID == prevFirst {
			break
		}

		users = append(users, env.Users...)
		if len(env.Users) < usersPageSize {
			break
		}
		prevFirst = env.Users[0].ID

		if page == usersMaxPages {
			c.logger.Warn("project user listing truncated",
				zap.Int("project", projectID),
				zap.Int("pages", usersMaxPages),
			)
		}
	}

	c.storeUsers(ctx, key, users)

	return users, nil
}

func (c *Client) cachedUsers(ctx context.Context, key string) ([]tracker.User, bool) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return nil, false
	}

	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var users []tracker.User
	if err := json.Unmarshal(data, &users); err != nil {
		c.logger.Debug("discarding unreadable user cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return users, true
}

func (c *Client) storeUsers(ctx context.Context, key string, users []tracker.User) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(users)
	if err != nil {
		return
	}

	if err := c.cache.Set(ctx, key, data, c.cacheTTL); err != nil {
		c.logger.Warn("failed to cache project users", zap.String("key", key), zap.Error(err))
	}
}

func issuePath(id int) string {
	return "/issues/" + strconv.Itoa(id)
}

// do performs one request. 404 maps to tracker.ErrNotFound and other non-2xx
// answers to *tracker.APIError.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + apiPrefix + path)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, c.token)
	}

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("mantis: encode %s %s: %w", method, path, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(encoded)
	}

	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("mantis: %s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	if status == fasthttp.StatusNotFound {
		return tracker.ErrNotFound
	}
	if status < 200 || status >= 300 {
		return &tracker.APIError{
			Method:     method,
			Path:       path,
			StatusCode: status,
			Body:       string(resp.Body()),
		}
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("mantis: decode %s %s: %w", method, path, err)
	}

	return nil
}
