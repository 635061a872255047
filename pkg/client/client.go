package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 12
	defaultMirror   = "offline_tasks.json"
	requestTimeout  = 10 * time.Second
)

// Options configures a Client.
type Options struct {
	// BaseURL is the server root, e.g. http://localhost:8085.
	BaseURL string
	// Token is the bearer token sent with every request. TokenProvider
	// wins when both are set.
	Token         string
	TokenProvider func() string
	// MirrorPath is the local mirror file used when offline.
	MirrorPath string
	HTTPClient *http.Client
	Monitor    MonitorConfig
}

// Client mirrors the server's CRUD surface and falls back to the local
// mirror when the connectivity monitor says offline, or when a call is
// rejected as unauthenticated.
type Client struct {
	baseURL string
	http    *http.Client
	token   func() string
	store   *Store
	monitor *Monitor
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("client: BaseURL is required")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid BaseURL: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	mirror := opts.MirrorPath
	if mirror == "" {
		mirror = defaultMirror
	}

	token := opts.TokenProvider
	if token == nil {
		fixed := opts.Token
		token = func() string { return fixed }
	}

	monitorCfg := opts.Monitor
	if monitorCfg.ProbeURL == "" {
		monitorCfg.ProbeURL = base.JoinPath("/api/health").String()
	}
	if monitorCfg.HTTPClient == nil {
		monitorCfg.HTTPClient = httpClient
	}

	c := &Client{
		baseURL: base.String(),
		http:    httpClient,
		token:   token,
		store:   NewStore(mirror),
		monitor: NewMonitor(monitorCfg),
	}
	c.monitor.Start()
	return c, nil
}

// Monitor exposes the connectivity state container for subscription.
func (c *Client) Monitor() *Monitor {
	return c.monitor
}

func (c *Client) Close() {
	c.monitor.Stop()
}

// List returns one page of tasks. Online, a successful unfiltered
// first-page fetch overwrites the local mirror; offline the mirror is
// filtered and paginated with the server's rules.
func (c *Client) List(ctx context.Context, f Filters) (Page, error) {
	if !c.monitor.Online() {
		return c.localPage(f), nil
	}

	query := url.Values{}
	if f.Status != "" && f.Status != StatusAll {
		query.Set("status", f.Status)
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	resp, err := c.do(ctx, http.MethodGet, "/api/tasks?"+query.Encode(), nil)
	if err != nil {
		// Connectivity trouble is absorbed, not surfaced; the monitor
		// flips to offline once the grace window expires.
		zap.L().Debug("list request failed, serving mirror", zap.Error(err))
		return c.localPage(f), nil
	}
	defer closeBody(resp)

	if resp.StatusCode == http.StatusUnauthorized {
		return c.localPage(f), nil
	}
	if resp.StatusCode != http.StatusOK {
		return Page{}, decodeAPIError(resp)
	}

	var wire listWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return Page{}, err
	}

	items := make([]Task, 0, len(wire.Items))
	for _, w := range wire.Items {
		items = append(items, w.toTask())
	}

	unfiltered := f.Status == "" || f.Status == StatusAll
	if page == 1 && unfiltered {
		if err := c.store.Save(items); err != nil {
			zap.L().Warn("failed to refresh task mirror", zap.Error(err))
		}
	}

	return Page{Items: items, Total: wire.Total, Page: page, PageSize: pageSize}, nil
}

func (c *Client) Get(ctx context.Context, id string) (Task, error) {
	if !c.monitor.Online() {
		return c.localGet(id)
	}

	resp, err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil)
	if err != nil {
		return c.localGet(id)
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		var w taskWire
		if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
			return Task{}, err
		}
		return w.toTask(), nil
	case http.StatusUnauthorized:
		return c.localGet(id)
	case http.StatusNotFound:
		return Task{}, ErrTaskNotFound
	default:
		return Task{}, decodeAPIError(resp)
	}
}

func (c *Client) Create(ctx context.Context, input CreateTaskInput) (Task, error) {
	if !c.monitor.Online() {
		return c.localCreate(input)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/tasks", input.toWire())
	if err != nil {
		return c.localCreate(input)
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusCreated:
		var w taskWire
		if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
			return Task{}, err
		}
		return w.toTask(), nil
	case http.StatusUnauthorized:
		// Not signed in: keep the work locally instead of losing it.
		return c.localCreate(input)
	default:
		return Task{}, decodeAPIError(resp)
	}
}

func (c *Client) Update(ctx context.Context, id string, patch TaskPatch) error {
	if !c.monitor.Online() {
		return c.localUpdate(id, patch)
	}

	resp, err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), patch.toWire())
	if err != nil {
		return c.localUpdate(id, patch)
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusUnauthorized:
		return c.localUpdate(id, patch)
	case http.StatusNotFound:
		return ErrTaskNotFound
	default:
		return decodeAPIError(resp)
	}
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if !c.monitor.Online() {
		return c.store.Remove(id)
	}

	resp, err := c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil)
	if err != nil {
		return c.store.Remove(id)
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusUnauthorized:
		return c.store.Remove(id)
	case http.StatusNotFound:
		return ErrTaskNotFound
	default:
		return decodeAPIError(resp)
	}
}

// Me fetches the authenticated principal's identity and roles.
func (c *Client) Me(ctx context.Context) (MeInfo, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return MeInfo{}, err
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return MeInfo{}, decodeAPIError(resp)
	}

	var me MeInfo
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return MeInfo{}, err
	}
	return me, nil
}

// MeInfo is the identity summary returned by the server.
type MeInfo struct {
	Sub               string   `json:"sub"`
	PreferredUsername string   `json:"preferred_username"`
	Email             string   `json:"email"`
	Roles             []string `json:"roles"`
}

func (c *Client) localPage(f Filters) Page {
	return Paginate(FilterTasks(c.store.Load(), f), f)
}

func (c *Client) localGet(id string) (Task, error) {
	for _, t := range c.store.Load() {
		if t.ID == id {
			return t, nil
		}
	}
	return Task{}, ErrTaskNotFound
}

func (c *Client) localCreate(input CreateTaskInput) (Task, error) {
	status := input.Status
	if status == "" {
		status = "Pending"
	}
	now := nowStamp()

	task := Task{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      status,
		AssignedTo:  input.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Title == "" {
		task.Title = "Untitled"
	}

	if err := c.store.InsertFront(task); err != nil {
		return Task{}, err
	}
	return task, nil
}

func (c *Client) localUpdate(id string, patch TaskPatch) error {
	found, err := c.store.Patch(id, patch, nowStamp())
	if err != nil {
		return err
	}
	if !found {
		return ErrTaskNotFound
	}
	return nil
}

// do issues one authenticated request. Any completed exchange, whatever
// the status code, refreshes the monitor's known-good timestamp.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	c.monitor.MarkOK()
	return resp, nil
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
