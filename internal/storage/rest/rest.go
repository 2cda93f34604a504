// Package rest provides the REST-backed implementation of storage.Storage.
//
// Every operation is exactly one HTTP round trip against a single resource
// path:
//
//	GET    {base}/{resource}        list
//	GET    {base}/{resource}/{id}   get one
//	POST   {base}/{resource}        create
//	PUT    {base}/{resource}/{id}   update
//	DELETE {base}/{resource}/{id}   delete
//
// Bodies use the nested wire shape (types.Record / types.Payload); results
// are flattened before they are returned.
//
// Failures are never retried. Any network error, unexpected status or
// malformed body is reported as storage.ErrOperationFailed. The client adds
// no timeout of its own: the caller's context decides when to give up.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aanand-mishra/restaurant-directory/internal/storage"
	"github.com/aanand-mishra/restaurant-directory/internal/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Client talks to the restaurant REST backend.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ storage.Storage = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a Client for {baseURL}/{resource}.
func New(baseURL, resource string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "rest.New: parse base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("rest.New: base url %q must be absolute", baseURL)
	}

	resource = strings.Trim(resource, "/")
	if resource == "" {
		return nil, errors.New("rest.New: resource is empty")
	}

	c := &Client{
		endpoint:   u.String() + "/" + url.PathEscape(resource),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListAll fetches the full collection.
func (c *Client) ListAll(ctx context.Context) ([]types.Restaurant, error) {
	const op = "list restaurants"

	status, body, err := c.do(ctx, op, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, failure(op, "status %d", status)
	}

	var recs []types.Record
	if err := decode(op, body, &recs); err != nil {
		return nil, err
	}
	// A JSON null decodes to a nil slice; FlattenAll turns it into [].
	return types.FlattenAll(recs), nil
}

// GetByID fetches one restaurant. A 404 is reported as (zero, false, nil).
func (c *Client) GetByID(ctx context.Context, id int64) (types.Restaurant, bool, error) {
	op := "get restaurant " + strconv.FormatInt(id, 10)

	status, body, err := c.do(ctx, op, http.MethodGet, c.itemURL(id), nil)
	if err != nil {
		return types.Restaurant{}, false, err
	}
	if status == http.StatusNotFound {
		return types.Restaurant{}, false, nil
	}

	rec, err := decodeRecord(op, body)
	if err != nil {
		return types.Restaurant{}, false, err
	}
	return types.Flatten(rec), true, nil
}

// Create posts a new restaurant and returns it as the backend stored it.
func (c *Client) Create(ctx context.Context, in types.RestaurantInput) (types.Restaurant, error) {
	const op = "create restaurant"

	status, body, err := c.do(ctx, op, http.MethodPost, c.endpoint, types.Nest(in))
	if err != nil {
		return types.Restaurant{}, err
	}
	if status == http.StatusNotFound {
		return types.Restaurant{}, failure(op, "status %d", status)
	}

	rec, err := decodeRecord(op, body)
	if err != nil {
		return types.Restaurant{}, err
	}
	return types.Flatten(rec), nil
}

// Update replaces an existing restaurant. A 404 is storage.ErrNotFound.
//
// Backends that answer with an empty body (204 No Content) or a JSON null
// get the restaurant rebuilt from the id and the submitted input.
func (c *Client) Update(ctx context.Context, id int64, in types.RestaurantInput) (types.Restaurant, error) {
	op := "update restaurant " + strconv.FormatInt(id, 10)

	status, body, err := c.do(ctx, op, http.MethodPut, c.itemURL(id), types.Nest(in))
	if err != nil {
		return types.Restaurant{}, err
	}
	if status == http.StatusNotFound {
		return types.Restaurant{}, errors.Wrap(storage.ErrNotFound, op)
	}

	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return types.Flatten(types.Record{ID: id, Payload: types.Nest(in)}), nil
	}

	rec, err := decodeRecord(op, body)
	if err != nil {
		return types.Restaurant{}, err
	}
	return types.Flatten(rec), nil
}

// Delete removes a restaurant. A restaurant that is already gone (404)
// counts as deleted.
func (c *Client) Delete(ctx context.Context, id int64) error {
	op := "delete restaurant " + strconv.FormatInt(id, 10)

	status, _, err := c.do(ctx, op, http.MethodDelete, c.itemURL(id), nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		c.logger.Debug("restaurant already deleted", slog.Int64("id", id))
	}
	return nil
}

func (c *Client) itemURL(id int64) string {
	return c.endpoint + "/" + strconv.FormatInt(id, 10)
}

// do performs one request. It returns the status and body for 2xx and 404
// responses; every other outcome is an ErrOperationFailed.
func (c *Client) do(ctx context.Context, op, method, target string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, failure(op, "encode body: %v", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return 0, nil, failure(op, "build request: %v", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.With(
		slog.String("op", op),
		slog.String("method", method),
		slog.String("url", target),
		slog.String("request_id", requestID),
	)
	log.Debug("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed", slog.String("error", err.Error()))
		return 0, nil, failure(op, "%v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("read response failed", slog.String("error", err.Error()))
		return 0, nil, failure(op, "read body: %v", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		log.Debug("resource not found", slog.Int("status", resp.StatusCode))
		return resp.StatusCode, body, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error("unexpected status", slog.Int("status", resp.StatusCode))
		return 0, nil, failure(op, "status %d", resp.StatusCode)
	}

	log.Debug("request succeeded", slog.Int("status", resp.StatusCode))
	return resp.StatusCode, body, nil
}

// decodeRecord decodes one restaurant. A body without an id (including
// JSON null) does not describe a stored restaurant and is a failure.
func decodeRecord(op string, body []byte) (types.Record, error) {
	var rec types.Record
	if err := decode(op, body, &rec); err != nil {
		return types.Record{}, err
	}
	if rec.ID == 0 {
		return types.Record{}, failure(op, "response has no id")
	}
	return rec, nil
}

func decode(op string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return failure(op, "decode body: %v", err)
	}
	return nil
}

func failure(op, format string, args ...any) error {
	return errors.Wrapf(storage.ErrOperationFailed, op+": "+format, args...)
}
