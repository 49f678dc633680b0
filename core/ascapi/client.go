package ascapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"catalog-sync/core/errs"
	"catalog-sync/core/token"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.appstoreconnect.apple.com/v1"

// Client performs authenticated JSON:API calls.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewHTTPClient builds an http.Client with strict connection timeouts.
func NewHTTPClient(timeoutSeconds int) *http.Client {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	timeout := time.Duration(timeoutSeconds) * time.Second
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// New creates a Client from configuration.
func New(cfg Config) *Client {
	return NewWithHTTPClient(cfg.BaseURL, NewHTTPClient(cfg.TimeoutSeconds))
}

// NewWithHTTPClient creates a Client against baseURL using hc.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Client) resolve(path string, query url.Values) string {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.baseURL + path
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + query.Encode()
	}
	return target
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*document, error) {
	sess, ok := token.FromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no session in context: %w", errs.ErrMissingConfiguration)
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, query), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, method, path, raw)
	}

	doc := &document{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return doc, nil
}

// List fetches every page of a collection, following links.next.
func (c *Client) List(ctx context.Context, path string, query url.Values) ([]Resource, error) {
	var out []Resource
	next, q := path, query
	for next != "" {
		doc, err := c.do(ctx, http.MethodGet, next, q, nil)
		if err != nil {
			return nil, err
		}
		var page []Resource
		if len(doc.Data) > 0 {
			if err := json.Unmarshal(doc.Data, &page); err != nil {
				return nil, fmt.Errorf("decode list %s: %w", path, err)
			}
		}
		out = append(out, page...)
		next, q = doc.Links.Next, nil
	}
	return out, nil
}

// Page fetches only the first page of a collection.
func (c *Client) Page(ctx context.Context, path string, query url.Values) ([]Resource, error) {
	doc, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	var page []Resource
	if len(doc.Data) > 0 {
		if err := json.Unmarshal(doc.Data, &page); err != nil {
			return nil, fmt.Errorf("decode list %s: %w", path, err)
		}
	}
	return page, nil
}

// Get fetches one resource. A 404 or null data returns (nil, nil).
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Resource, error) {
	doc, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeOne(doc)
}

// Create posts a new resource and classifies the response.
func (c *Client) Create(ctx context.Context, path string, res Resource) Outcome {
	return c.create(ctx, path, payload{Data: res})
}

// CreateCompound posts a resource together with the inline resources it
// references by local id.
func (c *Client) CreateCompound(ctx context.Context, path string, res Resource, included []Resource) Outcome {
	return c.create(ctx, path, payload{Data: res, Included: included})
}

func (c *Client) create(ctx context.Context, path string, body payload) Outcome {
	doc, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			return Outcome{Kind: AlreadyExists, Err: err}
		}
		return Failure(err)
	}
	created, err := decodeOne(doc)
	if err != nil {
		return Failure(err)
	}
	return Outcome{Kind: Created, Resource: created}
}

// Patch updates attributes or relationships of an existing resource.
func (c *Client) Patch(ctx context.Context, path string, res Resource) (*Resource, error) {
	doc, err := c.do(ctx, http.MethodPatch, path, nil, payload{Data: res})
	if err != nil {
		return nil, err
	}
	return decodeOne(doc)
}

// PatchRelationship replaces a relationship linkage.
func (c *Client) PatchRelationship(ctx context.Context, path string, rel Identifier) error {
	_, err := c.do(ctx, http.MethodPatch, path, nil, payload{Data: rel})
	return err
}

func decodeOne(doc *document) (*Resource, error) {
	data := bytes.TrimSpace(doc.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	res := &Resource{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("decode resource: %w", err)
	}
	return res, nil
}
