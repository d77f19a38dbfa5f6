package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/plms/internal/client/models"
	"github.com/dmitrijs2005/plms/internal/netx"
)

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	// storage talks to presigned URLs and has no cookie jar.
	storage *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url must be http or https: %q", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: timeout},
		storage: &http.Client{Timeout: timeout},
	}, nil
}

type loginResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
}

type meResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user"`
}

func (c *HTTPClient) Login(ctx context.Context, name, password string) (*models.User, error) {
	var resp loginResponse
	body := map[string]string{"name": name, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, ErrServer
	}
	return resp.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var resp meResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Authenticated || resp.User == nil {
		return nil, ErrUnauthorized
	}
	return resp.User, nil
}

func (c *HTTPClient) ListTools(ctx context.Context, limit, offset int) (*models.ToolPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var page models.ToolPage
	if err := c.do(ctx, http.MethodGet, "/api/tools?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) CreateTool(ctx context.Context, t models.NewTool) (*models.Tool, error) {
	var tool models.Tool
	if err := c.do(ctx, http.MethodPost, "/api/tools", t, &tool); err != nil {
		return nil, err
	}
	return &tool, nil
}

func (c *HTTPClient) UploadDocument(ctx context.Context, toolID string, body io.Reader, size int64) (string, error) {
	var up models.DocumentUpload
	if err := c.do(ctx, http.MethodPost, "/api/tools/"+url.PathEscape(toolID)+"/document", nil, &up); err != nil {
		return "", err
	}
	if err := netx.PutPresigned(ctx, c.storage, up.UploadURL, body, size); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// The tool only points at the document once the bytes are stored.
	commit := map[string]string{"key": up.Key}
	if err := c.do(ctx, http.MethodPut, "/api/tools/"+url.PathEscape(toolID)+"/document", commit, nil); err != nil {
		return "", err
	}
	return up.Key, nil
}

func (c *HTTPClient) DocumentLink(ctx context.Context, toolID string) (*models.DocumentLink, error) {
	var link models.DocumentLink
	if err := c.do(ctx, http.MethodGet, "/api/tools/"+url.PathEscape(toolID)+"/document", nil, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrServer, err)
	}
	return nil
}

func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusBadRequest:
		return ErrInvalidInput
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusConflict:
		return ErrConflict
	default:
		return fmt.Errorf("%w: status %d", ErrServer, code)
	}
}
