package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/philatopia/internal/stamps"
)

// HTTPClient talks to the collection API at a base URL such as
// "http://localhost:8080/api".
type HTTPClient struct {
	base  string
	token string
	http  *http.Client
}

// NewHTTPClient returns a client that sends token as a bearer credential
// when it is non-empty. A nil hc uses a client with a 30s timeout.
func NewHTTPClient(baseURL, token string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{
		base:  strings.TrimRight(baseURL, "/"),
		token: token,
		http:  hc,
	}
}

func (c *HTTPClient) List(ctx context.Context, owner string, page int) (*stamps.Listing, error) {
	q := url.Values{}
	q.Set("userId", owner)
	q.Set("page", strconv.Itoa(page))

	req, err := c.request(ctx, http.MethodGet, "/collections?"+q.Encode(), nil, "")
	if err != nil {
		return nil, err
	}

	var listing stamps.Listing
	if err := c.do(req, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *HTTPClient) Update(ctx context.Context, id uuid.UUID, cmd stamps.UpdateCommand) (*stamps.Stamp, error) {
	body, contentType, err := encodeUpdate(cmd)
	if err != nil {
		return nil, err
	}

	req, err := c.request(ctx, http.MethodPut, "/collections/"+id.String(), body, contentType)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Stamp *stamps.Stamp `json:"stamp"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if resp.Stamp == nil {
		return nil, fmt.Errorf("update response missing stamp")
	}
	return resp.Stamp, nil
}

func (c *HTTPClient) Delete(ctx context.Context, id uuid.UUID) error {
	req, err := c.request(ctx, http.MethodDelete, "/collections/"+id.String(), nil, "")
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *HTTPClient) request(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends req and decodes a 2xx body into out. Failures carry the
// server's error message.
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &failure); err != nil || failure.Error == "" {
			failure.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: failure.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func encodeUpdate(cmd stamps.UpdateCommand) (io.Reader, string, error) {
	if cmd.Upload == nil {
		data, err := json.Marshal(cmd)
		if err != nil {
			return nil, "", fmt.Errorf("encode update: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]*string{
		"name":        cmd.Name,
		"description": cmd.Description,
		"country":     cmd.Country,
	}
	for name, v := range fields {
		if v != nil {
			mw.WriteField(name, *v)
		}
	}
	if cmd.YearIssued != nil {
		mw.WriteField("yearIssued", strconv.Itoa(int(*cmd.YearIssued)))
	}

	fw, err := mw.CreateFormFile("image", cmd.Upload.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("encode update: %w", err)
	}
	if _, err := fw.Write(cmd.Upload.Data); err != nil {
		return nil, "", fmt.Errorf("encode update: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("encode update: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}
