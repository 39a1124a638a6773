package cms

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

const (
	// Overloaded reads are retried this many extra times, waiting the
	// fixed delay between attempts.
	retryOverloadedMax   = 2
	retryOverloadedDelay = 500 * time.Millisecond
)

// Client issues authenticated requests against the headless backend.
// Reads are admitted through the scheduler and retried on overload;
// writes go straight out and surface failures immediately. The client
// keeps no local cache.
type Client struct {
	endpoint  string
	scheduler Scheduler
	http      *http.Client
}

func NewClient(endpoint string, scheduler Scheduler) *Client {
	if scheduler == nil {
		scheduler = NoopScheduler{}
	}
	return &Client{
		endpoint:  strings.TrimSuffix(endpoint, "/"),
		scheduler: scheduler,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

func collectionPath(collection string) string {
	if collection == "users" {
		return "/users"
	}
	return "/items/" + collection
}

type envelope struct {
	Data jsoniter.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path, token string, params url.Values, payload any, out any, viaQueue bool) error {
	target := c.endpoint + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var body []byte
	if payload != nil {
		raw, err := jsoniter.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request payload: %v", err)
		}
		body = raw
	}

	requestId := uuid.NewString()
	attempts := 0
	for {
		if viaQueue {
			if err := c.scheduler.Admit(ctx); err != nil {
				return fmt.Errorf("read admission interrupted: %v", err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to build request: %v", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if len(token) > 0 {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		log.Debug().Str("request", requestId).Str("method", method).Str("url", target).Msg("Requesting backend...")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("failed to reach backend: %v", err)
		}
		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response body: %v", err)
		}

		if resp.StatusCode == fiber.StatusTooManyRequests && viaQueue && attempts < retryOverloadedMax {
			attempts++
			log.Warn().Str("request", requestId).Int("attempt", attempts).Msg("Backend is overloaded, retrying after backoff...")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryOverloadedDelay):
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &RemoteError{Status: resp.StatusCode, Message: excerpt(raw)}
		}

		if out != nil {
			data := raw
			var env envelope
			if err := jsoniter.Unmarshal(raw, &env); err == nil && env.Data != nil {
				data = env.Data
			}
			if len(data) > 0 && string(data) != "null" {
				if err := jsoniter.Unmarshal(data, out); err != nil {
					return fmt.Errorf("failed to parse response JSON: %v", err)
				}
			}
		}
		return nil
	}
}

func excerpt(raw []byte) string {
	const limit = 256
	s := string(raw)
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

// ReadItems runs a collection query on the rate-limited read path and
// decodes the returned rows into out.
func (c *Client) ReadItems(ctx context.Context, token string, q Query, out any) error {
	return c.do(ctx, http.MethodGet, q.Path(), token, q.Encode(), nil, out, true)
}

// ReadItem fetches one record by id.
func (c *Client) ReadItem(ctx context.Context, token, collection, id string, fields []string, out any) error {
	params := url.Values{}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	return c.do(ctx, http.MethodGet, collectionPath(collection)+"/"+url.PathEscape(id), token, params, nil, out, true)
}

// Get runs a raw read against an arbitrary backend path, for
// endpoints outside the items surface such as /users/me.
func (c *Client) Get(ctx context.Context, token, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, token, params, nil, out, true)
}

func (c *Client) CreateItem(ctx context.Context, token, collection string, payload any, out any) error {
	return c.do(ctx, http.MethodPost, collectionPath(collection), token, nil, payload, out, false)
}

func (c *Client) UpdateItem(ctx context.Context, token, collection, id string, payload any, out any) error {
	return c.do(ctx, http.MethodPatch, collectionPath(collection)+"/"+url.PathEscape(id), token, nil, payload, out, false)
}

func (c *Client) DeleteItem(ctx context.Context, token, collection, id string) error {
	return c.do(ctx, http.MethodDelete, collectionPath(collection)+"/"+url.PathEscape(id), token, nil, nil, nil, false)
}

// DeleteItems removes several records in one round trip.
func (c *Client) DeleteItems(ctx context.Context, token, collection string, ids []string) error {
	return c.do(ctx, http.MethodDelete, collectionPath(collection), token, nil, ids, nil, false)
}

// Login exchanges credentials for an opaque access token at the
// backend's login endpoint.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var result struct {
		AccessToken string `json:"access_token"`
	}
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", nil, payload, &result, false); err != nil {
		return "", err
	}
	if len(result.AccessToken) == 0 {
		return "", fmt.Errorf("login answered without an access token")
	}
	return result.AccessToken, nil
}

// UploadFile forwards one file to the backend file endpoint as
// multipart form data. Validation happens before this is called.
func (c *Client) UploadFile(ctx context.Context, token, filename, contentType string, file io.Reader, out any) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to build upload form: %v", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to buffer upload: %v", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("failed to finish upload form: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/files", &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach backend: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteError{Status: resp.StatusCode, Message: excerpt(raw)}
	}

	if out != nil {
		data := raw
		var env envelope
		if err := jsoniter.Unmarshal(raw, &env); err == nil && env.Data != nil {
			data = env.Data
		}
		if err := jsoniter.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response JSON: %v", err)
		}
	}
	return nil
}

// OpenAsset streams one stored asset. The caller owns the response
// body and must close it.
func (c *Client) OpenAsset(ctx context.Context, id string) (*http.Response, error) {
	if err := c.scheduler.Admit(ctx); err != nil {
		return nil, fmt.Errorf("read admission interrupted: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/assets/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		resp.Body.Close()
		return nil, &RemoteError{Status: resp.StatusCode, Message: "asset fetch failed"}
	}
	return resp, nil
}
