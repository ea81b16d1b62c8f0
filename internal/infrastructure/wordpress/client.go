// Package wordpress implements the content backend over the WordPress REST API.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"AutoPublisher/internal/config"
	"AutoPublisher/internal/domain"
	"AutoPublisher/internal/ports"
)

const defaultTimeout = 20 * time.Second

// Client talks to /wp/v2 endpoints with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var (
	_ ports.ContentBackend = (*Client)(nil)
	_ ports.MediaUploader  = (*Client)(nil)
)

// NewClient creates a reusable client from explicit configuration.
func NewClient(cfg config.WordPressConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
	}
}

// APIError carries a non-2xx answer from WordPress.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("wordpress returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("wordpress returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

type rendered struct {
	Rendered string `json:"rendered"`
}

type postResponse struct {
	ID            int64    `json:"id"`
	Title         rendered `json:"title"`
	Content       rendered `json:"content"`
	Status        string   `json:"status"`
	FeaturedMedia int64    `json:"featured_media"`
	Link          string   `json:"link"`
}

func (p postResponse) toRecord() domain.RemoteRecord {
	return domain.RemoteRecord{
		ID:            p.ID,
		Title:         PlainText(p.Title.Rendered),
		RenderedBody:  p.Content.Rendered,
		Status:        domain.PostStatus(p.Status),
		FeaturedMedia: p.FeaturedMedia,
		Link:          p.Link,
	}
}

type postRequest struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Status        string `json:"status,omitempty"`
	FeaturedMedia int64  `json:"featured_media,omitempty"`
}

func newPostRequest(input domain.PostInput) postRequest {
	return postRequest{
		Title:         input.Title,
		Content:       input.Content,
		Status:        string(input.Status),
		FeaturedMedia: input.FeaturedMedia,
	}
}

// SearchPosts runs the backend's fuzzy search; callers must verify titles themselves.
func (c *Client) SearchPosts(ctx context.Context, title string) ([]domain.RemoteRecord, error) {
	query := url.Values{}
	query.Set("search", title)

	var posts []postResponse
	if err := c.do(ctx, http.MethodGet, "/posts?"+query.Encode(), nil, "", &posts); err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}

	records := make([]domain.RemoteRecord, 0, len(posts))
	for _, p := range posts {
		records = append(records, p.toRecord())
	}
	return records, nil
}

// GetPost fetches one post; a 404 maps to domain.ErrPostNotFound.
func (c *Client) GetPost(ctx context.Context, id int64) (domain.RemoteRecord, error) {
	var post postResponse
	err := c.do(ctx, http.MethodGet, "/posts/"+strconv.FormatInt(id, 10), nil, "", &post)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return domain.RemoteRecord{}, fmt.Errorf("get post %d: %w", id, domain.ErrPostNotFound)
		}
		return domain.RemoteRecord{}, fmt.Errorf("get post %d: %w", id, err)
	}
	return post.toRecord(), nil
}

// CreatePost publishes a new post.
func (c *Client) CreatePost(ctx context.Context, input domain.PostInput) (domain.RemoteRecord, error) {
	var post postResponse
	if err := c.doJSON(ctx, http.MethodPost, "/posts", newPostRequest(input), &post); err != nil {
		return domain.RemoteRecord{}, fmt.Errorf("create post: %w", err)
	}
	return post.toRecord(), nil
}

// UpdatePost sends title and content only; status and media are left untouched.
func (c *Client) UpdatePost(ctx context.Context, id int64, input domain.PostInput) (domain.RemoteRecord, error) {
	payload := postRequest{Title: input.Title, Content: input.Content}

	var post postResponse
	if err := c.doJSON(ctx, http.MethodPost, "/posts/"+strconv.FormatInt(id, 10), payload, &post); err != nil {
		return domain.RemoteRecord{}, fmt.Errorf("update post %d: %w", id, err)
	}
	return post.toRecord(), nil
}

// UploadMedia sends data as a multipart "file" field and returns the media id.
func (c *Client) UploadMedia(ctx context.Context, filename string, data []byte) (int64, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return 0, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return 0, fmt.Errorf("write form file: %w", err)
	}
	if err := form.Close(); err != nil {
		return 0, fmt.Errorf("close form: %w", err)
	}

	var media struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/media", &buf, form.FormDataContentType(), &media); err != nil {
		return 0, fmt.Errorf("upload media: %w", err)
	}
	if media.ID == 0 {
		return 0, fmt.Errorf("upload media: response without id")
	}
	return media.ID, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(body), "application/json", v)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, v any) error {
	if c.baseURL == "" {
		return fmt.Errorf("wordpress client misconfigured")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeAPIError(resp)
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}

	var wpErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &wpErr) == nil && wpErr.Code != "" {
		apiErr.Code = wpErr.Code
		apiErr.Message = wpErr.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}
