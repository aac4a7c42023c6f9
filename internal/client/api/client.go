// Package api is the CLI's client for the songkeeper JSON API.
package api

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

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/dmitrijs2005/songkeeper/internal/netx"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", nil, nil)
}

// Register returns the document id of the new user.
func (c *Client) Register(ctx context.Context, u NewUser) (string, error) {
	var resp struct {
		ID string `json:"_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/users", u, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Login stores the returned token for later calls.
func (c *Client) Login(ctx context.Context, userID, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"user_id": userID, "password": password}
	if err := c.do(ctx, http.MethodPost, "/users/login", body, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

func (c *Client) ListSongs(ctx context.Context, page int) (*SongPage, error) {
	var p SongPage
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/songs?page=%d", page), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetSong(ctx context.Context, id int64) (*SongDetail, error) {
	var d SongDetail
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/songs/%d", id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) CreateSong(ctx context.Context, s NewSong) (int64, error) {
	return c.create(ctx, "/songs", s)
}

func (c *Client) DeleteSong(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/songs/%d", id), nil, nil)
}

func (c *Client) CreateReview(ctx context.Context, r NewReview) (int64, error) {
	return c.create(ctx, "/reviews", r)
}

// CreatePhoto returns the new photo id and the URL to PUT the image to.
func (c *Client) CreatePhoto(ctx context.Context, p NewPhoto) (int64, string, error) {
	var resp struct {
		ID        int64  `json:"id"`
		UploadURL string `json:"uploadURL"`
	}
	if err := c.do(ctx, http.MethodPost, "/photos", p, &resp); err != nil {
		return 0, "", err
	}
	return resp.ID, resp.UploadURL, nil
}

// Upload sends an image to a presigned URL returned by CreatePhoto.
func (c *Client) Upload(ctx context.Context, uploadURL string, data []byte) error {
	return netx.UploadToPresignedURL(ctx, c.http, uploadURL, data)
}

// MySongs lists the songs of userID. It needs a token for that user.
func (c *Client) MySongs(ctx context.Context, userID string) ([]Song, error) {
	var resp struct {
		Records []Song `json:"records"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/songs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

func (c *Client) create(ctx context.Context, path string, body any) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &StatusError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
