package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/gabriel-vasile/mimetype"
)

// TokenSource supplies the bearer token for authenticated calls. An empty
// token sends the request anonymously.
type TokenSource interface {
	AccessToken() string
}

// API is the HTTP transport shared by every client component.
type API struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func NewAPI(baseURL string, httpClient *http.Client, tokens TokenSource) *API {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &API{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		http:    httpClient,
		tokens:  tokens,
	}
}

func (a *API) get(ctx context.Context, path string, out any) error {
	return a.do(ctx, http.MethodGet, path, nil, out)
}

func (a *API) post(ctx context.Context, path string, body, out any) error {
	return a.do(ctx, http.MethodPost, path, body, out)
}

func (a *API) patch(ctx context.Context, path string, body, out any) error {
	return a.do(ctx, http.MethodPatch, path, body, out)
}

func (a *API) delete(ctx context.Context, path string, out any) error {
	return a.do(ctx, http.MethodDelete, path, nil, out)
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req, out)
}

// upload posts a raw image body.
func (a *API) upload(ctx context.Context, path string, data []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", mimetype.Detect(data).String())
	return a.send(req, out)
}

func (a *API) send(req *http.Request, out any) error {
	if a.tokens != nil {
		if token := a.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := a.http.Do(req)
	if err != nil {
		if req.Method == http.MethodGet {
			return fmt.Errorf("%w: %v", ErrRemoteRead, err)
		}
		return fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var body dto.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return newAPIError(req.Method, resp.StatusCode, body.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrRemoteRead, err)
	}
	return nil
}
