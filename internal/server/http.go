package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/veilbox/veil/internal/consent"
	verrors "github.com/veilbox/veil/internal/errors"
)

// HTTPBackend talks to a real vault backend over JSON/HTTP.
//
// Only transport-level failures are retried: connection errors and 5xx
// responses, with exponential backoff. Application outcomes (404, 403,
// conflict) map straight to sentinel errors, and nothing downstream of the
// transport is ever retried.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
}

// NewHTTPBackend creates a backend client for the given base URL.
func NewHTTPBackend(baseURL string) *HTTPBackend {
	return &HTTPBackend{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// transientError marks a failure worth retrying.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func (h *HTTPBackend) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	attempt := func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := h.client.Do(req)
		if err != nil {
			return &transientError{err}
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return &transientError{fmt.Errorf("server error: %s", resp.Status)}
		}
		if err := statusToError(resp.StatusCode); err != nil {
			return backoff.Permanent(err)
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
			}
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 3 * time.Second
	policy.MaxElapsedTime = 10 * time.Second

	// Retry unwraps Permanent errors, so application outcomes come back
	// as the sentinel values statusToError produced.
	return backoff.Retry(attempt, backoff.WithContext(policy, ctx))
}

// statusToError maps non-2xx application statuses to the sentinel
// taxonomy. A 403 on an item fetch is an authorization absence, not a
// cryptographic failure.
func statusToError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return verrors.ErrItemNotFound
	case code == http.StatusForbidden:
		return verrors.ErrNoGrant
	case code == http.StatusGone:
		return verrors.ErrGrantRevoked
	case code == http.StatusConflict:
		return verrors.ErrIdentityExists
	default:
		return fmt.Errorf("unexpected response status %d", code)
	}
}

func (h *HTTPBackend) RegisterIdentity(ctx context.Context, id Identity) error {
	return h.do(ctx, http.MethodPost, "/identities", id, nil)
}

func (h *HTTPBackend) FetchPublicKey(ctx context.Context, username string) (string, error) {
	var out struct {
		PublicKeyPEM string `json:"publicKey"`
	}
	path := "/identities/" + url.PathEscape(username) + "/public-key"
	if err := h.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		if errors.Is(err, verrors.ErrItemNotFound) {
			return "", fmt.Errorf("%w: %s", verrors.ErrIdentityNotFound, username)
		}
		return "", err
	}
	return out.PublicKeyPEM, nil
}

func (h *HTTPBackend) PutItem(ctx context.Context, rec ItemRecord) error {
	return h.do(ctx, http.MethodPost, "/items", rec, nil)
}

func (h *HTTPBackend) UpdateItemPayload(ctx context.Context, itemID, owner, encryptedData, iv string) error {
	body := map[string]string{
		"owner":         owner,
		"encryptedData": encryptedData,
		"iv":            iv,
	}
	return h.do(ctx, http.MethodPut, "/items/"+url.PathEscape(itemID), body, nil)
}

func (h *HTTPBackend) GetItem(ctx context.Context, itemID, requester string) (*ItemView, error) {
	var out ItemView
	path := "/items/" + url.PathEscape(itemID) + "?requester=" + url.QueryEscape(requester)
	if err := h.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTPBackend) ListItems(ctx context.Context, username string) ([]ItemSummary, error) {
	var out []ItemSummary
	path := "/items?owner=" + url.QueryEscape(username)
	if err := h.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *HTTPBackend) DeleteItem(ctx context.Context, itemID, owner string) error {
	path := "/items/" + url.PathEscape(itemID) + "?owner=" + url.QueryEscape(owner)
	return h.do(ctx, http.MethodDelete, path, nil, nil)
}

func (h *HTTPBackend) RequestAccess(ctx context.Context, itemID, seeker string, allowedViews int, ttl time.Duration) (string, error) {
	body := map[string]any{
		"itemId":       itemID,
		"seeker":       seeker,
		"allowedViews": allowedViews,
		"ttlSeconds":   int(ttl / time.Second),
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := h.do(ctx, http.MethodPost, "/requests", body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (h *HTTPBackend) ListRequests(ctx context.Context, provider string) ([]Request, error) {
	var out []Request
	path := "/requests?provider=" + url.QueryEscape(provider)
	if err := h.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		status, err := consent.ParseStatus(out[i].StatusName)
		if err != nil {
			return nil, err
		}
		out[i].Status = status
	}
	return out, nil
}

func (h *HTTPBackend) Approve(ctx context.Context, requestID string, wrappedKeyForSeeker string) error {
	body := map[string]string{"encryptedAESKey": wrappedKeyForSeeker}
	return h.do(ctx, http.MethodPost, "/requests/"+url.PathEscape(requestID)+"/approve", body, nil)
}

func (h *HTTPBackend) Decide(ctx context.Context, requestID string, status consent.Status) error {
	body := map[string]string{"status": status.String()}
	return h.do(ctx, http.MethodPost, "/requests/"+url.PathEscape(requestID)+"/decide", body, nil)
}
