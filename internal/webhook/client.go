package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/feedworks/stockpipe/internal/feed"
)

type Options struct {
	URL        string
	HTTPClient *http.Client

	// Optional auth. Empty values leave the request unauthenticated.
	APIKey        string
	SigningKeyPEM string
	Issuer        string
}

// Client delivers merged inventory payloads to the configured consumer with
// a single JSON POST per key.
type Client struct {
	url        string
	httpClient *http.Client
	apiKey     string
	signer     *TokenSigner
}

func NewClient(opts Options) (*Client, error) {
	if opts.URL == "" {
		return nil, errors.New("webhook url is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}

	var signer *TokenSigner
	if opts.SigningKeyPEM != "" {
		s, err := NewTokenSigner(opts.SigningKeyPEM, opts.Issuer)
		if err != nil {
			return nil, fmt.Errorf("webhook signing key invalid: %w", err)
		}
		signer = s
	}

	return &Client{
		url:        opts.URL,
		httpClient: httpClient,
		apiKey:     opts.APIKey,
		signer:     signer,
	}, nil
}

// Deliver posts {senderID: records} to the consumer. Success is any HTTP
// response; only transport-level faults count as delivery failures.
func (c *Client) Deliver(ctx context.Context, senderID string, records []feed.Record) error {
	body, err := json.Marshal(map[string][]feed.Record{senderID: records})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	if c.signer != nil {
		token, err := c.signer.Mint(senderID)
		if err != nil {
			return fmt.Errorf("mint webhook token failed: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
