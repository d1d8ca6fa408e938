/*
 * Copyright 2026 Fleetward Labs.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dell

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	fwhttp "github.com/fleetward/fleetward/pkg/http"
)

// TokenProvider fetches a Dell TechDirect API access token.
type TokenProvider interface {
	GetAccessToken(ctx context.Context) (string, error)
}

// ClientCredentialsProvider implements TokenProvider against the Dell OAuth2
// client-credentials token endpoint.
type ClientCredentialsProvider struct {
	httpClient   fwhttp.Client
	tokenURL     string
	clientID     string
	clientSecret string
}

// NewClientCredentialsProvider creates a token provider for the given Dell
// API credentials.
func NewClientCredentialsProvider(httpClient fwhttp.Client, tokenURL, clientID, clientSecret string) *ClientCredentialsProvider {
	return &ClientCredentialsProvider{
		httpClient:   httpClient,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// GetAccessToken requests a fresh access token.
func (p *ClientCredentialsProvider) GetAccessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.clientID)
	form.Set("client_secret", p.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errTokenRequestFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", errUnexpectedStatusCode, resp.StatusCode)
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	if token.AccessToken == "" {
		return "", errEmptyAccessToken
	}

	return token.AccessToken, nil
}

// CachedTokenProvider wraps a TokenProvider and caches the access token
type CachedTokenProvider struct {
	provider TokenProvider
	mu       sync.RWMutex
	token    string
	expiry   time.Time
}

// NewCachedTokenProvider creates a new cached token provider
func NewCachedTokenProvider(provider TokenProvider) *CachedTokenProvider {
	return &CachedTokenProvider{
		provider: provider,
	}
}

// GetAccessToken returns a cached token if valid, otherwise fetches a new one
func (c *CachedTokenProvider) GetAccessToken(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.token != "" && time.Now().Before(c.expiry) {
		token := c.token
		c.mu.RUnlock()

		return token, nil
	}
	c.mu.RUnlock()

	// Need to fetch a new token
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check in case another goroutine already fetched a token
	if c.token != "" && time.Now().Before(c.expiry) {
		return c.token, nil
	}

	// Fetch new token
	token, err := c.provider.GetAccessToken(ctx)
	if err != nil {
		return "", err
	}

	// Cache the token with a conservative expiry. Dell tokens last an hour,
	// so refresh after 45 minutes.
	c.token = token
	c.expiry = time.Now().Add(45 * time.Minute)

	return token, nil
}

// InvalidateToken clears the cached token
func (c *CachedTokenProvider) InvalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.expiry = time.Time{}
}
