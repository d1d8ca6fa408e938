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

// Package dell implements the warranty backend for Dell devices on top of the
// TechDirect asset-entitlements API.
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

	fwhttp "github.com/fleetward/fleetward/pkg/http"
	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
)

const (
	defaultTokenURL        = "https://apigtwb2c.us.dell.com/auth/oauth/v2/token" //nolint:gosec // API endpoint, not a credential
	defaultEntitlementsURL = "https://apigtwb2c.us.dell.com/PROD/sbil/eapi/v5/asset-entitlements"

	// maxSerialsPerRequest is the Dell API limit on service tags per call.
	maxSerialsPerRequest = 100
)

// Backend fetches warranty entitlements from the Dell TechDirect API. It
// implements warranty.Backend. One Backend is shared across lookup runs, so
// the token cache is guarded and rebuilt when a run supplies different
// credentials.
type Backend struct {
	httpClient      fwhttp.Client
	tokenURL        string
	entitlementsURL string
	logger          logger.Logger

	mu         sync.Mutex
	tokens     *CachedTokenProvider
	tokenCreds models.DellCredentials
}

// Option customizes a Backend.
type Option func(*Backend)

// WithEndpoints overrides the token and entitlements URLs, mainly for tests.
func WithEndpoints(tokenURL, entitlementsURL string) Option {
	return func(b *Backend) {
		b.tokenURL = tokenURL
		b.entitlementsURL = entitlementsURL
	}
}

// NewBackend creates a Dell warranty backend using the given HTTP client.
func NewBackend(httpClient fwhttp.Client, log logger.Logger, opts ...Option) *Backend {
	b := &Backend{
		httpClient:      httpClient,
		tokenURL:        defaultTokenURL,
		entitlementsURL: defaultEntitlementsURL,
		logger:          log,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// FetchOne looks up a single device by service tag.
func (b *Backend) FetchOne(ctx context.Context, device *models.Device, bundle *models.CredentialBundle) (*models.WarrantyRecord, error) {
	records, err := b.FetchBatch(ctx, []*models.Device{device}, bundle)
	if err != nil {
		return nil, err
	}

	serial := strings.ToUpper(device.SerialNumber)
	for i := range records {
		if strings.ToUpper(records[i].SerialNumber) == serial {
			return &records[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", errSerialNotInResponse, device.SerialNumber)
}

// FetchBatch looks up warranty entitlements for up to maxSerialsPerRequest
// devices per API call, chunking larger inputs. Serials absent from the Dell
// response are absent from the returned slice; the caller decides how to
// represent them.
func (b *Backend) FetchBatch(ctx context.Context, devices []*models.Device, bundle *models.CredentialBundle) ([]models.WarrantyRecord, error) {
	creds := bundle.Dell
	if creds == nil {
		return nil, errNotConfigured
	}

	if err := creds.Validate(); err != nil {
		return nil, err
	}

	tokens := b.tokenProvider(creds)

	serials := make([]string, 0, len(devices))

	for _, d := range devices {
		if d.HasSerialNumber() {
			serials = append(serials, d.SerialNumber)
		}
	}

	records := make([]models.WarrantyRecord, 0, len(serials))

	for start := 0; start < len(serials); start += maxSerialsPerRequest {
		end := start + maxSerialsPerRequest
		if end > len(serials) {
			end = len(serials)
		}

		assets, err := b.fetchEntitlements(ctx, tokens, serials[start:end])
		if err != nil {
			return nil, err
		}

		for i := range assets {
			records = append(records, assetToRecord(&assets[i]))
		}
	}

	b.logger.Debug().
		Int("requested", len(serials)).
		Int("returned", len(records)).
		Msg("Fetched Dell asset entitlements")

	return records, nil
}

// tokenProvider returns the shared token cache, building a fresh one when no
// cache exists yet or the caller's credential snapshot differs from the one
// the cache was built with.
func (b *Backend) tokenProvider(creds *models.DellCredentials) *CachedTokenProvider {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.tokens == nil || b.tokenCreds != *creds {
		b.tokens = NewCachedTokenProvider(
			NewClientCredentialsProvider(b.httpClient, b.tokenURL, creds.ClientID, creds.ClientSecret))
		b.tokenCreds = *creds
	}

	return b.tokens
}

func (b *Backend) fetchEntitlements(ctx context.Context, tokens *CachedTokenProvider, serials []string) ([]AssetEntitlements, error) {
	token, err := tokens.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	assets, status, err := b.doEntitlementsRequest(ctx, token, serials)
	if status == http.StatusUnauthorized {
		// Token may have expired early. Refresh once and retry.
		tokens.InvalidateToken()

		token, err = tokens.GetAccessToken(ctx)
		if err != nil {
			return nil, err
		}

		assets, _, err = b.doEntitlementsRequest(ctx, token, serials)
	}

	return assets, err
}

func (b *Backend) doEntitlementsRequest(ctx context.Context, token string, serials []string) ([]AssetEntitlements, int, error) {
	q := url.Values{}
	q.Set("servicetags", strings.Join(serials, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.entitlementsURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create entitlements request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("entitlements request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read entitlements response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("%w: %d", errUnexpectedStatusCode, resp.StatusCode)
	}

	var assets []AssetEntitlements
	if err := json.Unmarshal(body, &assets); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode entitlements response: %w", err)
	}

	return assets, resp.StatusCode, nil
}

// assetToRecord picks the entitlement with the latest end date; an asset can
// carry the original warranty plus extended service contracts.
func assetToRecord(asset *AssetEntitlements) models.WarrantyRecord {
	record := models.WarrantyRecord{
		SerialNumber:       asset.ServiceTag,
		Manufacturer:       models.ManufacturerDell,
		ProductDescription: asset.ProductLineDescription,
	}

	for i := range asset.Entitlements {
		ent := &asset.Entitlements[i]
		if record.EndDate == "" || ent.EndDate > record.EndDate {
			record.StartDate = ent.StartDate
			record.EndDate = ent.EndDate
		}
	}

	return record
}
