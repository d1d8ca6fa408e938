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

// Package lenovo implements the warranty backend for Lenovo devices using the
// Lenovo warranty lookup API, authenticated by ClientID header.
package lenovo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	fwhttp "github.com/fleetward/fleetward/pkg/http"
	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
)

const defaultBaseURL = "https://supportapi.lenovo.com/v2.5"

var (
	errUnexpectedStatusCode = errors.New("unexpected status code")
	errNotConfigured        = errors.New("lenovo credentials not configured")
)

type warrantyResponse struct {
	Serial   string `json:"Serial"`
	Product  string `json:"Product"`
	Warranty []struct {
		Type  string `json:"Type"`
		Start string `json:"Start"`
		End   string `json:"End"`
	} `json:"Warranty"`
}

// Backend fetches Lenovo warranty details. It implements warranty.Backend.
type Backend struct {
	httpClient fwhttp.Client
	baseURL    string
	logger     logger.Logger
}

// NewBackend creates a Lenovo warranty backend. baseURL may be empty to use
// the production endpoint.
func NewBackend(httpClient fwhttp.Client, baseURL string, log logger.Logger) *Backend {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Backend{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     log,
	}
}

// FetchOne looks up a single serial number.
func (b *Backend) FetchOne(ctx context.Context, device *models.Device, bundle *models.CredentialBundle) (*models.WarrantyRecord, error) {
	creds := bundle.Lenovo
	if creds == nil {
		return nil, errNotConfigured
	}

	if err := creds.Validate(); err != nil {
		return nil, err
	}

	payload, err := b.fetchWarranty(ctx, device.SerialNumber, creds.ClientID)
	if err != nil {
		return nil, err
	}

	record := models.WarrantyRecord{
		SerialNumber:       payload.Serial,
		Manufacturer:       models.ManufacturerLenovo,
		ProductDescription: payload.Product,
	}
	if record.SerialNumber == "" {
		record.SerialNumber = device.SerialNumber
	}

	for _, w := range payload.Warranty {
		if record.EndDate == "" || w.End > record.EndDate {
			record.StartDate = w.Start
			record.EndDate = w.End
		}
	}

	return &record, nil
}

// FetchBatch fetches each device sequentially, dropping failed lookups so the
// caller can mark them individually.
func (b *Backend) FetchBatch(ctx context.Context, devices []*models.Device, bundle *models.CredentialBundle) ([]models.WarrantyRecord, error) {
	records := make([]models.WarrantyRecord, 0, len(devices))

	for _, device := range devices {
		if !device.HasSerialNumber() {
			continue
		}

		record, err := b.FetchOne(ctx, device, bundle)
		if err != nil {
			b.logger.Warn().
				Err(err).
				Str("serial_number", device.SerialNumber).
				Msg("Lenovo warranty lookup failed for device in batch")

			continue
		}

		records = append(records, *record)
	}

	return records, nil
}

func (b *Backend) fetchWarranty(ctx context.Context, serial, clientID string) (*warrantyResponse, error) {
	endpoint := fmt.Sprintf("%s/warranty/%s", b.baseURL, url.PathEscape(serial))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create warranty request: %w", err)
	}

	req.Header.Set("ClientID", clientID)
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("warranty request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read warranty response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errUnexpectedStatusCode, resp.StatusCode)
	}

	var payload warrantyResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode warranty response: %w", err)
	}

	return &payload, nil
}
