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

// Package datto pulls device inventory from the Datto RMM v2 API.
package datto

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fleetward/fleetward/pkg/devicesource"
	fwhttp "github.com/fleetward/fleetward/pkg/http"
	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
)

const (
	// pageSize is the Datto RMM maximum page size.
	pageSize = 250

	defaultTimeout = 30 * time.Second
)

var (
	errUnexpectedStatusCode = errors.New("unexpected status code")
	errAPIKeyRequired       = errors.New("datto source: api_key credential is required")
	errAPISecretRequired    = errors.New("datto source: api_secret credential is required")
	errEndpointRequired     = errors.New("datto source: endpoint is required")
)

func init() {
	devicesource.RegisterFactory("datto", func(config *models.SourceConfig, log logger.Logger) (devicesource.Integration, error) {
		return NewIntegration(config, log)
	})
}

// Integration implements devicesource.Integration against Datto RMM.
type Integration struct {
	config     *models.SourceConfig
	httpClient fwhttp.Client
	logger     logger.Logger

	token       string
	tokenExpiry time.Time
}

// NewIntegration validates the source config and builds the Datto client.
func NewIntegration(config *models.SourceConfig, log logger.Logger) (*Integration, error) {
	if config.Endpoint == "" {
		return nil, errEndpointRequired
	}

	if config.Credentials["api_key"] == "" {
		return nil, errAPIKeyRequired
	}

	if config.Credentials["api_secret"] == "" {
		return nil, errAPISecretRequired
	}

	transport := &http.Transport{}
	if config.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // operator opt-in for self-signed RMM certs
	}

	client := fwhttp.NewBreakerClient(
		&http.Client{Transport: transport, Timeout: defaultTimeout},
		"datto", fwhttp.DefaultBreakerConfig(), log)

	return &Integration{
		config:     config,
		httpClient: client,
		logger:     log,
	}, nil
}

// Fetch returns every device visible to the API credentials, walking all
// pages.
func (i *Integration) Fetch(ctx context.Context) ([]models.Device, error) {
	if err := i.authenticate(ctx); err != nil {
		return nil, err
	}

	var devices []models.Device

	page := 0

	for {
		batch, more, err := i.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		devices = append(devices, batch...)

		if !more {
			break
		}

		page++
	}

	i.logger.Info().
		Int("devices", len(devices)).
		Int("pages", page+1).
		Msg("Fetched Datto RMM inventory")

	return devices, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (i *Integration) authenticate(ctx context.Context) error {
	if i.token != "" && time.Now().Before(i.tokenExpiry) {
		return nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", i.config.Credentials["api_key"])
	form.Set("password", i.config.Credentials["api_secret"])

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		i.config.Endpoint+"/auth/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create auth request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("public-client", "public")

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", errUnexpectedStatusCode, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}

	i.token = token.AccessToken
	// Refresh a minute early so in-flight pagination never runs off an
	// expired token.
	i.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - time.Minute)

	return nil
}

type devicesPage struct {
	PageDetails struct {
		NextPageURL string `json:"nextPageUrl"`
	} `json:"pageDetails"`
	Devices []dattoDevice `json:"devices"`
}

type dattoDevice struct {
	UID          string `json:"uid"`
	Hostname     string `json:"hostname"`
	SerialNumber string `json:"serialNumber"`
	DeviceType   struct {
		Category string `json:"category"`
	} `json:"deviceType"`
	SiteUID      string `json:"siteUid"`
	SiteName     string `json:"siteName"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	CreationDate int64  `json:"creationDate"`
	LastSeen     int64  `json:"lastSeen"`
}

func (i *Integration) fetchPage(ctx context.Context, page int) ([]models.Device, bool, error) {
	q := url.Values{}
	q.Set("max", strconv.Itoa(pageSize))
	q.Set("page", strconv.Itoa(page))

	endpoint := i.config.Endpoint + "/api/v2/account/devices?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create devices request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+i.token)
	req.Header.Set("Accept", "application/json")

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("devices request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read devices response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("%w: %d", errUnexpectedStatusCode, resp.StatusCode)
	}

	var payload devicesPage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false, fmt.Errorf("failed to decode devices response: %w", err)
	}

	devices := make([]models.Device, 0, len(payload.Devices))
	for idx := range payload.Devices {
		devices = append(devices, toDevice(&payload.Devices[idx]))
	}

	return devices, payload.PageDetails.NextPageURL != "", nil
}

func toDevice(d *dattoDevice) models.Device {
	device := models.Device{
		DeviceID:     d.UID,
		SerialNumber: d.SerialNumber,
		Manufacturer: d.Manufacturer,
		Model:        d.Model,
		Hostname:     d.Hostname,
		ClientID:     d.SiteUID,
		ClientName:   d.SiteName,
		Source:       "datto",
		Metadata: map[string]string{
			"category": d.DeviceType.Category,
		},
	}

	if d.CreationDate > 0 {
		device.FirstSeen = time.UnixMilli(d.CreationDate).UTC()
	}

	if d.LastSeen > 0 {
		device.LastSeen = time.UnixMilli(d.LastSeen).UTC()
	}

	return device
}
