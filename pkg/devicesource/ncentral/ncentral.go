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

// Package ncentral pulls device inventory from the N-able N-central REST API.
// Authentication exchanges a long-lived JWT for a short-lived access token.
package ncentral

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
	"time"

	"github.com/fleetward/fleetward/pkg/devicesource"
	fwhttp "github.com/fleetward/fleetward/pkg/http"
	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
)

const (
	pageSize       = 500
	defaultTimeout = 30 * time.Second
)

var (
	errUnexpectedStatusCode = errors.New("unexpected status code")
	errJWTRequired          = errors.New("ncentral source: jwt credential is required")
	errEndpointRequired     = errors.New("ncentral source: endpoint is required")
	errEmptyAccessToken     = errors.New("ncentral auth response contained no access token")
)

func init() {
	devicesource.RegisterFactory("ncentral", func(config *models.SourceConfig, log logger.Logger) (devicesource.Integration, error) {
		return NewIntegration(config, log)
	})
}

// Integration implements devicesource.Integration against N-central.
type Integration struct {
	config     *models.SourceConfig
	httpClient fwhttp.Client
	logger     logger.Logger

	accessToken string
}

// NewIntegration validates the source config and builds the N-central client.
func NewIntegration(config *models.SourceConfig, log logger.Logger) (*Integration, error) {
	if config.Endpoint == "" {
		return nil, errEndpointRequired
	}

	if config.Credentials["jwt"] == "" {
		return nil, errJWTRequired
	}

	transport := &http.Transport{}
	if config.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // operator opt-in for self-signed RMM certs
	}

	client := fwhttp.NewBreakerClient(
		&http.Client{Transport: transport, Timeout: defaultTimeout},
		"ncentral", fwhttp.DefaultBreakerConfig(), log)

	return &Integration{
		config:     config,
		httpClient: client,
		logger:     log,
	}, nil
}

// Fetch returns the full device inventory, walking all pages.
func (i *Integration) Fetch(ctx context.Context) ([]models.Device, error) {
	if err := i.authenticate(ctx); err != nil {
		return nil, err
	}

	var devices []models.Device

	pageNumber := 1

	for {
		batch, total, err := i.fetchPage(ctx, pageNumber)
		if err != nil {
			return nil, err
		}

		devices = append(devices, batch...)

		if len(devices) >= total || len(batch) == 0 {
			break
		}

		pageNumber++
	}

	i.logger.Info().
		Int("devices", len(devices)).
		Msg("Fetched N-central inventory")

	return devices, nil
}

type authResponse struct {
	Tokens struct {
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	} `json:"tokens"`
}

func (i *Integration) authenticate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		i.config.Endpoint+"/api/auth/authenticate", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create auth request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+i.config.Credentials["jwt"])

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

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}

	if auth.Tokens.Access.Token == "" {
		return errEmptyAccessToken
	}

	i.accessToken = auth.Tokens.Access.Token

	return nil
}

type devicesPage struct {
	Data       []ncentralDevice `json:"data"`
	TotalItems int              `json:"totalItems"`
}

type ncentralDevice struct {
	DeviceID     int64  `json:"deviceId"`
	LongName     string `json:"longName"`
	SerialNumber string `json:"serialNumber"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	CustomerID   int64  `json:"customerId"`
	CustomerName string `json:"customerName"`
	DeviceClass  string `json:"deviceClass"`
	LastLoggedIn string `json:"lastLoggedInUser"`
}

func (i *Integration) fetchPage(ctx context.Context, pageNumber int) ([]models.Device, int, error) {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("pageNumber", strconv.Itoa(pageNumber))

	endpoint := i.config.Endpoint + "/api/devices?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create devices request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+i.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("devices request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read devices response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("%w: %d", errUnexpectedStatusCode, resp.StatusCode)
	}

	var payload devicesPage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, 0, fmt.Errorf("failed to decode devices response: %w", err)
	}

	devices := make([]models.Device, 0, len(payload.Data))
	for idx := range payload.Data {
		devices = append(devices, toDevice(&payload.Data[idx]))
	}

	return devices, payload.TotalItems, nil
}

func toDevice(d *ncentralDevice) models.Device {
	return models.Device{
		DeviceID:     strconv.FormatInt(d.DeviceID, 10),
		SerialNumber: d.SerialNumber,
		Manufacturer: d.Manufacturer,
		Model:        d.Model,
		Hostname:     d.LongName,
		ClientID:     strconv.FormatInt(d.CustomerID, 10),
		ClientName:   d.CustomerName,
		Source:       "ncentral",
		Metadata: map[string]string{
			"device_class":   d.DeviceClass,
			"last_logged_in": d.LastLoggedIn,
		},
	}
}
