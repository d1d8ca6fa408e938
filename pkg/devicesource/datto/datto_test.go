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

package datto

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetward/fleetward/pkg/devicesource"
	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
)

func testConfig(endpoint string) *models.SourceConfig {
	return &models.SourceConfig{
		Type:     "datto",
		Endpoint: endpoint,
		Credentials: map[string]string{
			"api_key":    "key",
			"api_secret": "secret",
		},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "key", r.FormValue("username"))

		fmt.Fprint(w, `{"access_token": "tok-1", "expires_in": 3600}`)
	})
	mux.HandleFunc("/api/v2/account/devices", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		switch r.URL.Query().Get("page") {
		case "0":
			fmt.Fprint(w, `{
				"pageDetails": {"nextPageUrl": "/api/v2/account/devices?page=1"},
				"devices": [{
					"uid": "uid-1",
					"hostname": "ws-accounting-01",
					"serialNumber": "ABC123",
					"manufacturer": "Dell Inc.",
					"model": "OptiPlex 7010",
					"siteUid": "site-1",
					"siteName": "Acme Corp",
					"deviceType": {"category": "Desktop"},
					"creationDate": 1700000000000,
					"lastSeen": 1756500000000
				}]
			}`)
		default:
			fmt.Fprint(w, `{
				"pageDetails": {"nextPageUrl": ""},
				"devices": [{
					"uid": "uid-2",
					"hostname": "lt-sales-04",
					"serialNumber": "PF12XYZ",
					"manufacturer": "LENOVO",
					"siteUid": "site-1",
					"siteName": "Acme Corp",
					"deviceType": {"category": "Laptop"}
				}]
			}`)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestFetchWalksAllPages(t *testing.T) {
	srv := newTestServer(t)

	integration, err := NewIntegration(testConfig(srv.URL), logger.NewTestLogger())
	require.NoError(t, err)

	devices, err := integration.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, "uid-1", devices[0].DeviceID)
	assert.Equal(t, "ABC123", devices[0].SerialNumber)
	assert.Equal(t, "Dell Inc.", devices[0].Manufacturer)
	assert.Equal(t, "Acme Corp", devices[0].ClientName)
	assert.Equal(t, "datto", devices[0].Source)
	assert.Equal(t, "Desktop", devices[0].Metadata["category"])
	assert.False(t, devices[0].LastSeen.IsZero())

	assert.Equal(t, "PF12XYZ", devices[1].SerialNumber)
	assert.True(t, devices[1].LastSeen.IsZero())
}

func TestNewIntegrationValidatesConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.SourceConfig)
		wantErr error
	}{
		{"missing endpoint", func(c *models.SourceConfig) { c.Endpoint = "" }, errEndpointRequired},
		{"missing api key", func(c *models.SourceConfig) { delete(c.Credentials, "api_key") }, errAPIKeyRequired},
		{"missing api secret", func(c *models.SourceConfig) { delete(c.Credentials, "api_secret") }, errAPISecretRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig("http://rmm.example.com")
			tt.mutate(config)

			_, err := NewIntegration(config, logger.NewTestLogger())
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFetchAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	integration, err := NewIntegration(testConfig(srv.URL), logger.NewTestLogger())
	require.NoError(t, err)

	_, err = integration.Fetch(context.Background())
	require.ErrorIs(t, err, errUnexpectedStatusCode)
}

func TestFactoryRegistration(t *testing.T) {
	srv := newTestServer(t)

	integration, err := devicesource.New(testConfig(srv.URL), logger.NewTestLogger())
	require.NoError(t, err)
	assert.IsType(t, &Integration{}, integration)
}
