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

package hp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
)

func testBundle() *models.CredentialBundle {
	return &models.CredentialBundle{HP: &models.HPCredentials{APIKey: "key-abc"}}
}

func testDevice(serial string) *models.Device {
	return &models.Device{
		DeviceID:     "dev-" + serial,
		SerialNumber: serial,
		Manufacturer: "HP Inc.",
		Source:       "ncentral",
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-abc", r.Header.Get("X-HP-API-Key"))

		switch r.URL.Path {
		case "/serialnumber/CND1234":
			fmt.Fprint(w, `{
				"serialNumber": "CND1234",
				"productName": "HP EliteBook 840 G9",
				"offers": [
					{"offerDescription": "Base Warranty", "serviceObligationStartDate": "2023-05-01", "serviceObligationEndDate": "2024-05-01"},
					{"offerDescription": "Care Pack", "serviceObligationStartDate": "2023-05-01", "serviceObligationEndDate": "2026-05-01"}
				]
			}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestFetchOne(t *testing.T) {
	srv := newTestServer(t)
	backend := NewBackend(srv.Client(), srv.URL, logger.NewTestLogger())

	record, err := backend.FetchOne(context.Background(), testDevice("CND1234"), testBundle())
	require.NoError(t, err)

	assert.Equal(t, "CND1234", record.SerialNumber)
	assert.Equal(t, models.ManufacturerHP, record.Manufacturer)
	assert.Equal(t, "HP EliteBook 840 G9", record.ProductDescription)
	assert.Equal(t, "2026-05-01", record.EndDate)
}

func TestFetchOneNotFound(t *testing.T) {
	srv := newTestServer(t)
	backend := NewBackend(srv.Client(), srv.URL, logger.NewTestLogger())

	_, err := backend.FetchOne(context.Background(), testDevice("MISSING"), testBundle())
	require.ErrorIs(t, err, errUnexpectedStatusCode)
}

func TestFetchOneMissingCredentials(t *testing.T) {
	backend := NewBackend(http.DefaultClient, "http://unused", logger.NewTestLogger())

	_, err := backend.FetchOne(context.Background(), testDevice("CND1234"), &models.CredentialBundle{})
	require.ErrorIs(t, err, errNotConfigured)
}

func TestFetchOneInvalidCredentials(t *testing.T) {
	backend := NewBackend(http.DefaultClient, "http://unused", logger.NewTestLogger())

	bundle := &models.CredentialBundle{HP: &models.HPCredentials{}}

	_, err := backend.FetchOne(context.Background(), testDevice("CND1234"), bundle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key is required")
}

func TestFetchBatchDropsFailedLookups(t *testing.T) {
	srv := newTestServer(t)
	backend := NewBackend(srv.Client(), srv.URL, logger.NewTestLogger())

	devices := []*models.Device{
		testDevice("CND1234"),
		testDevice("MISSING"),
		testDevice(""),
	}

	records, err := backend.FetchBatch(context.Background(), devices, testBundle())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "CND1234", records[0].SerialNumber)
}
