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

package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleetward/fleetward/pkg/billing"
	"github.com/fleetward/fleetward/pkg/db"
	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
	"github.com/fleetward/fleetward/pkg/warranty"
)

type testClock struct{ now time.Time }

func (c testClock) Now() time.Time { return c.now }

type capturingPublisher struct {
	events []*models.LookupRunEventData
}

func (p *capturingPublisher) PublishLookupRunEvent(_ context.Context, data *models.LookupRunEventData) error {
	p.events = append(p.events, data)
	return nil
}

func testNow() time.Time {
	return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
}

func testDevices() []models.Device {
	return []models.Device{
		{
			DeviceID:     "dev-1",
			SerialNumber: "ABC123",
			Manufacturer: "Dell Inc.",
			Source:       "datto",
		},
		{
			DeviceID:     "dev-2",
			SerialNumber: "",
			Manufacturer: "Dell Inc.",
			Source:       "datto",
		},
	}
}

func newTestService(t *testing.T, store db.DeviceStore, publisher RunEventPublisher) (*Service, *warranty.MockBackend) {
	t.Helper()

	ctrl := gomock.NewController(t)

	backend := warranty.NewMockBackend(ctrl)
	resolver := warranty.NewMockBackendResolver(ctrl)
	resolver.EXPECT().ForManufacturer(models.ManufacturerDell).Return(backend, nil).AnyTimes()

	creds := warranty.NewMockCredentialProvider(ctrl)
	creds.EXPECT().GetManufacturerCredentials(gomock.Any()).
		Return(&models.CredentialBundle{Dell: &models.DellCredentials{ClientID: "id", ClientSecret: "sec"}}, nil).
		AnyTimes()

	clock := testClock{now: testNow()}
	dispatcher := warranty.NewDispatcher(creds, resolver, clock, nil, logger.NewTestLogger())

	config := &Config{
		Sources: []models.SourceConfig{{Type: "csv", Endpoint: "/tmp/inventory.csv"}},
	}

	return NewService(config, store, dispatcher, publisher, clock, logger.NewTestLogger()), backend
}

func TestRunLookupPersistsAndPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := db.NewMockDeviceStore(ctrl)
	publisher := &capturingPublisher{}

	service, backend := newTestService(t, store, publisher)

	backend.EXPECT().
		FetchOne(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.WarrantyRecord{SerialNumber: "ABC123", EndDate: "2027-01-01"}, nil)

	store.EXPECT().ListDevices(gomock.Any()).Return(testDevices(), nil)
	store.EXPECT().
		SaveWarrantyRecords(gomock.Any(), gomock.Any(), gomock.Len(2), testNow()).
		Return(nil)

	result, summary, err := service.RunLookup(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, summary)

	assert.True(t, result.Success)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "ABC123", result.Records[0].SerialNumber)
	assert.Equal(t, models.MissingSerialSentinel, result.Records[1].SerialNumber)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, result.RunID, event.RunID)
	assert.Equal(t, 2, event.Total)
	assert.Equal(t, 1, event.Looked)
	assert.Equal(t, 1, event.Skipped)
	assert.Equal(t, 0, event.Errors)
	assert.Equal(t, summary.HealthScore, event.HealthScore)
}

func TestRunLookupWithoutStore(t *testing.T) {
	service, _ := newTestService(t, nil, nil)

	_, _, err := service.RunLookup(context.Background(), nil)
	require.ErrorIs(t, err, errNoStore)
}

func TestLookupDevicesWithoutStorePersistsNothing(t *testing.T) {
	service, backend := newTestService(t, nil, nil)

	backend.EXPECT().
		FetchOne(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.WarrantyRecord{SerialNumber: "ABC123", EndDate: "2027-01-01"}, nil)

	inventory := testDevices()
	devices := []*models.Device{&inventory[0]}

	result, summary, err := service.LookupDevices(context.Background(), devices, nil)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 1, summary.Stats.Active)
}

func TestUpcomingInvoiceDefaultsToUnavailable(t *testing.T) {
	service, _ := newTestService(t, nil, nil)

	invoice, err := service.UpcomingInvoice(context.Background())
	require.NoError(t, err)
	require.NotNil(t, invoice)

	assert.False(t, invoice.Available())
	assert.Equal(t, billing.StatusUnavailable, invoice.Status)
}

type fixedInvoicePreviewer struct {
	invoice *billing.UpcomingInvoice
}

func (p fixedInvoicePreviewer) UpcomingInvoice(_ context.Context) (*billing.UpcomingInvoice, error) {
	return p.invoice, nil
}

func TestSetInvoicePreviewer(t *testing.T) {
	service, _ := newTestService(t, nil, nil)

	service.SetInvoicePreviewer(fixedInvoicePreviewer{invoice: &billing.UpcomingInvoice{
		Status:      billing.StatusPending,
		AmountCents: 14900,
		Currency:    "usd",
	}})

	invoice, err := service.UpcomingInvoice(context.Background())
	require.NoError(t, err)

	assert.True(t, invoice.Available())
	assert.Equal(t, int64(14900), invoice.AmountCents)

	// A nil previewer keeps the current one rather than breaking the accessor.
	service.SetInvoicePreviewer(nil)

	invoice, err = service.UpcomingInvoice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPending, invoice.Status)
}

func TestSyncInventoryAllSourcesFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := db.NewMockDeviceStore(ctrl)

	service, _ := newTestService(t, store, nil)

	// The configured csv source points at a file that does not exist.
	err := service.SyncInventory(context.Background())
	require.ErrorIs(t, err, errAllSourcesFailed)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"no sources", Config{}, errNoSources},
		{
			"bad strategy",
			Config{Sources: []models.SourceConfig{{Type: "csv"}}, Strategy: "parallel"},
			errUnknownStrategy,
		},
		{
			"bad merge key",
			Config{Sources: []models.SourceConfig{{Type: "csv"}}, MergeKey: "hostname"},
			errUnknownMergeKey,
		},
		{
			"valid",
			Config{Sources: []models.SourceConfig{{Type: "csv"}}, Strategy: StrategyBatch, MergeKey: MergeKeySourceSerial},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfigMergeKey(t *testing.T) {
	assert.Equal(t, warranty.MergeBySerial, (&Config{}).mergeKey())
	assert.Equal(t, warranty.MergeBySourceAndSerial, (&Config{MergeKey: MergeKeySourceSerial}).mergeKey())
}
