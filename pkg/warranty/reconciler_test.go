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

package warranty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetward/fleetward/pkg/models"
)

func device(serial, source string) *models.Device {
	return &models.Device{
		SerialNumber: serial,
		Manufacturer: "Dell Inc.",
		Source:       source,
	}
}

func record(serial, source string) models.WarrantyRecord {
	return models.WarrantyRecord{
		SerialNumber: serial,
		DeviceSource: source,
		EndDate:      "2027-01-01",
	}
}

func TestReconcileRestoresInputOrder(t *testing.T) {
	devices := []*models.Device{
		device("AAA", "datto"),
		device("BBB", "datto"),
		device("CCC", "csv"),
		device("DDD", "ncentral"),
	}

	// Dispatch output arrives in arbitrary order.
	records := []models.WarrantyRecord{
		record("DDD", "ncentral"),
		record("AAA", "datto"),
		record("CCC", "csv"),
		record("BBB", "datto"),
	}

	ordered := Reconcile(devices, records, MergeBySerial)

	require.Len(t, ordered, len(devices))

	for i, d := range devices {
		assert.Equal(t, d.SerialNumber, ordered[i].SerialNumber)
	}
}

func TestReconcileSynthesizesFallbackForGap(t *testing.T) {
	devices := []*models.Device{
		device("AAA", "datto"),
		device("", "datto"),
		device("CCC", "datto"),
	}

	// Upstream produced nothing for the serial-less device.
	records := []models.WarrantyRecord{
		record("CCC", "datto"),
		record("AAA", "datto"),
	}

	ordered := Reconcile(devices, records, MergeBySerial)

	require.Len(t, ordered, 3)

	fallback := ordered[1]
	assert.Equal(t, models.MissingSerialSentinel, fallback.SerialNumber)
	assert.True(t, fallback.Skipped)
	assert.True(t, fallback.Error)
	assert.Equal(t, msgMissingSerial, fallback.ErrorMessage)
}

func TestReconcileLastWriteWinsOnDuplicateSerials(t *testing.T) {
	devices := []*models.Device{
		device("DUP", "datto"),
		device("DUP", "csv"),
	}

	first := record("DUP", "datto")
	second := record("DUP", "csv")
	second.ProductDescription = "winner"

	ordered := Reconcile(devices, []models.WarrantyRecord{first, second}, MergeBySerial)

	require.Len(t, ordered, 2)
	assert.Equal(t, "winner", ordered[0].ProductDescription)
	assert.Equal(t, "winner", ordered[1].ProductDescription)
}

func TestReconcileCompositeKeyKeepsDuplicateSerialsApart(t *testing.T) {
	devices := []*models.Device{
		device("DUP", "datto"),
		device("DUP", "csv"),
	}

	fromDatto := record("DUP", "datto")
	fromDatto.ProductDescription = "datto copy"
	fromCSV := record("DUP", "csv")
	fromCSV.ProductDescription = "csv copy"

	ordered := Reconcile(devices, []models.WarrantyRecord{fromCSV, fromDatto}, MergeBySourceAndSerial)

	require.Len(t, ordered, 2)
	assert.Equal(t, "datto copy", ordered[0].ProductDescription)
	assert.Equal(t, "csv copy", ordered[1].ProductDescription)
}

func TestReconcileMatchesRecasedSerials(t *testing.T) {
	devices := []*models.Device{
		device("ABC123", "datto"),
		device("def456", "datto"),
	}

	// Vendors recase service tags relative to the inventory spelling.
	records := []models.WarrantyRecord{
		record("DEF456", "datto"),
		record("abc123", "datto"),
	}

	for _, key := range []MergeKey{MergeBySerial, MergeBySourceAndSerial} {
		ordered := Reconcile(devices, records, key)

		require.Len(t, ordered, 2)
		assert.Equal(t, "abc123", ordered[0].SerialNumber)
		assert.Equal(t, "DEF456", ordered[1].SerialNumber)
		assert.False(t, ordered[0].Error)
		assert.False(t, ordered[1].Error)
	}
}

func TestReconcileEmptyInput(t *testing.T) {
	ordered := Reconcile(nil, nil, MergeBySerial)
	assert.Empty(t, ordered)
}
