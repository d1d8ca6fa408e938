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
	"strings"

	"github.com/fleetward/fleetward/pkg/models"
)

// MergeKey decides how dispatcher output is matched back to input devices.
// Serial numbers are a de facto unique key in practice, but the same serial
// can in theory show up on two devices from different source platforms; the
// composite key avoids coalescing those.
type MergeKey int

const (
	// MergeBySerial matches on serial number alone (last write wins on
	// duplicates).
	MergeBySerial MergeKey = iota
	// MergeBySourceAndSerial matches on source platform plus serial number.
	MergeBySourceAndSerial
)

// canonicalSerial upper-cases a serial so that vendor responses that re-case
// service tags still match the inventory spelling.
func canonicalSerial(serial string) string {
	return strings.ToUpper(serial)
}

func (k MergeKey) deviceKey(d *models.Device) string {
	if k == MergeBySourceAndSerial {
		// Records default their source to Unknown, so the device side has to
		// match that normalization.
		return sourceOrUnknown(d) + "\x00" + canonicalSerial(d.SerialNumber)
	}

	return canonicalSerial(d.SerialNumber)
}

func (k MergeKey) recordKey(r *models.WarrantyRecord) string {
	if k == MergeBySourceAndSerial {
		return r.DeviceSource + "\x00" + canonicalSerial(r.SerialNumber)
	}

	return canonicalSerial(r.SerialNumber)
}

// Reconcile restores the original device ordering over the dispatcher's
// output. The input devices define the required order and key set; the
// records are authoritative content in arbitrary order. The result always
// has exactly len(devices) entries: a device whose key is absent from the
// output gets a synthesized error record so no device is ever silently
// dropped.
func Reconcile(devices []*models.Device, records []models.WarrantyRecord, key MergeKey) []models.WarrantyRecord {
	byKey := make(map[string]models.WarrantyRecord, len(records))

	for i := range records {
		byKey[key.recordKey(&records[i])] = records[i]
	}

	ordered := make([]models.WarrantyRecord, 0, len(devices))

	for _, device := range devices {
		if record, ok := byKey[key.deviceKey(device)]; ok {
			ordered = append(ordered, record)
			continue
		}

		// Can only happen for a device with no serial number that was not
		// already converted upstream; the fallback keeps the
		// one-record-per-device invariant intact regardless.
		ordered = append(ordered, missingSerialRecord(device))
	}

	return ordered
}

// missingSerialRecord builds the fallback record for a device that never had
// a usable serial number.
func missingSerialRecord(device *models.Device) models.WarrantyRecord {
	serial := device.SerialNumber
	if serial == "" {
		serial = models.MissingSerialSentinel
	}

	return models.WarrantyRecord{
		SerialNumber: serial,
		Manufacturer: device.Manufacturer,
		DeviceSource: sourceOrUnknown(device),
		Skipped:      true,
		Error:        true,
		ErrorMessage: msgMissingSerial,
	}
}

func sourceOrUnknown(device *models.Device) string {
	if device.Source == "" {
		return models.UnknownSource
	}

	return device.Source
}
