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

import "time"

// Status is the classification of a warranty record's end date.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusUnknown Status = "unknown"
)

// endDateLayouts are the accepted end-date formats, tried in order.
var endDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

// ParseEndDate parses a warranty end date string. The bool result is false
// for empty or unparsable input.
func ParseEndDate(endDate string) (time.Time, bool) {
	if endDate == "" {
		return time.Time{}, false
	}

	for _, layout := range endDateLayouts {
		if t, err := time.Parse(layout, endDate); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Classify is the single source of truth for warranty status. Every place
// that displays or aggregates status derives it from here.
func Classify(endDate string, now time.Time) Status {
	end, ok := ParseEndDate(endDate)
	if !ok {
		return StatusUnknown
	}

	if end.Before(now) {
		return StatusExpired
	}

	return StatusActive
}
