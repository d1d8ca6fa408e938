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

package report

import (
	"fmt"
	"time"

	"github.com/fleetward/fleetward/pkg/models"
	"github.com/fleetward/fleetward/pkg/warranty"
)

const (
	expiredShareThreshold = 0.3
	activeShareThreshold  = 0.7
	staleMonthsThreshold  = 12
	daysPerMonth          = 30
)

// insights produces the ordered narrative list. Each condition is evaluated
// independently; the emission order is fixed.
func insights(records []models.WarrantyRecord, stats Stats, now time.Time) []string {
	out := make([]string, 0, 4)

	if stats.Total == 0 {
		return out
	}

	if float64(stats.Expired)/float64(stats.Total) > expiredShareThreshold {
		out = append(out, fmt.Sprintf(
			"Warning: %d%% of devices have expired warranties and are running without coverage.",
			roundPercent(stats.Expired, stats.Total)))
	}

	if float64(stats.Active)/float64(stats.Total) > activeShareThreshold {
		out = append(out, fmt.Sprintf(
			"%d%% of the fleet is under active warranty coverage.",
			roundPercent(stats.Active, stats.Total)))
	}

	if stats.Unknown > 0 {
		out = append(out, fmt.Sprintf(
			"%d device(s) have unknown warranty status; a fresh lookup may resolve them.",
			stats.Unknown))
	}

	if months, ok := oldestExpiredMonths(records, now); ok && months > staleMonthsThreshold {
		out = append(out, fmt.Sprintf(
			"Warning: the oldest expired warranty lapsed %d months ago; consider replacing that hardware.",
			months))
	}

	return out
}

// oldestExpiredMonths finds the expired record with the earliest valid end
// date and returns its age in whole 30-day months.
func oldestExpiredMonths(records []models.WarrantyRecord, now time.Time) (int, bool) {
	var oldest time.Time

	found := false

	for i := range records {
		if warranty.Classify(records[i].EndDate, now) != warranty.StatusExpired {
			continue
		}

		end, ok := warranty.ParseEndDate(records[i].EndDate)
		if !ok {
			continue
		}

		if !found || end.Before(oldest) {
			oldest = end
			found = true
		}
	}

	if !found {
		return 0, false
	}

	months := int(now.Sub(oldest).Hours() / (24 * daysPerMonth))

	return months, true
}
