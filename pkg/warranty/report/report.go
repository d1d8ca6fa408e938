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

// Package report computes aggregate warranty health metrics over a reconciled
// record set: status distribution, expiration forecasting, a weighted health
// score, and narrative insights.
package report

import (
	"math"
	"time"

	"github.com/fleetward/fleetward/pkg/models"
	"github.com/fleetward/fleetward/pkg/warranty"
)

// ExpiringSoonWindow is how far ahead a warranty end date counts as
// expiring soon.
const ExpiringSoonWindow = 90 * 24 * time.Hour

// Bucket weights for the health score.
const (
	weightActive       = 100
	weightExpiringSoon = 60
	weightUnknown      = 30
	weightExpired      = 0
)

// Stats is the status distribution across all records.
type Stats struct {
	Active  int `json:"active"`
	Expired int `json:"expired"`
	Unknown int `json:"unknown"`
	Total   int `json:"total"`
}

// Summary is the report view model handed to consumers, together with the
// raw ordered record slice for tabular rendering.
type Summary struct {
	Stats        Stats                   `json:"stats"`
	ExpiringSoon []models.WarrantyRecord `json:"expiring_soon"`
	HealthScore  int                     `json:"health_score"`
	Grade        string                  `json:"grade"`
	Insights     []string                `json:"insights"`
}

// Aggregate computes the full summary for an already-reconciled record set.
// Status is always derived through warranty.Classify; nothing here re-derives
// it independently.
func Aggregate(records []models.WarrantyRecord, now time.Time) *Summary {
	stats := Stats{Total: len(records)}
	expiringSoon := make([]models.WarrantyRecord, 0)
	soonCount := 0

	horizon := now.Add(ExpiringSoonWindow)

	for i := range records {
		record := &records[i]

		switch warranty.Classify(record.EndDate, now) {
		case warranty.StatusActive:
			stats.Active++
		case warranty.StatusExpired:
			stats.Expired++
		case warranty.StatusUnknown:
			stats.Unknown++
		}

		if end, ok := warranty.ParseEndDate(record.EndDate); ok {
			if end.After(now) && !end.After(horizon) {
				expiringSoon = append(expiringSoon, *record)
				soonCount++
			}
		}
	}

	score, grade := healthScore(stats, soonCount)

	return &Summary{
		Stats:        stats,
		ExpiringSoon: expiringSoon,
		HealthScore:  score,
		Grade:        grade,
		Insights:     insights(records, stats, now),
	}
}

// healthScore weights each record by bucket and normalizes to 0..100. The
// empty fleet is defined as score 0 with grade N/A.
func healthScore(stats Stats, expiringSoon int) (int, string) {
	if stats.Total == 0 {
		return 0, "N/A"
	}

	activeNotSoon := stats.Active - expiringSoon

	points := activeNotSoon*weightActive +
		expiringSoon*weightExpiringSoon +
		stats.Unknown*weightUnknown +
		stats.Expired*weightExpired

	score := int(math.Round(float64(points) / float64(stats.Total)))

	return score, gradeFor(score)
}

func gradeFor(score int) string {
	switch {
	case score >= 85:
		return "Excellent"
	case score >= 70:
		return "Good"
	case score >= 55:
		return "Fair"
	case score >= 40:
		return "Poor"
	default:
		return "Critical"
	}
}

// roundPercent converts a ratio to a whole percentage, round half up.
func roundPercent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}
