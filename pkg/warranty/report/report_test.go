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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetward/fleetward/pkg/models"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func rec(endDate string) models.WarrantyRecord {
	return models.WarrantyRecord{
		SerialNumber: "S",
		EndDate:      endDate,
		DeviceSource: "datto",
	}
}

func TestAggregateStats(t *testing.T) {
	records := []models.WarrantyRecord{
		rec("2028-01-01"), // active
		rec("2025-01-01"), // expired
		rec(""),           // unknown
		rec("garbage"),    // unknown
	}

	summary := Aggregate(records, testNow)

	assert.Equal(t, Stats{Active: 1, Expired: 1, Unknown: 2, Total: 4}, summary.Stats)
}

func TestAggregateExpiringSoonWindow(t *testing.T) {
	records := []models.WarrantyRecord{
		rec("2026-07-01"),           // inside the window
		rec("2026-09-13T12:00:00Z"), // exactly now+90d, inclusive
		rec("2026-09-14"),           // past the window
		rec("2026-06-15T12:00:00Z"), // exactly now: active but not expiring soon
		rec("2025-01-01"),           // expired, never expiring soon
		rec(""),                     // unknown, excluded
	}

	summary := Aggregate(records, testNow)

	require.Len(t, summary.ExpiringSoon, 2)
	assert.Equal(t, "2026-07-01", summary.ExpiringSoon[0].EndDate)
	assert.Equal(t, "2026-09-13T12:00:00Z", summary.ExpiringSoon[1].EndDate)
}

func TestHealthScoreDeterminism(t *testing.T) {
	// 5 active, 2 expiring soon, 1 unknown, 2 expired:
	// (5*100 + 2*60 + 1*30 + 2*0) / 10 = 65.
	records := []models.WarrantyRecord{
		rec("2028-01-01"),
		rec("2028-02-01"),
		rec("2028-03-01"),
		rec("2028-04-01"),
		rec("2028-05-01"),
		rec("2026-07-01"),
		rec("2026-07-15"),
		rec(""),
		rec("2025-01-01"),
		rec("2024-06-01"),
	}

	summary := Aggregate(records, testNow)

	assert.Equal(t, Stats{Active: 7, Expired: 2, Unknown: 1, Total: 10}, summary.Stats)
	assert.Equal(t, 65, summary.HealthScore)
	assert.Equal(t, "Fair", summary.Grade)
}

func TestHealthScoreEmptyFleet(t *testing.T) {
	summary := Aggregate(nil, testNow)

	assert.Equal(t, 0, summary.HealthScore)
	assert.Equal(t, "N/A", summary.Grade)
	assert.Empty(t, summary.Insights)
}

func TestGradeThresholds(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{100, "Excellent"},
		{85, "Excellent"},
		{84, "Good"},
		{70, "Good"},
		{69, "Fair"},
		{55, "Fair"},
		{54, "Poor"},
		{40, "Poor"},
		{39, "Critical"},
		{0, "Critical"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, gradeFor(tt.score), "score %d", tt.score)
	}
}

func TestInsightOrdering(t *testing.T) {
	// 40% expired (threshold hit), one unknown, and an expired warranty old
	// enough to trip the replacement warning. The emission order is fixed.
	records := []models.WarrantyRecord{
		rec("2028-01-01"),
		rec("2028-01-01"),
		rec("2028-01-01"),
		rec("2028-01-01"),
		rec("2028-01-01"),
		rec("2020-01-01"),
		rec("2025-01-01"),
		rec("2025-02-01"),
		rec("2025-03-01"),
		rec(""),
	}

	summary := Aggregate(records, testNow)

	require.Len(t, summary.Insights, 3)
	assert.Contains(t, summary.Insights[0], "40%")
	assert.Contains(t, summary.Insights[0], "expired")
	assert.Contains(t, summary.Insights[1], "unknown")
	assert.Contains(t, summary.Insights[2], "months ago")
}

func TestInsightActiveShare(t *testing.T) {
	// 8 of 10 active (80% > 70%), one recent expiry, one unknown.
	records := []models.WarrantyRecord{
		rec("2028-01-01"), rec("2028-01-01"), rec("2028-01-01"), rec("2028-01-01"),
		rec("2028-01-01"), rec("2028-01-01"), rec("2028-01-01"), rec("2028-01-01"),
		rec("2026-06-01"),
		rec(""),
	}

	summary := Aggregate(records, testNow)

	require.NotEmpty(t, summary.Insights)
	assert.Contains(t, summary.Insights[0], "80%")
	assert.Contains(t, summary.Insights[0], "active warranty")
}

func TestOldestExpiredMonths(t *testing.T) {
	records := []models.WarrantyRecord{
		rec("2025-06-15"), // 12 months before testNow
		rec("2024-06-15"), // 24+ months before testNow, the oldest
		rec("2028-01-01"),
	}

	months, ok := oldestExpiredMonths(records, testNow)
	require.True(t, ok)

	// 2024-06-15 to 2026-06-15 is 731 days, 24 whole 30-day months.
	assert.Equal(t, 24, months)
}

func TestOldestExpiredMonthsNoneExpired(t *testing.T) {
	_, ok := oldestExpiredMonths([]models.WarrantyRecord{rec("2028-01-01"), rec("")}, testNow)
	assert.False(t, ok)
}

func TestRoundPercentHalfUp(t *testing.T) {
	assert.Equal(t, 33, roundPercent(1, 3))
	assert.Equal(t, 67, roundPercent(2, 3))
	assert.Equal(t, 50, roundPercent(1, 2))
	assert.Equal(t, 13, roundPercent(1, 8)) // 12.5 rounds up
}
