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

package natsutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
)

func TestBuildRunEvent(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	data := &models.LookupRunEventData{
		RunID:       "run-1",
		Success:     true,
		Total:       10,
		Looked:      7,
		Skipped:     2,
		Errors:      1,
		HealthScore: 65,
		Grade:       "Fair",
		Timestamp:   now,
	}

	event := buildRunEvent(data)

	assert.Equal(t, "1.0", event.SpecVersion)
	assert.Equal(t, runCompletedType, event.Type)
	assert.Equal(t, eventSource, event.Source)
	assert.Equal(t, runEventSubject, event.Subject)
	assert.Equal(t, &now, event.Time)

	_, err := uuid.Parse(event.ID)
	require.NoError(t, err)

	// The payload must round-trip as CloudEvents JSON.
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "1.0", decoded["specversion"])

	payload, ok := decoded["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "run-1", payload["run_id"])
	assert.InEpsilon(t, 65.0, payload["health_score"], 0.001)
}

func TestBuildRunEventUniqueIDs(t *testing.T) {
	data := &models.LookupRunEventData{RunID: "run-1", Timestamp: time.Now()}

	first := buildRunEvent(data)
	second := buildRunEvent(data)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestConnectWithEventPublisherRejectsInvalidConfig(t *testing.T) {
	_, _, err := ConnectWithEventPublisher(context.Background(), &models.NATSConfig{}, logger.NewTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nats url is required")
}
