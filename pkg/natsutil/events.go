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

// Package natsutil publishes warranty run events to NATS JetStream as
// CloudEvents so downstream consumers (alerting, billing) can react to
// completed lookups.
package natsutil

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
)

const (
	eventSource       = "fleetward/warranty"
	runCompletedType  = "com.fleetward.warranty.run.completed"
	runEventSubject   = "events.warranty.run"
	defaultSubjectSet = "events.warranty.*"
)

// EventPublisher publishes CloudEvents to NATS JetStream.
type EventPublisher struct {
	js     jetstream.JetStream
	stream string
	logger logger.Logger
}

// NewEventPublisher creates an EventPublisher for the specified stream.
func NewEventPublisher(js jetstream.JetStream, streamName string, log logger.Logger) *EventPublisher {
	return &EventPublisher{
		js:     js,
		stream: streamName,
		logger: log,
	}
}

func buildRunEvent(data *models.LookupRunEventData) models.CloudEvent {
	return models.CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          eventSource,
		Type:            runCompletedType,
		DataContentType: "application/json",
		Subject:         runEventSubject,
		Time:            &data.Timestamp,
		Data:            data,
	}
}

// PublishLookupRunEvent publishes a run-completed event.
func (p *EventPublisher) PublishLookupRunEvent(ctx context.Context, data *models.LookupRunEventData) error {
	event := buildRunEvent(data)

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}

	ack, err := p.js.Publish(ctx, event.Subject, eventBytes)
	if err != nil {
		return fmt.Errorf("failed to publish run event: %w", err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("run_id", data.RunID).
		Uint64("sequence", ack.Sequence).
		Msg("Published warranty run event")

	return nil
}

// ConnectWithEventPublisher creates a NATS connection with JetStream, ensures
// the event stream exists, and returns an EventPublisher.
func ConnectWithEventPublisher(ctx context.Context, cfg *models.NATSConfig, log logger.Logger, opts ...nats.Option) (*EventPublisher, *nats.Conn, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	// Ensure the stream exists
	_, err = js.Stream(ctx, cfg.StreamName)
	if err != nil {
		streamConfig := jetstream.StreamConfig{
			Name:     cfg.StreamName,
			Subjects: []string{defaultSubjectSet},
		}

		_, err = js.CreateOrUpdateStream(ctx, streamConfig)
		if err != nil {
			nc.Close()
			return nil, nil, fmt.Errorf("failed to create or get stream %s: %w", cfg.StreamName, err)
		}
	}

	return NewEventPublisher(js, cfg.StreamName, log), nc, nil
}
