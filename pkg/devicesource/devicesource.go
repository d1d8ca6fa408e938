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

// Package devicesource defines the integration contract for platforms that
// contribute devices to the fleet inventory, and a factory registry keyed by
// source type.
package devicesource

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
)

//go:generate mockgen -destination=mock_devicesource.go -package=devicesource github.com/fleetward/fleetward/pkg/devicesource Integration

// Integration pulls the current device inventory from one source platform.
type Integration interface {
	Fetch(ctx context.Context) ([]models.Device, error)
}

// Factory builds an Integration from its source configuration.
type Factory func(config *models.SourceConfig, log logger.Logger) (Integration, error)

var (
	factoryMu sync.RWMutex
	factories = make(map[string]Factory)
)

// RegisterFactory makes a source type constructible through New. It is called
// from the init functions of the integration packages.
func RegisterFactory(sourceType string, factory Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[sourceType] = factory
}

// New builds the Integration for config.Type.
func New(config *models.SourceConfig, log logger.Logger) (Integration, error) {
	factoryMu.RLock()
	factory, ok := factories[config.Type]
	known := registeredTypes()
	factoryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown source type: %q (registered: %v)", config.Type, known)
	}

	return factory(config, log)
}

func registeredTypes() []string {
	types := make([]string, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	sort.Strings(types)

	return types
}
