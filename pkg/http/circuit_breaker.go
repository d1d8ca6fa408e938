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

// Package http wraps outbound HTTP clients with a circuit breaker so a
// misbehaving manufacturer or RMM endpoint cannot stall a whole lookup run.
package http

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fleetward/fleetward/pkg/logger"
)

// Client is the interface for making HTTP requests. *http.Client satisfies
// it, as does the circuit-breaker wrapper.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// BreakerState represents the current state of the circuit breaker.
type BreakerState int

const (
	// StateClosed - requests are allowed.
	StateClosed BreakerState = iota
	// StateOpen - requests are rejected.
	StateOpen
	// StateHalfOpen - probing whether the endpoint has recovered.
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds circuit breaker tuning.
type BreakerConfig struct {
	// FailureThreshold is the number of failures before opening the circuit.
	FailureThreshold int
	// SuccessThreshold is the number of successes needed to close from half-open.
	SuccessThreshold int
	// Timeout is how long to wait before transitioning from open to half-open.
	Timeout time.Duration
	// ResetTimeout is how long before failure counts reset in the closed state.
	ResetTimeout time.Duration
}

// DefaultBreakerConfig returns a sensible default configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		ResetTimeout:     60 * time.Second,
	}
}

// CircuitBreaker implements the circuit breaker pattern for HTTP endpoints.
type CircuitBreaker struct {
	config        BreakerConfig
	state         BreakerState
	failureCount  int
	successCount  int
	lastFailTime  time.Time
	lastResetTime time.Time
	mu            sync.Mutex
	logger        logger.Logger
	name          string
}

// NewCircuitBreaker creates a circuit breaker with the given configuration.
func NewCircuitBreaker(name string, config BreakerConfig, log logger.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		config:        config,
		state:         StateClosed,
		lastResetTime: time.Now(),
		logger:        log,
		name:          name,
	}
}

// Execute runs fn through the circuit breaker.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allowRequest() {
		return fmt.Errorf("circuit breaker %s is open", cb.name)
	}

	err := fn()
	cb.recordResult(err)

	return err
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()

	switch cb.state {
	case StateClosed:
		if now.Sub(cb.lastResetTime) >= cb.config.ResetTimeout {
			cb.failureCount = 0
			cb.lastResetTime = now
		}

		return true
	case StateOpen:
		if now.Sub(cb.lastFailTime) >= cb.config.Timeout {
			cb.state = StateHalfOpen
			cb.successCount = 0
			cb.logger.Info().
				Str("circuit_breaker", cb.name).
				Msg("Circuit breaker transitioning to half-open")

			return true
		}

		return false
	case StateHalfOpen:
		return true
	default:
		return false
	}
}

func (cb *CircuitBreaker) recordResult(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}
}

func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++
	cb.lastFailTime = time.Now()

	switch cb.state {
	case StateClosed:
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.state = StateOpen
			cb.logger.Warn().
				Str("circuit_breaker", cb.name).
				Int("failure_count", cb.failureCount).
				Msg("Circuit breaker opened due to failures")
		}
	case StateHalfOpen:
		cb.state = StateOpen
		cb.logger.Warn().
			Str("circuit_breaker", cb.name).
			Msg("Circuit breaker reopened after failed probe")
	case StateOpen:
	}
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.state = StateClosed
			cb.failureCount = 0
			cb.lastResetTime = time.Now()
			cb.logger.Info().
				Str("circuit_breaker", cb.name).
				Msg("Circuit breaker closed after successful recovery")
		}
	case StateClosed:
		cb.failureCount = 0
		cb.lastResetTime = time.Now()
	case StateOpen:
	}
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// BreakerClient wraps a Client with circuit breaker behavior. Server errors
// (5xx) and transport errors count as failures.
type BreakerClient struct {
	client  Client
	breaker *CircuitBreaker
}

// NewBreakerClient wraps client in a named circuit breaker.
func NewBreakerClient(client Client, name string, config BreakerConfig, log logger.Logger) *BreakerClient {
	return &BreakerClient{
		client:  client,
		breaker: NewCircuitBreaker(name, config, log),
	}
}

// Do executes an HTTP request through the circuit breaker.
func (c *BreakerClient) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response

	var doErr error

	execErr := c.breaker.Execute(func() error {
		resp, doErr = c.client.Do(req)
		if doErr != nil {
			return doErr
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("server error: %d", resp.StatusCode)
		}

		return nil
	})

	if execErr != nil && doErr == nil && resp == nil {
		// Breaker rejected the request before it was attempted.
		return nil, execErr
	}

	if doErr != nil {
		return nil, doErr
	}

	return resp, nil
}

// Breaker exposes the underlying circuit breaker for monitoring.
func (c *BreakerClient) Breaker() *CircuitBreaker {
	return c.breaker
}
