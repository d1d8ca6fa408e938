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

package http

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetward/fleetward/pkg/logger"
)

var errSimulated = errors.New("simulated failure")

func testBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Timeout:          10 * time.Millisecond,
		ResetTimeout:     time.Minute,
	}
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("test", testBreakerConfig(), logger.NewTestLogger())

	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return errSimulated })
		require.Error(t, err)
	}

	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(func() error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker test is open")
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("test", testBreakerConfig(), logger.NewTestLogger())

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errSimulated })
	}

	require.Equal(t, StateOpen, cb.State())

	time.Sleep(15 * time.Millisecond)

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerReopensOnFailedProbe(t *testing.T) {
	cb := NewCircuitBreaker("test", testBreakerConfig(), logger.NewTestLogger())

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errSimulated })
	}

	time.Sleep(15 * time.Millisecond)

	_ = cb.Execute(func() error { return errSimulated })
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test", testBreakerConfig(), logger.NewTestLogger())

	_ = cb.Execute(func() error { return errSimulated })
	_ = cb.Execute(func() error { return errSimulated })
	require.NoError(t, cb.Execute(func() error { return nil }))
	_ = cb.Execute(func() error { return errSimulated })
	_ = cb.Execute(func() error { return errSimulated })

	assert.Equal(t, StateClosed, cb.State())
}

type stubClient struct {
	resp *http.Response
	err  error
}

func (s *stubClient) Do(_ *http.Request) (*http.Response, error) {
	return s.resp, s.err
}

func okResponse() *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("{}")),
	}
}

func TestBreakerClientPassesThroughSuccess(t *testing.T) {
	client := NewBreakerClient(&stubClient{resp: okResponse()}, "vendor", testBreakerConfig(), logger.NewTestLogger())

	req, err := http.NewRequest(http.MethodGet, "http://example.com", http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBreakerClientCountsServerErrorsAsFailures(t *testing.T) {
	stub := &stubClient{resp: &http.Response{
		StatusCode: http.StatusBadGateway,
		Body:       io.NopCloser(strings.NewReader("")),
	}}
	client := NewBreakerClient(stub, "vendor", testBreakerConfig(), logger.NewTestLogger())

	req, err := http.NewRequest(http.MethodGet, "http://example.com", http.NoBody)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		resp, doErr := client.Do(req)
		// The response is still returned to the caller, but the breaker
		// records the server error.
		require.NoError(t, doErr)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	}

	assert.Equal(t, StateOpen, client.Breaker().State())

	_, err = client.Do(req)
	require.Error(t, err)
}

func TestBreakerClientTransportError(t *testing.T) {
	client := NewBreakerClient(&stubClient{err: errSimulated}, "vendor", testBreakerConfig(), logger.NewTestLogger())

	req, err := http.NewRequest(http.MethodGet, "http://example.com", http.NoBody)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.ErrorIs(t, err, errSimulated)
}
