/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(DefaultConfig())
	require.NoError(t, err)
	s.SetReady(true)
	return s
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleResolve(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/v1/resolve?python=3.8.5&torch=1.7.1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "3.8.5", resp.Triple.Python.String())
	assert.Equal(t, "1.7.1", resp.Triple.Torch.String())
	require.NotNil(t, resp.Triple.Cuda)
	assert.Equal(t, "11.0", resp.Triple.Cuda.String())
	assert.Equal(t, "cudalis:3.8-pytorch1.7.1-11.0", resp.Image)
}

func TestHandleResolveUnknownVersion(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/v1/resolve?python=2.7.18")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "UNKNOWN_VERSION", resp.Code)
	assert.NotEmpty(t, resp.RequestID)
}

func TestHandleResolveNoCompatibleVersion(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/v1/resolve?python=3.8.5&torch=1.7.1&cuda=12.4")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NO_COMPATIBLE_VERSION", resp.Code)
}

func TestHandleResolveInvalidConstraint(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/v1/resolve?python=not-a-version")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
}

func TestHandleResolveMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/v1/resolve")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlePlan(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/v1/plan?python=3.8.5&torch=1.7.1&cuda=cpu")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		ImageReference string `json:"imageReference"`
		Steps          []struct {
			Kind     string `json:"kind"`
			CacheKey string `json:"cacheKey"`
		} `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cudalis:3.8-pytorch1.7.1-cpu", resp.ImageReference)
	require.NotEmpty(t, resp.Steps)
	assert.Equal(t, "base-image", resp.Steps[0].Kind)
	for _, step := range resp.Steps {
		assert.Len(t, step.CacheKey, 64)
	}
}

func TestHandleCatalog(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/v1/catalog")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Greater(t, resp.Count, 0)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	s := newTestServer(t)

	s.SetReady(false)
	rec := doRequest(t, s, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.SetReady(true)
	rec = doRequest(t, s, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDPropagated(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/resolve?torch=2.5.1", nil)
	req.Header.Set("X-Request-Id", "f6c7e2a8-1111-4222-8333-944444444444")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "f6c7e2a8-1111-4222-8333-944444444444", rec.Header().Get("X-Request-Id"))
}

func TestRequestIDReplacedWhenInvalid(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/resolve?torch=2.5.1", nil)
	req.Header.Set("X-Request-Id", "not-a-uuid")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	got := rec.Header().Get("X-Request-Id")
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "not-a-uuid", got)
}

func TestRateLimitExceeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = 1
	cfg.RateLimitBurst = 1
	s, err := New(cfg)
	require.NoError(t, err)
	s.SetReady(true)

	first := doRequest(t, s, http.MethodGet, "/v1/catalog")
	assert.Equal(t, http.StatusOK, first.Code)

	second := doRequest(t, s, http.MethodGet, "/v1/catalog")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", resp.Code)
	assert.True(t, resp.Retryable)
}

func TestExternalCatalogPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CatalogPath = "does-not-exist.yaml"
	_, err := New(cfg)
	assert.Error(t, err)
}
