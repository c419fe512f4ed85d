package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-graphclass/pkg/config"
	"github.com/dd0wney/cluso-graphclass/pkg/gnn"
	"github.com/dd0wney/cluso-graphclass/pkg/logging"
	"github.com/dd0wney/cluso-graphclass/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gnn_model.json.snappy")
	require.NoError(t, gnn.NewDefaultModel(5).Save(path))

	cfg := config.Default()
	cfg.Model.Path = path

	reg := metrics.NewRegistry()
	srv, err := buildAPI(context.Background(), cfg, logging.NewNopLogger(), reg)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/predict-graph-type",
		strings.NewReader(`{"edges":[[0,1],[1,2]],"node_count":3}`)))
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rr.Body.String(), `graphclass_model_info{hidden_channels="64"`)
}

func TestBuildAPIMissingModel(t *testing.T) {
	cfg := config.Default()
	cfg.Model.Path = filepath.Join(t.TempDir(), "missing.json")

	_, err := buildAPI(context.Background(), cfg, logging.NewNopLogger(), metrics.NewRegistry())
	assert.ErrorContains(t, err, "load model")
}
