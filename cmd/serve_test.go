package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah04091/contract-ai-sub004/internal/config"
	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/pipeline"
	"github.com/noah04091/contract-ai-sub004/internal/store"
	"github.com/noah04091/contract-ai-sub004/pkg/anthropic"
)

// failingClient simulates an unreachable analysis service; the pipeline
// degrades to its rule engine, which keeps these tests hermetic.
type failingClient struct{}

func (failingClient) CreateMessage(context.Context, anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	return nil, errors.New("service unavailable")
}

func newTestEnv(t *testing.T) *pipelineEnv {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	p, err := pipeline.New(&config.Config{
		Anthropic: config.AnthropicConfig{
			PrimaryModel:        "primary-model",
			FallbackModel:       "fallback-model",
			MaxTokens:           4096,
			PrimaryTimeoutSecs:  5,
			FallbackTimeoutSecs: 5,
			MaxAttempts:         1,
		},
		Pipeline: config.PipelineConfig{MinTextLength: 50, ScoreCeiling: 98},
	}, failingClient{})
	require.NoError(t, err)

	return &pipelineEnv{Store: st, Pipeline: p}
}

const testContractText = `Arbeitsvertrag zwischen der Beispiel GmbH und Frau Mustermann.
Der Arbeitnehmer erhält ein Gehalt von 5.000 Euro brutto.
Die Tätigkeit umfasst die Softwareentwicklung. Das Arbeitsverhältnis beginnt am 01.01.2026.`

func TestServer_Healthz(t *testing.T) {
	srv := httptest.NewServer(newRouter(newTestEnv(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestServer_AnalyzeAndFetchRun(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(newRouter(env))
	defer srv.Close()

	body, _ := json.Marshal(map[string]string{
		"text":     testContractText,
		"filename": "arbeitsvertrag.txt",
	})
	resp, err := http.Post(srv.URL+"/api/analyze", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var analyzeResp struct {
		RunID  string                `json:"run_id"`
		Report *model.AnalysisReport `json:"report"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&analyzeResp))
	require.NotEmpty(t, analyzeResp.RunID)
	require.NotNil(t, analyzeResp.Report)
	assert.Equal(t, model.TierRuleOnly, analyzeResp.Report.Meta.FallbackTier)
	assert.Greater(t, analyzeResp.Report.Score.Health, 0)

	// The run is persisted as complete with the report attached.
	runResp, err := http.Get(srv.URL + "/api/runs/" + analyzeResp.RunID)
	require.NoError(t, err)
	defer runResp.Body.Close()
	require.Equal(t, http.StatusOK, runResp.StatusCode)

	var run model.Run
	require.NoError(t, json.NewDecoder(runResp.Body).Decode(&run))
	assert.Equal(t, model.RunStatusComplete, run.Status)
	require.NotNil(t, run.Report)
	assert.Equal(t, analyzeResp.Report.Score.Health, run.Report.Score.Health)
}

func TestServer_AnalyzeRejectsBadInput(t *testing.T) {
	srv := httptest.NewServer(newRouter(newTestEnv(t)))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/analyze", "application/json", bytes.NewReader([]byte("kein json")))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := json.Marshal(map[string]string{"filename": "leer.txt"})
	resp, err = http.Post(srv.URL+"/api/analyze", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_AnalyzeTooShortReturns422(t *testing.T) {
	srv := httptest.NewServer(newRouter(newTestEnv(t)))
	defer srv.Close()

	body, _ := json.Marshal(map[string]string{"text": "viel zu kurz"})
	resp, err := http.Post(srv.URL+"/api/analyze", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServer_ListRunsOmitsReports(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(newRouter(env))
	defer srv.Close()

	body, _ := json.Marshal(map[string]string{"text": testContractText, "filename": "a.txt"})
	resp, err := http.Post(srv.URL+"/api/analyze", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listResp, err := http.Get(srv.URL + "/api/runs")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var list struct {
		Runs []model.Run `json:"runs"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Len(t, list.Runs, 1)
	assert.Equal(t, "a.txt", list.Runs[0].Filename)
	assert.Nil(t, list.Runs[0].Report)
}

func TestServer_GetRunNotFound(t *testing.T) {
	srv := httptest.NewServer(newRouter(newTestEnv(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/runs/gibt-es-nicht")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
