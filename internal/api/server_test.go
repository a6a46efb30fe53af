package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerscope/internal/api"
	"ledgerscope/internal/config"
	"ledgerscope/internal/testkit"
	"ledgerscope/internal/xlsx"
)

func newTestServer() *api.Server {
	cfg := &config.Config{
		Data: config.DataConfig{
			SheetPath: xlsx.DefaultSheetPath,
			MinCount:  10,
		},
		Server: config.ServerConfig{Port: "0"},
	}
	return api.NewServer(cfg, nil, zerolog.Nop())
}

func uploadRequest(t *testing.T, target, path string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.xlsx")
	rows := make([][]string, 12)
	amounts := []string{"11", "22", "33", "44", "55", "66", "77", "88", "99", "12", "23", "34"}
	for i, amount := range amounts {
		rows[i] = []string{"2021-01-01", amount}
	}
	require.NoError(t, testkit.WriteWorkbook(path, []string{"posting_date", "amount"}, rows))
	return path
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestAnalyzeUpload(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/api/analyze", writeWorkbook(t)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		RunID   string `json:"run_id"`
		Profile struct {
			File     string `json:"file"`
			RowCount int    `json:"row_count"`
		} `json:"profile"`
		Benford struct {
			Column string `json:"column"`
			Total  int    `json:"total_values"`
		} `json:"benford"`
		ChartSVG string `json:"chart_svg"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, "upload.xlsx", resp.Profile.File, "response reports the uploaded name, not the temp path")
	assert.Equal(t, 12, resp.Profile.RowCount)
	assert.Equal(t, "amount", resp.Benford.Column)
	assert.Equal(t, 12, resp.Benford.Total)
	assert.Contains(t, resp.ChartSVG, "<svg")
}

func TestAnalyzeUploadWithColumnOverride(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/api/analyze?column=amount&min_count=5", writeWorkbook(t)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"column":"amount"`)
}

func TestAnalyzeUnknownColumn(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/api/analyze?column=bogus", writeWorkbook(t)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "COLUMN_NOT_FOUND")
}

func TestAnalyzeUploadWithNonFiniteCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.xlsx")
	rows := [][]string{
		{"inf"}, {"nan"},
		{"11"}, {"22"}, {"33"}, {"44"}, {"55"},
		{"66"}, {"77"}, {"88"}, {"99"}, {"12"},
	}
	require.NoError(t, testkit.WriteWorkbook(path, []string{"amount"}, rows))

	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/api/analyze", path))

	// The request must complete and skip the non-finite cells.
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"total_values":10`)
}

func TestRunsWithoutLedger(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "run ledger not configured")
}

func TestRunsRejectsBadLimit(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs?limit=soon", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "limit")
}

func TestAnalyzeMissingFileField(t *testing.T) {
	srv := newTestServer()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CONFIG_INVALID")
}

func TestAnalyzeBadMinCount(t *testing.T) {
	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/api/analyze?min_count=soon", writeWorkbook(t)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
