package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parliament-sync-service/internal/sync"
)

type stubSyncService struct {
	startErr  error
	started   []sync.Type
	statusErr error
	report    *sync.StatusReport
}

func (s *stubSyncService) Start(_ context.Context, syncType sync.Type) (*sync.Task, error) {
	if s.startErr != nil {
		return nil, s.startErr
	}
	s.started = append(s.started, syncType)
	return &sync.Task{Type: syncType, StartedAt: time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)}, nil
}

func (s *stubSyncService) Status(_ context.Context) (*sync.StatusReport, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return s.report, nil
}

func TestTriggerSyncDefaultsToIncremental(t *testing.T) {
	stub := &stubSyncService{}
	h := NewHandler(stub, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/trigger", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, []sync.Type{sync.TypeIncremental}, stub.started)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "incremental", resp["type"])
	assert.NotEmpty(t, resp["startedAt"])
}

func TestTriggerFullSync(t *testing.T) {
	stub := &stubSyncService{}
	h := NewHandler(stub, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/trigger", strings.NewReader(`{"type":"full"}`))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []sync.Type{sync.TypeFull}, stub.started)
}

func TestTriggerSyncConflict(t *testing.T) {
	stub := &stubSyncService{startErr: sync.ErrSyncRunning}
	h := NewHandler(stub, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/trigger", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "already running")
}

func TestTriggerSyncRejectsUnknownType(t *testing.T) {
	stub := &stubSyncService{}
	h := NewHandler(stub, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/trigger", strings.NewReader(`{"type":"bogus"}`))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, stub.started)
}

func TestGetSyncStatus(t *testing.T) {
	completed := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubSyncService{report: &sync.StatusReport{
		Running:        true,
		LastFullSync:   &completed,
		BillCount:      12,
		AmendmentCount: 34,
		MemberCount:    56,
	}}
	h := NewHandler(stub, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report sync.StatusReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Running)
	require.NotNil(t, report.LastFullSync)
	assert.Nil(t, report.LastIncrementalSync)
	assert.Equal(t, int64(12), report.BillCount)
	assert.Equal(t, int64(34), report.AmendmentCount)
	assert.Equal(t, int64(56), report.MemberCount)
}

func TestAuthMiddleware(t *testing.T) {
	stub := &stubSyncService{}
	h := NewHandler(stub, "secret")
	router := h.Routes()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/trigger", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, stub.started)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/sync/trigger", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	// Health stays open.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
