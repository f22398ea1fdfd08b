package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bedflow/internal/events"
	"bedflow/internal/models"
	"bedflow/internal/repository"
	"bedflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type testServer struct {
	router *gin.Engine
	beds   *service.BedService
	queue  *service.QueueService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	store := repository.NewStore()
	broadcaster := events.NewBroadcaster(logger)

	bedService := service.NewBedService(store, broadcaster, logger)
	queueService := service.NewQueueService(store, broadcaster, logger)
	assignmentService := service.NewAssignmentService(store, queueService, broadcaster, logger)
	censusService := service.NewCensusService(store)

	r := gin.New()
	RegisterRoutes(r, Handlers{
		Beds:       NewBedHandler(bedService, censusService),
		Assignment: NewAssignmentHandler(assignmentService),
		Queue:      NewQueueHandler(queueService),
	})
	return &testServer{router: r, beds: bedService, queue: queueService}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *testServer) addBed(t *testing.T, ward models.Ward, distance float64) *models.Bed {
	t.Helper()
	bed, err := s.beds.AddBed(ward, distance)
	require.NoError(t, err)
	return bed
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
}
