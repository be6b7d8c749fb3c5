package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/model"
)

type fakeRepository struct {
	status *model.StatusResponse
	err    error
}

func (r *fakeRepository) InsertItem(ctx context.Context, item *model.ProvisionItem) error {
	return nil
}

func (r *fakeRepository) LessonStatus(ctx context.Context, lessonNumber string) (*model.StatusResponse, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.status, nil
}

func testRouter(repo *fakeRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.App.Name = "classroom-provisioner"
	cfg.App.Version = "1.0.0"

	handler := NewHandler(repo, nil, nil, cfg)

	router := gin.New()
	SetupRoutes(router, handler)
	return router
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(&fakeRepository{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestCreateLessonValidation(t *testing.T) {
	router := testRouter(&fakeRepository{})

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"bad number", `{"number":"3","title":"Data modeling","date":"2024/05/10"}`},
		{"missing title", `{"number":"03","date":"2024/05/10"}`},
		{"bad date", `{"number":"03","title":"Data modeling","date":"2024-05-10"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/lessons", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetLessonStatus(t *testing.T) {
	repo := &fakeRepository{status: &model.StatusResponse{
		LessonNumber: "03",
		TotalItems:   8,
		CreatedCount: 7,
		FailedCount:  1,
		Errors:       []string{"quota exceeded"},
		UpdatedAt:    time.Date(2024, 5, 10, 10, 30, 0, 0, time.UTC),
	}}
	router := testRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lessons/03/status", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got model.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 8, got.TotalItems)
	assert.Equal(t, 1, got.FailedCount)
	assert.Equal(t, []string{"quota exceeded"}, got.Errors)
}

func TestGetLessonStatusInvalidNumber(t *testing.T) {
	router := testRouter(&fakeRepository{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lessons/abc/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
