package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	controller "github.com/m-mizutani/autoslack/pkg/controller/http"
	"github.com/m-mizutani/autoslack/pkg/domain/model"
	"github.com/m-mizutani/autoslack/pkg/domain/types"
)

func TestHealthEndpoint(t *testing.T) {
	server, err := controller.NewServer(context.Background(), &mockWebhookUseCase{})
	gt.NoError(t, err)

	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	gt.Value(t, w.Code).Equal(http.StatusOK)

	var status model.HealthStatus
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	gt.Value(t, status.Status).Equal("healthy")
	gt.Value(t, status.Service).Equal("autoslack")
	gt.Value(t, status.Version).Equal(types.Version)
}

func TestHealthEndpoint_WrongMethod(t *testing.T) {
	server, err := controller.NewServer(context.Background(), &mockWebhookUseCase{})
	gt.NoError(t, err)

	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	gt.Value(t, w.Code).Equal(http.StatusMethodNotAllowed)
}
