package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/card-combat-backend/internal/hub"
	"github.com/DoyleJ11/card-combat-backend/internal/ws"
)

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestInfoReportsCounts(t *testing.T) {
	h := hub.NewHub(context.Background(), nil)
	reg := ws.NewRegistry()

	srv := httptest.NewServer(SetupRoutes(h, reg, zap.NewNop(), nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		OK          bool   `json:"ok"`
		Message     string `json:"message"`
		Lobbies     int    `json:"lobbies"`
		Connections int    `json:"connections"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.OK)
	assert.NotEmpty(t, body.Message)
	assert.Zero(t, body.Lobbies)
	assert.Zero(t, body.Connections)
}
