package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/card-combat-backend/internal/hub"
)

func writeJSON(t *testing.T, ctx context.Context, conn *websocket.Conn, v any) {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, conn.Write(ctx, websocket.MessageText, payload))
}

// readEvent reads frames until one with the wanted type arrives.
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, want string) map[string]any {
	t.Helper()
	for {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err, "reading while waiting for %q", want)
		var evt map[string]any
		require.NoError(t, json.Unmarshal(data, &evt))
		if evt["type"] == want {
			return evt
		}
	}
}

func TestHandlerEndToEnd(t *testing.T) {
	logger := zap.NewNop()
	h := hub.NewHub(context.Background(), logger)
	reg := NewRegistry()

	srv := httptest.NewServer(Handler(h, reg, logger, nil))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer connA.Close(websocket.StatusNormalClosure, "")

	writeJSON(t, ctx, connA, map[string]any{"type": "create", "name": "Alice"})

	created := readEvent(t, ctx, connA, "created")
	code, _ := created["code"].(string)
	require.Len(t, code, 6)
	you, _ := created["you"].(map[string]any)
	require.NotNil(t, you)
	assert.Equal(t, "Alice", you["name"])

	jackpot := readEvent(t, ctx, connA, "jackpotState")
	assert.InDelta(t, 1000.00, jackpot["jackpot"].(float64), 1e-9)

	// Second player joins with a messy code; normalization recovers it.
	connB, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer connB.Close(websocket.StatusNormalClosure, "")

	writeJSON(t, ctx, connB, map[string]any{"type": "join", "code": " " + strings.ToLower(code) + "!"})
	joined := readEvent(t, ctx, connB, "joined")
	assert.Equal(t, code, joined["code"])

	// A sees the roster grow to two, spread at thirds.
	var roster map[string]any
	for {
		roster = readEvent(t, ctx, connA, "roster")
		if players, _ := roster["players"].([]any); len(players) == 2 {
			break
		}
	}
	players := roster["players"].([]any)
	first := players[0].(map[string]any)
	second := players[1].(map[string]any)
	assert.InDelta(t, 1.0/3.0, first["x"].(float64), 1e-9)
	assert.InDelta(t, 2.0/3.0, second["x"].(float64), 1e-9)

	// Malformed and unknown frames are dropped without killing the stream.
	require.NoError(t, connB.Write(ctx, websocket.MessageText, []byte("{definitely not json")))
	writeJSON(t, ctx, connB, map[string]any{"type": "teleport"})

	writeJSON(t, ctx, connB, map[string]any{"type": "start"})
	readEvent(t, ctx, connA, "started")

	assert.Equal(t, 2, reg.Count())

	// B disconnecting is an implicit leave; A gets a one-player roster back.
	connB.Close(websocket.StatusNormalClosure, "")
	for {
		roster = readEvent(t, ctx, connA, "roster")
		if players, _ := roster["players"].([]any); len(players) == 1 {
			break
		}
	}
}
