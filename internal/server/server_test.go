package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/pairchat/internal/broker"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := NewServer()
	go s.Broker.Run()
	t.Cleanup(s.Broker.Stop)

	ts := httptest.NewServer(s.Router)
	t.Cleanup(ts.Close)
	return ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, evt broker.EventType, data interface{}) {
	t.Helper()
	env := broker.Envelope{Type: evt, Timestamp: time.Now()}
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err)
		env.Data = raw
	}
	require.NoError(t, conn.WriteJSON(env))
}

func readEvent(t *testing.T, conn *websocket.Conn) broker.Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var env broker.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatsEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats broker.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 0, stats.Clients)
	assert.Equal(t, 0, stats.Sessions)
}

// Сквозной сценарий рандеву через настоящий WebSocket-транспорт
func TestRendezvousOverWebSocket(t *testing.T) {
	ts := startTestServer(t)

	creator := dialWS(t, ts)
	joiner := dialWS(t, ts)

	sendEvent(t, creator, broker.EventCreateRoom, nil)

	env := readEvent(t, creator)
	require.Equal(t, broker.EventRoomCreated, env.Type)

	var created broker.RoomCreatedPayload
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Len(t, created.Code, 6)

	sendEvent(t, joiner, broker.EventJoinRoom, broker.JoinRoomPayload{Code: created.Code})

	assert.Equal(t, broker.EventStartChat, readEvent(t, creator).Type)
	assert.Equal(t, broker.EventStartChat, readEvent(t, joiner).Type)

	sendEvent(t, creator, broker.EventSendMessage, json.RawMessage(`{"text":"hi"}`))

	env = readEvent(t, joiner)
	require.Equal(t, broker.EventReceiveMessage, env.Type)
	assert.JSONEq(t, `{"text":"hi"}`, string(env.Data))

	// Разрыв соединения второго участника рушит сессию
	joiner.Close()

	env = readEvent(t, creator)
	assert.Equal(t, broker.EventPartnerDisconnected, env.Type)
}

func TestMatchmakingOverWebSocket(t *testing.T) {
	ts := startTestServer(t)

	seeker := dialWS(t, ts)
	responder := dialWS(t, ts)

	sendEvent(t, seeker, broker.EventJoinQueue, broker.JoinQueuePayload{Role: "seeker", Tag: "grief"})
	sendEvent(t, responder, broker.EventJoinQueue, broker.JoinQueuePayload{Role: "responder", Tag: "grief"})

	var first, second broker.MatchFoundPayload

	env := readEvent(t, seeker)
	require.Equal(t, broker.EventMatchFound, env.Type)
	require.NoError(t, json.Unmarshal(env.Data, &first))

	env = readEvent(t, responder)
	require.Equal(t, broker.EventMatchFound, env.Type)
	require.NoError(t, json.Unmarshal(env.Data, &second))

	assert.Equal(t, first.SessionID, second.SessionID)
}
