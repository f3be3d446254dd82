package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/shooting-gallery/internal/config"
	"github.com/xtding233/shooting-gallery/internal/protocol"
	"github.com/xtding233/shooting-gallery/internal/session"
	"github.com/xtding233/shooting-gallery/internal/sim"
)

func newTestServer(t *testing.T, balance int64) *httptest.Server {
	t.Helper()
	settings := config.DefaultSettings()
	settings.Engine.SpawnChance = 0
	settings.StartBalance = balance
	ctx, cancel := context.WithCancel(context.Background())
	mgr := session.NewManager(settings, session.Options{})
	a := &api{base: ctx, mgr: mgr, frameEvery: 20 * time.Millisecond}
	ts := httptest.NewServer(a.routes())
	t.Cleanup(func() {
		ts.Close()
		mgr.CloseAll()
		cancel()
	})
	return ts
}

func createSession(t *testing.T, ts *httptest.Server) session.Status {
	t.Helper()
	resp, err := http.Post(ts.URL+"/session", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var st session.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	return st
}

func getJSON(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestHTTPSessionFlow(t *testing.T) {
	ts := newTestServer(t, 100)
	st := createSession(t, ts)
	assert.Equal(t, int64(100), st.Balance)
	assert.Equal(t, int64(10), st.Stake)

	var fr fireResp
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/fire?sid="+st.ID+"&x=100&y=100", &fr))
	assert.Equal(t, int64(90), fr.Balance)
	assert.NotZero(t, fr.ID)

	var bet session.Status
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/bet?sid="+st.ID+"&dir=up", &bet))
	assert.Equal(t, int64(50), bet.Stake)

	fr = fireResp{}
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/fire?sid="+st.ID+"&x=200&y=100", &fr))
	assert.Equal(t, int64(40), fr.Balance)

	fr = fireResp{}
	assert.Equal(t, http.StatusPaymentRequired, getJSON(t, ts.URL+"/fire?sid="+st.ID+"&x=200&y=100", &fr))
	assert.Contains(t, fr.Err, "insufficient funds")
	assert.Equal(t, int64(40), fr.Balance)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/fire?sid="+st.ID+"&x=-5&y=100", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/fire?sid="+st.ID+"&x=abc&y=100", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/bet?sid="+st.ID+"&dir=left", nil))

	var topped session.Status
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/topup?sid="+st.ID, &topped))
	assert.Equal(t, 40+config.DefaultTopUp, topped.Balance)

	var snap struct {
		Width       float64           `json:"width"`
		Projectiles []json.RawMessage `json:"projectiles"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/snapshot?sid="+st.ID, &snap))
	assert.Equal(t, 1280.0, snap.Width)

	var stopped session.Status
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/stop?sid="+st.ID, &stopped))
	assert.True(t, stopped.Closed)
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/status?sid="+st.ID, nil))
}

func TestCreateRequiresPost(t *testing.T) {
	ts := newTestServer(t, 100)
	assert.Equal(t, http.StatusMethodNotAllowed, getJSON(t, ts.URL+"/session", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/status", nil))
}

func readEnvelope(t *testing.T, conn *websocket.Conn, kind protocol.Kind) protocol.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		mt, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		require.Equal(t, websocket.BinaryMessage, mt)
		env, err := protocol.Decode(msg)
		require.NoError(t, err)
		if env.Kind == kind {
			return env
		}
	}
}

func TestWebSocketStream(t *testing.T) {
	ts := newTestServer(t, 5)
	st := createSession(t, ts)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?sid=" + st.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readEnvelope(t, conn, protocol.KindStatus)
	assert.Equal(t, int64(5), first.Status.Balance)

	frame := readEnvelope(t, conn, protocol.KindFrame)
	assert.Equal(t, 1280.0, frame.Frame.Width)
	assert.Greater(t, frame.Seq, first.Seq)

	b, err := protocol.EncodeCommand(protocol.Command{Op: protocol.OpBet, Dir: "up"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, b))
	assert.Equal(t, int64(50), readEnvelope(t, conn, protocol.KindStatus).Status.Stake)

	b, err = protocol.EncodeCommand(protocol.Command{Op: protocol.OpFire, X: 100, Y: 100})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, b))
	ev := readEnvelope(t, conn, protocol.KindEvent)
	assert.Equal(t, "INSUFFICIENT FUNDS! ADD COINS!", ev.Event.Description)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0xc1}))
	assert.NotEmpty(t, readEnvelope(t, conn, protocol.KindError).Error)
}

func TestPrintReport(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Engine.SpawnChance = 0.1
	rep, err := sim.Run(sim.Params{Trials: 3, Ticks: 600, Seed: 5, Settings: settings, Policy: sim.Policy{Every: 6, Stake: 10, Lead: true}})
	require.NoError(t, err)

	var buf bytes.Buffer
	printReport(&buf, rep)
	out := buf.String()
	assert.Contains(t, out, "RTP")
	assert.Contains(t, out, "trials 3 x 600 ticks")
}
