package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/robertazzopardi/asteroids/sim"
)

// ---------- helpers ----------

var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

type testServer struct {
	srv   *httptest.Server
	wsURL string
	hub   *Hub
	db    *DB
}

// startTestServer spins up an httptest.Server backed by a temp database.
// Everything is torn down with t.Cleanup.
func startTestServer(t *testing.T) *testServer {
	t.Helper()

	prevIdle, prevCost := SessionIdleTimeout, bcryptCost
	SessionIdleTimeout = 150 * time.Millisecond
	bcryptCost = bcrypt.MinCost

	tmpDir := t.TempDir()
	jsDir := filepath.Join(tmpDir, "js")
	require.NoError(t, os.MkdirAll(jsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte("<html>test</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(jsDir, "main.js"), []byte("// test"), 0o644))

	db, err := OpenDB(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)

	cfg := DefaultGameConfig()
	cfg.NewRand = func() *sim.Rand { return sim.NewRand(7) }
	hub := NewHub(db, cfg, true)
	go hub.Run()

	srv := httptest.NewServer(SetupRoutes(hub, tmpDir))
	t.Cleanup(func() {
		srv.Close()
		hub.Close()
		db.Close()
		SessionIdleTimeout, bcryptCost = prevIdle, prevCost
	})

	return &testServer{
		srv:   srv,
		wsURL: "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws",
		hub:   hub,
		db:    db,
	}
}

// dialWS opens a WebSocket connection to the test server
func (ts *testServer) dialWS(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(ts.wsURL, nil)
	require.NoError(t, err, "dial WS")
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readEnvelope reads one message. Binary frames come back as MsgState
// with a decoded FrameState.
func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, raw, err := conn.ReadMessage()
	require.NoError(t, err, "read WS")

	if msgType == websocket.BinaryMessage {
		var fs FrameState
		require.NoError(t, msgpack.Unmarshal(raw, &fs), "msgpack unmarshal")
		return Envelope{T: MsgState, Data: fs}
	}
	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

// readUntil skips messages until one of type msgType arrives
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) Envelope {
	t.Helper()
	for i := 0; i < 500; i++ {
		env := readEnvelope(t, conn)
		if env.T == msgType {
			return env
		}
	}
	t.Fatalf("no %s message", msgType)
	return Envelope{}
}

// readFrame waits for the next binary frame matching ok
func readFrame(t *testing.T, conn *websocket.Conn, ok func(FrameState) bool) FrameState {
	t.Helper()
	for i := 0; i < 500; i++ {
		env := readUntil(t, conn, MsgState)
		fs := env.Data.(FrameState)
		if ok(fs) {
			return fs
		}
	}
	t.Fatal("no matching frame")
	return FrameState{}
}

// sendMsg sends a typed JSON message
func sendMsg(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	raw, err := json.Marshal(Envelope{T: msgType, Data: data})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw), "write WS")
}

// dataMap extracts the Data field as map[string]interface{}
func dataMap(t *testing.T, env Envelope) map[string]interface{} {
	t.Helper()
	raw, _ := json.Marshal(env.Data)
	var m map[string]interface{}
	json.Unmarshal(raw, &m)
	return m
}

// createAndJoin creates a session and takes its pilot seat. Returns the
// session ID and the pilot's client ID.
func createAndJoin(t *testing.T, conn *websocket.Conn, name, sname string) (string, string) {
	t.Helper()
	sendMsg(t, conn, MsgCreate, map[string]string{"name": name, "sname": sname})
	created := readUntil(t, conn, MsgCreated)
	sid := dataMap(t, created)["sid"].(string)

	sendMsg(t, conn, MsgJoin, map[string]string{"name": name, "sid": sid})
	joined := readUntil(t, conn, MsgJoined)
	require.Equal(t, sid, dataMap(t, joined)["sid"])
	welcome := readUntil(t, conn, MsgWelcome)
	return sid, dataMap(t, welcome)["id"].(string)
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

// ---------- IDs ----------

func TestGenerateUUIDFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateUUID()
		assert.Regexp(t, uuidRegex, id)
		require.False(t, seen[id], "duplicate UUID %s", id)
		seen[id] = true
	}
}

func TestSessionIDIsUUID(t *testing.T) {
	sm := NewSessionManager(DefaultGameConfig(), nil, nil, nil)
	defer sm.StopAll()
	sess := sm.CreateSession("TestField")
	assert.Regexp(t, uuidRegex, sess.ID)
}

// ---------- SPA routing ----------

func TestSPARouting(t *testing.T) {
	ts := startTestServer(t)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/", http.StatusOK, "<html>"},
		{"/" + GenerateUUID(), http.StatusOK, "<html>"},
		{"/js/main.js", http.StatusOK, "// test"},
		{"/not-a-uuid", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := httpGet(t, ts.srv.URL+tt.path)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, string(body), tt.body)
		})
	}
}

// ---------- Session check ----------

func TestCheckSessionExists(t *testing.T) {
	ts := startTestServer(t)
	c1 := ts.dialWS(t)
	sid, _ := createAndJoin(t, c1, "Pilot", "Field")

	c2 := ts.dialWS(t)
	sendMsg(t, c2, MsgCheck, map[string]string{"sid": sid})

	d := dataMap(t, readUntil(t, c2, MsgChecked))
	assert.Equal(t, true, d["exists"])
	assert.Equal(t, sid, d["sid"])
	assert.Equal(t, "Field", d["name"])
	assert.Equal(t, "Pilot", d["pilot"])
}

func TestCheckSessionNotExists(t *testing.T) {
	ts := startTestServer(t)
	c := ts.dialWS(t)

	fakeSID := GenerateUUID()
	sendMsg(t, c, MsgCheck, map[string]string{"sid": fakeSID})

	d := dataMap(t, readUntil(t, c, MsgChecked))
	assert.Equal(t, false, d["exists"])
	assert.Equal(t, fakeSID, d["sid"])
}

// ---------- Join and watch ----------

func TestJoinNonExistentSession(t *testing.T) {
	ts := startTestServer(t)
	c := ts.dialWS(t)

	sendMsg(t, c, MsgJoin, map[string]string{"name": "Lost", "sid": GenerateUUID()})
	env := readEnvelope(t, c)
	assert.Equal(t, MsgError, env.T)
}

func TestSecondPilotRejectedButCanWatch(t *testing.T) {
	ts := startTestServer(t)
	c1 := ts.dialWS(t)
	sid, _ := createAndJoin(t, c1, "Alice", "Shared")

	c2 := ts.dialWS(t)
	sendMsg(t, c2, MsgJoin, map[string]string{"name": "Bob", "sid": sid})
	errEnv := readUntil(t, c2, MsgError)
	assert.Equal(t, ErrPilotTaken.Error(), dataMap(t, errEnv)["msg"])

	sendMsg(t, c2, MsgWatch, map[string]string{"sid": sid})
	readUntil(t, c2, MsgJoined)
	welcome := dataMap(t, readUntil(t, c2, MsgWelcome))
	assert.Equal(t, false, welcome["pilot"])
	assert.Equal(t, sim.DefaultFieldSize, welcome["f"])

	// spectators receive frames too
	fs := readFrame(t, c2, func(FrameState) bool { return true })
	assert.NotEmpty(t, fs.Ship.P)
}

func TestGuestNameWhenEmpty(t *testing.T) {
	ts := startTestServer(t)
	c := ts.dialWS(t)
	sid, _ := createAndJoin(t, c, "", "Nameless")

	sess := ts.hub.sessions.GetSession(sid)
	require.NotNil(t, sess)
	pilot, _, _, _ := sess.Game.Info()
	assert.True(t, strings.HasPrefix(pilot, "Pilot_"), "got %q", pilot)
}

// ---------- Session lifecycle ----------

func TestCreateAndLeaveSession(t *testing.T) {
	ts := startTestServer(t)
	c := ts.dialWS(t)
	sid, _ := createAndJoin(t, c, "Solo", "Temp")

	sendMsg(t, c, MsgLeave, nil)

	assert.Eventually(t, func() bool {
		return ts.hub.sessions.GetSession(sid) == nil
	}, 2*time.Second, 20*time.Millisecond, "empty session should be reaped")
}

func TestListSessions(t *testing.T) {
	ts := startTestServer(t)
	c := ts.dialWS(t)

	sendMsg(t, c, MsgList, nil)
	raw, _ := json.Marshal(readUntil(t, c, MsgSessions).Data)
	var sessions []SessionInfo
	require.NoError(t, json.Unmarshal(raw, &sessions))
	assert.Empty(t, sessions)

	c2 := ts.dialWS(t)
	createAndJoin(t, c2, "P1", "Field1")

	sendMsg(t, c, MsgList, nil)
	raw, _ = json.Marshal(readUntil(t, c, MsgSessions).Data)
	require.NoError(t, json.Unmarshal(raw, &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "Field1", sessions[0].Name)
	assert.Equal(t, "P1", sessions[0].Pilot)
	assert.Equal(t, 0, sessions[0].Watchers)
}

// ---------- Frames and input ----------

func TestFrameBroadcasts(t *testing.T) {
	ts := startTestServer(t)
	c := ts.dialWS(t)
	createAndJoin(t, c, "Tester", "Frames")

	fs := readFrame(t, c, func(FrameState) bool { return true })
	assert.Positive(t, fs.Tick)
	assert.Len(t, fs.Ship.P, 6, "triangle as flat xy")
	assert.GreaterOrEqual(t, len(fs.Asteroids), sim.InitialAsteroids)
	assert.Len(t, fs.Stars, sim.StarCount*3)
	assert.False(t, fs.Over)
}

func TestJSONInputFiresLaser(t *testing.T) {
	ts := startTestServer(t)
	c := ts.dialWS(t)
	createAndJoin(t, c, "Gunner", "Input")

	sendMsg(t, c, MsgInput, InputMsg{E: "fire"})

	fs := readFrame(t, c, func(fs FrameState) bool { return len(fs.Lasers) > 0 })
	assert.Len(t, fs.Lasers, 2)
}

func TestBinaryInputFiresLaser(t *testing.T) {
	ts := startTestServer(t)
	c := ts.dialWS(t)
	createAndJoin(t, c, "Gunner", "Binary")

	require.NoError(t, c.WriteMessage(websocket.BinaryMessage, []byte{inputMarker, byte(sim.Fire)}))

	readFrame(t, c, func(fs FrameState) bool { return len(fs.Lasers) > 0 })
}

func TestMalformedInputIgnored(t *testing.T) {
	ts := startTestServer(t)
	c := ts.dialWS(t)

	// before joining, then with bad payloads
	sendMsg(t, c, MsgInput, InputMsg{E: "fire"})
	sendMsg(t, c, MsgInput, InputMsg{E: "warp"})
	require.NoError(t, c.WriteMessage(websocket.BinaryMessage, []byte{inputMarker, 200}))
	require.NoError(t, c.WriteMessage(websocket.BinaryMessage, []byte{inputMarker}))

	sendMsg(t, c, MsgList, nil)
	assert.Equal(t, MsgSessions, readEnvelope(t, c).T)
}

func TestQuitEndsGameAndRecordsScore(t *testing.T) {
	ts := startTestServer(t)
	c := ts.dialWS(t)
	sid, _ := createAndJoin(t, c, "Quitter", "Quit")

	sendMsg(t, c, MsgInput, InputMsg{E: "quit"})

	over := dataMap(t, readUntil(t, c, MsgOver))
	assert.Equal(t, "quit", over["reason"])

	require.Eventually(t, func() bool {
		scores, err := ts.db.TopScores(10)
		return err == nil && len(scores) == 1
	}, 2*time.Second, 20*time.Millisecond)

	resp, body := httpGet(t, ts.srv.URL+"/scores")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []ScoreEntry
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Quitter", entries[0].Name)
	assert.Equal(t, 1, entries[0].Rank)

	// restart brings a fresh world
	sendMsg(t, c, MsgRestart, nil)
	assert.Eventually(t, func() bool {
		_, _, _, over := ts.hub.sessions.GetSession(sid).Game.Info()
		return !over
	}, 2*time.Second, 20*time.Millisecond)
}

// ---------- Controller ----------

func TestControllerDrivesPilot(t *testing.T) {
	ts := startTestServer(t)
	pilot := ts.dialWS(t)
	sid, pid := createAndJoin(t, pilot, "Driver", "Remote")

	phone := ts.dialWS(t)
	sendMsg(t, phone, MsgControl, ControlMsg{SID: sid, PilotID: "nobody"})
	assert.Equal(t, MsgError, readUntil(t, phone, MsgError).T)

	sendMsg(t, phone, MsgControl, ControlMsg{SID: sid, PilotID: pid})
	ok := dataMap(t, readUntil(t, phone, MsgControlOK))
	assert.Equal(t, pid, ok["pid"])
	readUntil(t, pilot, MsgCtrlOn)

	require.NoError(t, phone.WriteMessage(websocket.BinaryMessage, []byte{inputMarker, byte(sim.Fire)}))
	readFrame(t, pilot, func(fs FrameState) bool { return len(fs.Lasers) > 0 })

	phone.Close()
	readUntil(t, pilot, MsgCtrlOff)
}

func TestQRCode(t *testing.T) {
	ts := startTestServer(t)

	resp, _ := httpGet(t, ts.srv.URL+"/qr/"+GenerateUUID())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	sess := ts.hub.sessions.CreateSession("Empty")
	resp, _ = httpGet(t, ts.srv.URL+"/qr/"+sess.ID)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "no pilot yet")

	c := ts.dialWS(t)
	sid, _ := createAndJoin(t, c, "Scan", "QR")
	resp, body := httpGet(t, ts.srv.URL+"/qr/"+sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, []byte("\x89PNG"), body[:4])
}

// ---------- Accounts ----------

func TestRegisterLoginOverWS(t *testing.T) {
	ts := startTestServer(t)
	c := ts.dialWS(t)

	sendMsg(t, c, MsgRegister, RegisterMsg{Username: "ace", Password: "hunter2"})
	reg := dataMap(t, readUntil(t, c, MsgAuthOK))
	assert.Equal(t, "ace", reg["username"])
	assert.Equal(t, float64(0), reg["best"])
	token := reg["token"].(string)
	require.NotEmpty(t, token)

	sendMsg(t, c, MsgRegister, RegisterMsg{Username: "ace", Password: "other"})
	assert.Equal(t, ErrUsernameTaken.Error(), dataMap(t, readUntil(t, c, MsgError))["msg"])

	pid := int64(reg["pid"].(float64))
	for _, score := range []int{150, 40} {
		_, err := ts.db.RecordScore(ScoreRow{PilotID: pid, Name: "ace", SessionID: "s", Score: score})
		require.NoError(t, err)
	}

	c2 := ts.dialWS(t)
	sendMsg(t, c2, MsgLogin, LoginMsg{Username: "ace", Password: "hunter2"})
	login := dataMap(t, readUntil(t, c2, MsgAuthOK))
	assert.Equal(t, "ace", login["username"])
	assert.Equal(t, float64(150), login["best"])

	c3 := ts.dialWS(t)
	sendMsg(t, c3, MsgAuth, AuthMsg{Token: token})
	assert.Equal(t, reg["pid"], dataMap(t, readUntil(t, c3, MsgAuthOK))["pid"])

	// an authenticated pilot flies under the account name
	sid, _ := createAndJoin(t, c3, "ignored", "Accounts")
	pilot, _, _, _ := ts.hub.sessions.GetSession(sid).Game.Info()
	assert.Equal(t, "ace", pilot)
}

// ---------- Stats ----------

func TestStatsEndpoint(t *testing.T) {
	ts := startTestServer(t)
	c := ts.dialWS(t)
	createAndJoin(t, c, "Stat", "Stats")

	resp, body := httpGet(t, ts.srv.URL+"/stats")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats StatsResponse
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 1, stats.Sessions)
	assert.Equal(t, 1, stats.Conns)
	assert.NotNil(t, stats.Events)
}
