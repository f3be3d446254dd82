package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/xtding233/shooting-gallery/internal/gallery"
	"github.com/xtding233/shooting-gallery/internal/protocol"
	"github.com/xtding233/shooting-gallery/internal/session"
)

type fireResp struct {
	ID      uint64 `json:"id,omitempty"`
	Balance int64  `json:"balance"`
	Err     string `json:"err,omitempty"`
}

type errResp struct {
	Err string `json:"err"`
}

// api serves the session manager over plain HTTP and a WebSocket stream.
type api struct {
	base       context.Context
	mgr        *session.Manager
	frameEvery time.Duration
}

func (a *api) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/session", a.handleCreate)
	mux.HandleFunc("/fire", a.handleFire)
	mux.HandleFunc("/bet", a.handleBet)
	mux.HandleFunc("/snapshot", a.handleSnapshot)
	mux.HandleFunc("/status", a.handleStatus)
	mux.HandleFunc("/stop", a.handleStop)
	mux.HandleFunc("/topup", a.handleTopUp)
	mux.HandleFunc("/ws", a.handleWS)
	return mux
}

func parseFloat(r *http.Request, key string) (float64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusCode maps core and session errors onto HTTP.
func statusCode(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, gallery.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, gallery.ErrStopped):
		return http.StatusConflict
	case errors.Is(err, gallery.ErrInvalidAim), errors.Is(err, gallery.ErrInvalidBet):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (a *api) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sid := r.URL.Query().Get("sid")
	if sid == "" {
		http.Error(w, "missing param sid", http.StatusBadRequest)
		return nil, false
	}
	s, err := a.mgr.Get(sid)
	if err != nil {
		writeJSON(w, statusCode(err), errResp{Err: err.Error()})
		return nil, false
	}
	return s, true
}

// POST /session
func (a *api) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	s, err := a.mgr.Create(a.base)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errResp{Err: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, s.Status())
}

// /fire?sid=&x=&y=
func (a *api) handleFire(w http.ResponseWriter, r *http.Request) {
	s, ok := a.lookup(w, r)
	if !ok {
		return
	}
	x, okX, msgX := parseFloat(r, "x")
	y, okY, msgY := parseFloat(r, "y")
	if msgX != "" || msgY != "" {
		http.Error(w, msgX+msgY, http.StatusBadRequest)
		return
	}
	if !okX || !okY {
		http.Error(w, "missing param x or y", http.StatusBadRequest)
		return
	}
	id, err := s.Fire(x, y)
	resp := fireResp{ID: id, Balance: s.Purse().Balance()}
	if err != nil {
		resp.Err = err.Error()
		writeJSON(w, statusCode(err), resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// /bet?sid=&dir=up|down
func (a *api) handleBet(w http.ResponseWriter, r *http.Request) {
	s, ok := a.lookup(w, r)
	if !ok {
		return
	}
	switch r.URL.Query().Get("dir") {
	case "up":
		s.BetUp()
	case "down":
		s.BetDown()
	default:
		http.Error(w, "dir must be up or down", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.Status())
}

func (a *api) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s, ok := a.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (a *api) handleStatus(w http.ResponseWriter, r *http.Request) {
	s, ok := a.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Status())
}

func (a *api) handleStop(w http.ResponseWriter, r *http.Request) {
	s, ok := a.lookup(w, r)
	if !ok {
		return
	}
	st := s.Status()
	if err := a.mgr.Close(s.ID); err != nil {
		writeJSON(w, statusCode(err), errResp{Err: err.Error()})
		return
	}
	st.Closed = true
	writeJSON(w, http.StatusOK, st)
}

// /topup?sid= grants the configured chip bundle.
func (a *api) handleTopUp(w http.ResponseWriter, r *http.Request) {
	s, ok := a.lookup(w, r)
	if !ok {
		return
	}
	if _, err := s.TopUp(); err != nil {
		code := statusCode(err)
		if errors.Is(err, session.ErrTopUpDisabled) {
			code = http.StatusForbidden
		}
		writeJSON(w, code, errResp{Err: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.Status())
}

var upgrader = websocket.Upgrader{
	// renderers are served from anywhere in dev
	CheckOrigin: func(r *http.Request) bool { return true },
}

// /ws?sid= streams msgpack envelopes: a frame every frameEvery, events as they
// happen, and a status after every bet or top-up command. Inbound binary messages are commands.
func (a *api) handleWS(w http.ResponseWriter, r *http.Request) {
	s, ok := a.lookup(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(1 << 16)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	events, cancel := s.Subscribe()
	defer cancel()

	var seq protocol.Sequencer
	replies := make(chan protocol.Envelope, 8)
	readerDone := make(chan struct{})
	writerDone := make(chan struct{})
	defer close(writerDone)
	reply := func(env protocol.Envelope) {
		select {
		case replies <- env:
		case <-writerDone:
		}
	}
	go func() {
		defer close(readerDone)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			cmd, err := protocol.DecodeCommand(msg)
			if err != nil {
				reply(seq.Error(err))
				continue
			}
			switch cmd.Op {
			case protocol.OpFire:
				// insufficient funds arrives as an event; bad aim is dropped
				if _, err := s.Fire(cmd.X, cmd.Y); errors.Is(err, gallery.ErrStopped) {
					return
				}
			case protocol.OpBet:
				if cmd.Dir == "up" {
					s.BetUp()
				} else {
					s.BetDown()
				}
				reply(seq.Status(s.Status()))
			case protocol.OpTopUp:
				if _, err := s.TopUp(); err != nil {
					reply(seq.Error(err))
					continue
				}
				reply(seq.Status(s.Status()))
			case protocol.OpStop:
				_ = a.mgr.Close(s.ID)
				return
			}
		}
	}()

	send := func(env protocol.Envelope) bool {
		b, err := protocol.Encode(env)
		if err != nil {
			log.Println("encode:", err)
			return true
		}
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
			log.Println("write:", err)
			return false
		}
		return true
	}

	frames := time.NewTicker(a.frameEvery)
	defer frames.Stop()
	ping := time.NewTicker(25 * time.Second)
	defer ping.Stop()
	if !send(seq.Status(s.Status())) {
		return
	}
	for {
		select {
		case <-readerDone:
			return
		case <-s.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
				time.Now().Add(time.Second))
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !send(seq.Event(ev)) {
				return
			}
		case env := <-replies:
			if !send(env) {
				return
			}
		case <-frames.C:
			if !send(seq.Frame(s.Snapshot())) {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
