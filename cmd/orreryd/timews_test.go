package main

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTimeWS(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/time/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg map[string]interface{}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("reading message: %v", err)
	}
	return msg
}

func TestTimeWSInitialState(t *testing.T) {
	srv := newTestServer(t, "http://unused.invalid")
	conn := dialTimeWS(t, srv)

	msg := readMessage(t, conn)
	if msg["type"] != "time_state" {
		t.Fatalf("first message type %v", msg["type"])
	}
	if msg["is_running"] != false {
		t.Fatal("clock should start paused")
	}
	if msg["time_speed"] != 1.0 {
		t.Fatalf("time_speed = %v", msg["time_speed"])
	}
}

func TestTimeWSCommands(t *testing.T) {
	srv := newTestServer(t, "http://unused.invalid")
	conn := dialTimeWS(t, srv)
	readMessage(t, conn) // initial state

	send := func(cmd map[string]interface{}) map[string]interface{} {
		if err := conn.WriteJSON(cmd); err != nil {
			t.Fatal(err)
		}
		return readMessage(t, conn)
	}

	msg := send(map[string]interface{}{"command": "start"})
	if msg["type"] != "command_success" || msg["command"] != "start" {
		t.Fatalf("start reply %v", msg)
	}
	if !srv.clock.Running() {
		t.Fatal("clock did not start")
	}

	msg = send(map[string]interface{}{"command": "set_speed", "speed": 100.0})
	if msg["speed"] != 100.0 {
		t.Fatalf("set_speed reply %v", msg)
	}
	if srv.clock.Rate() != 100 {
		t.Fatalf("rate = %f", srv.clock.Rate())
	}

	msg = send(map[string]interface{}{"command": "set_time", "time": "2026-03-01T00:00:00Z"})
	if msg["type"] != "command_success" {
		t.Fatalf("set_time reply %v", msg)
	}

	before := srv.clock.Now()
	msg = send(map[string]interface{}{"command": "fast_forward", "hours": 48.0})
	if msg["hours"] != 48.0 {
		t.Fatalf("fast_forward reply %v", msg)
	}
	if jumped := srv.clock.Now().Sub(before); jumped < 47*time.Hour {
		t.Fatalf("fast forward only advanced %v", jumped)
	}

	msg = send(map[string]interface{}{"command": "stop"})
	if msg["command"] != "stop" {
		t.Fatalf("stop reply %v", msg)
	}
	if srv.clock.Running() {
		t.Fatal("clock did not stop")
	}

	msg = send(map[string]interface{}{"command": "get_state"})
	if msg["type"] != "time_state" || msg["is_running"] != false {
		t.Fatalf("state reply %v", msg)
	}

	msg = send(map[string]interface{}{"command": "request_update"})
	if msg["type"] != "time_update" {
		t.Fatalf("update reply %v", msg)
	}

	msg = send(map[string]interface{}{"command": "rewind"})
	if msg["type"] != "error" {
		t.Fatalf("unknown command reply %v", msg)
	}
}

func TestTimeWSSetSpeedDefaults(t *testing.T) {
	srv := newTestServer(t, "http://unused.invalid")
	conn := dialTimeWS(t, srv)
	readMessage(t, conn)

	send := func(cmd map[string]interface{}) map[string]interface{} {
		if err := conn.WriteJSON(cmd); err != nil {
			t.Fatal(err)
		}
		return readMessage(t, conn)
	}

	// An explicit zero pauses time.
	msg := send(map[string]interface{}{"command": "set_speed", "speed": 0.0})
	if msg["speed"] != 0.0 {
		t.Fatalf("reply %v", msg)
	}
	if srv.clock.Rate() != 0 {
		t.Fatalf("rate = %f", srv.clock.Rate())
	}

	// A missing speed field falls back to 1x.
	msg = send(map[string]interface{}{"command": "set_speed"})
	if msg["speed"] != 1.0 {
		t.Fatalf("reply %v", msg)
	}
	if srv.clock.Rate() != 1 {
		t.Fatalf("rate = %f", srv.clock.Rate())
	}
}

func TestTimeWSRejectsBadTime(t *testing.T) {
	srv := newTestServer(t, "http://unused.invalid")
	conn := dialTimeWS(t, srv)
	readMessage(t, conn)

	if err := conn.WriteJSON(map[string]interface{}{"command": "set_time", "time": "noon"}); err != nil {
		t.Fatal(err)
	}
	msg := readMessage(t, conn)
	if msg["type"] != "error" {
		t.Fatalf("reply %v", msg)
	}
}
