package main

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-kit/log/level"
	"github.com/gorilla/websocket"
)

var timeUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// timeCommand is a control message from a time-control client. Speed is a
// pointer so that an absent field can default to 1x while an explicit zero
// still pauses time.
type timeCommand struct {
	Command string   `json:"command"`
	Speed   *float64 `json:"speed,omitempty"`
	Time    string   `json:"time,omitempty"`
	Hours   float64  `json:"hours,omitempty"`
}

// timeConn serializes writes to one websocket client. Gorilla connections
// allow at most one concurrent writer.
type timeConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *timeConn) sendJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(v)
}

// handleTimeWS is the websocket control channel for the simulation clock. On
// connect the client receives the current state; after that it drives the
// clock with JSON commands and polls for updates.
func (s *Server) handleTimeWS(w http.ResponseWriter, r *http.Request) {
	raw, err := timeUpgrader.Upgrade(w, r, nil)
	if err != nil {
		level.Warn(s.logger).Log("msg", "websocket upgrade failed", "err", err)
		return
	}
	conn := &timeConn{conn: raw}
	s.metrics.ClientConnected()
	defer func() {
		s.metrics.ClientDisconnected()
		raw.Close()
	}()

	if err := conn.sendJSON(s.timeStateMessage("time_state")); err != nil {
		return
	}

	for {
		var cmd timeCommand
		if err := raw.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				level.Warn(s.logger).Log("msg", "time client read failed", "err", err)
			}
			return
		}
		if err := s.handleTimeCommand(conn, cmd); err != nil {
			conn.sendJSON(map[string]string{"type": "error", "message": err.Error()})
		}
	}
}

func (s *Server) timeStateMessage(typ string) map[string]interface{} {
	st := s.clock.State()
	return map[string]interface{}{
		"type":         typ,
		"is_running":   st.IsRunning,
		"time_speed":   st.TimeSpeed,
		"current_time": st.CurrentTime.Format(time.RFC3339Nano),
		"julian_date":  st.JulianDate,
	}
}

func commandSuccess(command, message string, extra map[string]interface{}) map[string]interface{} {
	msg := map[string]interface{}{
		"type":    "command_success",
		"command": command,
		"message": message,
	}
	for k, v := range extra {
		msg[k] = v
	}
	return msg
}

func (s *Server) handleTimeCommand(conn *timeConn, cmd timeCommand) error {
	switch cmd.Command {
	case "start":
		s.clock.Start()
		return conn.sendJSON(commandSuccess("start", "time started", nil))
	case "stop":
		s.clock.Stop()
		return conn.sendJSON(commandSuccess("stop", "time stopped", nil))
	case "set_speed":
		speed := 1.0
		if cmd.Speed != nil {
			speed = *cmd.Speed
		}
		s.clock.SetRate(speed)
		rate := s.clock.Rate()
		return conn.sendJSON(commandSuccess("set_speed", fmt.Sprintf("time speed set to %gx", rate),
			map[string]interface{}{"speed": rate}))
	case "set_time":
		t, err := time.Parse(time.RFC3339, cmd.Time)
		if err != nil {
			return fmt.Errorf("invalid time %q: %v", cmd.Time, err)
		}
		s.clock.SetTime(t)
		return conn.sendJSON(commandSuccess("set_time", "time set",
			map[string]interface{}{"time": t.UTC().Format(time.RFC3339Nano)}))
	case "fast_forward":
		hours := cmd.Hours
		if hours == 0 {
			hours = 1
		}
		s.clock.Step(time.Duration(hours * float64(time.Hour)))
		return conn.sendJSON(commandSuccess("fast_forward", fmt.Sprintf("fast forwarded %g hours", hours),
			map[string]interface{}{"hours": hours}))
	case "get_state":
		return conn.sendJSON(s.timeStateMessage("time_state"))
	case "request_update":
		return conn.sendJSON(s.timeStateMessage("time_update"))
	default:
		return fmt.Errorf("unknown command: %s", cmd.Command)
	}
}
