package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"casino_loyalty/internal/events"
	"casino_loyalty/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func dial(t *testing.T, srv *httptest.Server, userID int64) *websocket.Conn {
	t.Helper()
	token, err := service.GenerateJWT(userID, service.RolePlayer)
	if err != nil {
		t.Fatal(err)
	}
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return m
}

func newServer(hub *Hub) *httptest.Server {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", HandleWS(hub, ""))
	return httptest.NewServer(r)
}

func TestHubDeliversPlayerEvents(t *testing.T) {
	service.InitJWT("ws-test-secret")
	hub := NewHub()
	srv := newServer(hub)
	defer srv.Close()

	conn := dial(t, srv, 5)
	defer conn.Close()

	if m := readMessage(t, conn); m.Type != MsgReady {
		t.Fatalf("expected ready, got %q", m.Type)
	}

	hub.HandleEvent(events.New(events.TypeFaucetClaimed, 5, map[string]interface{}{"amount": "1"}))
	m := readMessage(t, conn)
	if m.Type != events.TypeFaucetClaimed || m.Payload["amount"] != "1" {
		t.Fatalf("unexpected message %+v", m)
	}

	// другой игрок ничего не получает
	if n := hub.Notify(6, []byte(`{}`)); n != 0 {
		t.Fatalf("notify to absent player delivered %d", n)
	}
}

func TestPingPong(t *testing.T) {
	service.InitJWT("ws-test-secret")
	hub := NewHub()
	srv := newServer(hub)
	defer srv.Close()

	conn := dial(t, srv, 9)
	defer conn.Close()
	readMessage(t, conn)

	if err := conn.WriteJSON(Message{Type: MsgPing}); err != nil {
		t.Fatal(err)
	}
	if m := readMessage(t, conn); m.Type != MsgPong {
		t.Fatalf("expected pong, got %q", m.Type)
	}
}

func TestRejectsMissingToken(t *testing.T) {
	service.InitJWT("ws-test-secret")
	srv := newServer(NewHub())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %+v", resp)
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	c := &Client{UserID: 1, Send: make(chan []byte, 1), hub: hub}
	hub.Register(c)
	if hub.Connections(1) != 1 {
		t.Fatalf("expected one connection")
	}
	hub.Unregister(c)
	hub.Unregister(c)
	if hub.Connections(1) != 0 {
		t.Fatalf("expected no connections")
	}
}
