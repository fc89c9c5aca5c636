package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"placeswipe/internal/app"
	"placeswipe/internal/domain"
)

type testMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func setupFeed(t *testing.T) (*app.Session, *websocket.Conn) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	session := app.NewSession(context.Background(), app.Deps{
		Shuffler: rand.New(rand.NewSource(7)),
		Logger:   logger,
	})
	t.Cleanup(session.Close)

	srv := httptest.NewServer(NewHandler(session, logger))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return session, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) testMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg testMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

// readUntil skips messages until one of the wanted type arrives
func readUntil(t *testing.T, conn *websocket.Conn, want MessageType, match func(testMessage) bool) testMessage {
	t.Helper()
	for i := 0; i < 20; i++ {
		msg := readMessage(t, conn)
		if msg.Type == want && (match == nil || match(msg)) {
			return msg
		}
	}
	t.Fatalf("no %s message received", want)
	return testMessage{}
}

func TestFeed_ConnectedSnapshot(t *testing.T) {
	session, conn := setupFeed(t)

	msg := readMessage(t, conn)
	if msg.Type != MsgConnected {
		t.Fatalf("expected connected first, got %s", msg.Type)
	}

	var payload ConnectedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.SessionID != session.ID() || payload.ClientID == "" {
		t.Errorf("unexpected connected payload %+v", payload)
	}
	if payload.State == nil || payload.State.Phase != domain.PhaseSetup {
		t.Errorf("expected setup snapshot, got %+v", payload.State)
	}

	// the client is already on the feed once its snapshot arrives
	if n := session.ClientCount(); n != 1 {
		t.Errorf("expected 1 registered client after snapshot, got %d", n)
	}
}

func TestFeed_ChangeRightAfterSnapshotIsDelivered(t *testing.T) {
	session, conn := setupFeed(t)
	readUntil(t, conn, MsgConnected, nil)

	session.UpdateSettings(context.Background(), app.SettingsPatch{Count: strPtr("7")})

	msg := readUntil(t, conn, MsgState, nil)
	var payload struct {
		Event domain.EventType     `json:"event"`
		State *domain.SessionState `json:"state"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Event != domain.EventSettingsUpdated {
		t.Errorf("expected %s, got %s", domain.EventSettingsUpdated, payload.Event)
	}
	if payload.State == nil || payload.State.Settings.Count != "7" {
		t.Errorf("expected state with count 7, got %+v", payload.State)
	}
}

func TestFeed_RoundOverWebSocket(t *testing.T) {
	session, conn := setupFeed(t)
	readUntil(t, conn, MsgConnected, nil)

	session.UpdateSettings(context.Background(), app.SettingsPatch{ListText: strPtr("A\nB\nC\nD\nE")})

	if err := conn.WriteJSON(ClientMessage{Type: MsgStartRound}); err != nil {
		t.Fatalf("write: %v", err)
	}

	isEvent := func(event domain.EventType) func(testMessage) bool {
		return func(m testMessage) bool {
			var p StatePayload
			json.Unmarshal(m.Payload, &p)
			return p.Event == event
		}
	}

	readUntil(t, conn, MsgState, isEvent(domain.EventRoundStarted))

	for i := 0; i < 5; i++ {
		if err := conn.WriteJSON(ClientMessage{Type: MsgVote, Payload: VotePayload{Choice: "like"}}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	msg := readUntil(t, conn, MsgState, isEvent(domain.EventRoundCompleted))
	var payload struct {
		State domain.SessionState `json:"state"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.State.Results == nil || len(payload.State.Results.Likes) != 5 {
		t.Errorf("expected 5 likes in results, got %+v", payload.State.Results)
	}

	// a vote after the end is refused
	conn.WriteJSON(ClientMessage{Type: MsgVote, Payload: VotePayload{Choice: "pass"}})
	errMsg := readUntil(t, conn, MsgError, nil)
	var errPayload ErrorPayload
	json.Unmarshal(errMsg.Payload, &errPayload)
	if errPayload.Code != ErrCodeRoundComplete {
		t.Errorf("expected %s, got %+v", ErrCodeRoundComplete, errPayload)
	}
}

func TestFeed_PingAndBadMessages(t *testing.T) {
	_, conn := setupFeed(t)
	readUntil(t, conn, MsgConnected, nil)

	conn.WriteJSON(ClientMessage{Type: MsgPing})
	readUntil(t, conn, MsgPong, nil)

	conn.WriteMessage(websocket.TextMessage, []byte("{nope"))
	msg := readUntil(t, conn, MsgError, nil)
	var payload ErrorPayload
	json.Unmarshal(msg.Payload, &payload)
	if payload.Code != ErrCodeInvalidMessage {
		t.Errorf("expected %s, got %+v", ErrCodeInvalidMessage, payload)
	}

	conn.WriteJSON(ClientMessage{Type: MsgVote, Payload: VotePayload{Choice: "maybe"}})
	msg = readUntil(t, conn, MsgError, nil)
	json.Unmarshal(msg.Payload, &payload)
	if payload.Code != ErrCodeInvalidInput {
		t.Errorf("expected %s, got %+v", ErrCodeInvalidInput, payload)
	}
}

func strPtr(s string) *string { return &s }
