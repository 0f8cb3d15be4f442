package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/cfbcountdown/go/internal/kickoff"
	"github.com/mcdev12/cfbcountdown/go/internal/logos"
)

func startTestService(t *testing.T) (*Service, *httptest.Server) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	resolver := logos.NewResolver(fstest.MapFS{
		"teams/ncaa.png": {Data: []byte("ncaa")},
		"teams/A.png":    {Data: []byte("a")},
	})

	svc := NewService(DefaultConfig(), testCatalog(clock.Now()), resolver, clock)
	mux := http.NewServeMux()
	svc.RegisterRoutes(mux)
	server := httptest.NewServer(mux)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Start(ctx)
	}()

	t.Cleanup(func() {
		server.Close()
		cancel()
		<-done
	})
	return svc, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/schedule"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) ScheduleEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var e ScheduleEvent
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return e
}

func waitForConnections(t *testing.T, svc *Service, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for svc.connectionManager.ConnectionCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("connections = %d, want %d", svc.connectionManager.ConnectionCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWebSocketSession(t *testing.T) {
	svc, server := startTestService(t)
	conn := dial(t, server)

	snap := decodeSnapshot(t, readEvent(t, conn))
	if len(snap.Cards) != 2 {
		t.Fatalf("initial cards = %d", len(snap.Cards))
	}
	if snap.Cards[0].Team1Logo != "/logos/teams/A.png" || snap.Cards[0].Team2Logo != "/logos/teams/ncaa.png" {
		t.Errorf("logos = %q %q", snap.Cards[0].Team1Logo, snap.Cards[0].Team2Logo)
	}

	if err := conn.WriteJSON(ClientCommand{Type: CommandSetConference, Value: "acc"}); err != nil {
		t.Fatal(err)
	}
	snap = decodeSnapshot(t, readEvent(t, conn))
	if len(snap.Cards) != 1 || snap.Cards[0].Game.ID != 2 || snap.Selection.Conference != "acc" {
		t.Fatalf("filtered snapshot = %+v", snap)
	}

	waitForConnections(t, svc, 1)
	conn.Close()
	waitForConnections(t, svc, 0)
}

func TestWebSocketSessionsAreIndependent(t *testing.T) {
	svc, server := startTestService(t)
	first := dial(t, server)
	second := dial(t, server)
	readEvent(t, first)
	readEvent(t, second)
	waitForConnections(t, svc, 2)

	first.WriteJSON(ClientCommand{Type: CommandSetTeam, Value: "A"})
	if snap := decodeSnapshot(t, readEvent(t, first)); len(snap.Cards) != 1 {
		t.Fatalf("first session cards = %d", len(snap.Cards))
	}

	second.WriteJSON(ClientCommand{Type: CommandSetConference, Value: "acc"})
	if snap := decodeSnapshot(t, readEvent(t, second)); len(snap.Cards) != 1 || snap.Cards[0].Game.ID != 2 || snap.Selection.Team != "all" {
		t.Fatalf("second session snapshot = %+v", snap)
	}
}

func TestKickoffBroadcast(t *testing.T) {
	svc, server := startTestService(t)
	conn := dial(t, server)
	readEvent(t, conn)
	waitForConnections(t, svc, 1)

	var pub kickoff.Publisher = svc
	event := kickoff.Event{GameID: 1, Team1: "A", Team2: "B"}
	if err := pub.Publish(context.Background(), event); err != nil {
		t.Fatal(err)
	}

	e := readEvent(t, conn)
	if e.Type != EventTypeKickoff {
		t.Fatalf("event type = %s", e.Type)
	}
	var got kickoff.Event
	if err := json.Unmarshal(e.Data, &got); err != nil {
		t.Fatal(err)
	}
	if got.GameID != 1 || got.Team1 != "A" {
		t.Errorf("kickoff payload = %+v", got)
	}
}

func TestServiceStatsAndLogos(t *testing.T) {
	_, server := startTestService(t)

	resp, err := http.Get(server.URL + "/ws/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var stats map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats["total_connections"] != float64(0) {
		t.Errorf("stats = %v", stats)
	}

	logo, err := http.Get(server.URL + "/logos/teams/Missing.png")
	if err != nil {
		t.Fatal(err)
	}
	defer logo.Body.Close()
	if logo.StatusCode != http.StatusOK {
		t.Errorf("fallback logo status = %d", logo.StatusCode)
	}
}
