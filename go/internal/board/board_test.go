package board

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/cfbcountdown/go/internal/countdown"
	"github.com/mcdev12/cfbcountdown/go/internal/models"
	"github.com/mcdev12/cfbcountdown/go/internal/schedule"
)

type stubLogos struct{}

func (stubLogos) TeamLogo(team string) string       { return "/logos/teams/" + team + ".png" }
func (stubLogos) ConferenceLogo(code string) string { return "/logos/" + code + ".png" }

type tick struct {
	gameID int
	snap   countdown.Snapshot
}

type recordingListener struct {
	ticks chan tick

	mu        sync.Mutex
	refreshes [][]Card
}

func newRecordingListener() *recordingListener {
	return &recordingListener{ticks: make(chan tick, 64)}
}

func (l *recordingListener) OnTick(gameID int, snap countdown.Snapshot) {
	l.ticks <- tick{gameID: gameID, snap: snap}
}

func (l *recordingListener) OnRefresh(_ schedule.View, cards []Card) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refreshes = append(l.refreshes, cards)
}

func (l *recordingListener) refreshCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.refreshes)
}

func (l *recordingListener) collectTicks(t *testing.T, n int) map[int]countdown.Snapshot {
	t.Helper()
	got := make(map[int]countdown.Snapshot, n)
	for len(got) < n {
		select {
		case tk := <-l.ticks:
			got[tk.gameID] = tk.snap
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d ticks", len(got), n)
		}
	}
	return got
}

func (l *recordingListener) expectNoTicks(t *testing.T) {
	t.Helper()
	select {
	case tk := <-l.ticks:
		t.Fatalf("unexpected tick for game %d: %+v", tk.gameID, tk.snap)
	case <-time.After(50 * time.Millisecond):
	}
}

func testGames(now time.Time) []models.Game {
	return []models.Game{
		{ID: 1, Team1: "A", Team2: "B", Conference: models.ConferenceSEC, Location: "vs", Date: now.Add(time.Hour)},
		{ID: 2, Team1: "C", Team2: "D", Conference: models.ConferenceACC, Location: "@", Date: now.Add(2 * time.Hour)},
		{ID: 3, Team1: "B", Team2: "C", Conference: models.ConferenceNone, Location: "vs", Date: now.Add(-time.Hour)},
	}
}

func TestBoardRendersVisibleGames(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := schedule.NewStore(testGames(clock.Now()))
	b := New(store, clock, stubLogos{})
	defer b.Close()

	cards := b.Cards()
	if len(cards) != 3 || b.Len() != 3 {
		t.Fatalf("got %d cards, %d countdowns", len(cards), b.Len())
	}

	first := cards[0]
	if first.Game.ID != 1 || first.Display != "0d 1h 0m 0s" || first.State != countdown.StateCounting {
		t.Errorf("card 1 = %+v", first)
	}
	if first.Team1Logo != "/logos/teams/A.png" || first.ConferenceLogo != "/logos/sec.png" {
		t.Errorf("card 1 logos = %q %q", first.Team1Logo, first.ConferenceLogo)
	}
	if cards[2].Display != countdown.ExpiredMessage || cards[2].State != countdown.StateExpired {
		t.Errorf("card 3 = %+v", cards[2])
	}
}

func TestBoardReconcileDisposesHiddenGames(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := schedule.NewStore(testGames(clock.Now()))
	listener := newRecordingListener()
	b := New(store, clock, stubLogos{}, WithListener(listener))
	defer b.Close()

	b.mu.Lock()
	hidden := b.entries[2].countdown
	kept := b.entries[1].countdown
	b.mu.Unlock()

	store.SetConference("sec")

	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", b.Len())
	}
	if !hidden.Disposed() {
		t.Error("countdown for hidden game was not disposed")
	}
	if kept.Disposed() {
		t.Error("countdown for visible game was disposed")
	}
	if listener.refreshCount() != 1 {
		t.Errorf("refreshes = %d, want 1", listener.refreshCount())
	}

	clock.Advance(time.Second)
	ticks := listener.collectTicks(t, 1)
	if snap, ok := ticks[1]; !ok || snap.Display != "0d 0h 59m 59s" {
		t.Errorf("tick for game 1 = %+v", ticks)
	}
	listener.expectNoTicks(t)

	store.SetConference(models.All)
	if b.Len() != 3 {
		t.Fatalf("Len() after reset = %d, want 3", b.Len())
	}
	cards := b.Cards()
	if cards[1].Game.ID != 2 || cards[1].Display != "0d 1h 59m 59s" {
		t.Errorf("recreated card = %+v", cards[1])
	}
}

func TestBoardForwardsTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := schedule.NewStore(testGames(clock.Now()))
	listener := newRecordingListener()
	b := New(store, clock, stubLogos{}, WithListener(listener))
	defer b.Close()

	// construction does not emit ticks
	listener.expectNoTicks(t)

	clock.Advance(time.Second)
	ticks := listener.collectTicks(t, 2)
	if ticks[1].Display != "0d 0h 59m 59s" || ticks[2].Display != "0d 1h 59m 59s" {
		t.Errorf("ticks = %+v", ticks)
	}
}

func TestBoardClose(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := schedule.NewStore(testGames(clock.Now()))
	listener := newRecordingListener()
	b := New(store, clock, stubLogos{}, WithListener(listener))

	b.Close()
	b.Close()
	if b.Len() != 0 {
		t.Fatalf("Len() after close = %d", b.Len())
	}

	clock.Advance(time.Second)
	listener.expectNoTicks(t)

	store.SetTeam("A")
	if b.Len() != 0 || listener.refreshCount() != 0 {
		t.Error("closed board reacted to store change")
	}
}
