package board

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mcdev12/cfbcountdown/go/internal/countdown"
	"github.com/mcdev12/cfbcountdown/go/internal/models"
	"github.com/mcdev12/cfbcountdown/go/internal/schedule"
	"github.com/rs/zerolog/log"
)

// Card is one rendered game with its countdown and logos.
type Card struct {
	Game           models.Game     `json:"game"`
	Display        string          `json:"display"`
	State          countdown.State `json:"state"`
	Team1Logo      string          `json:"team1_logo"`
	Team2Logo      string          `json:"team2_logo"`
	ConferenceLogo string          `json:"conference_logo"`
}

// LogoResolver defines what the board needs to decorate cards with logos
type LogoResolver interface {
	TeamLogo(team string) string
	ConferenceLogo(code string) string
}

// Listener receives board updates.
// OnTick runs on a countdown's goroutine while that countdown is locked; it must not block
// or call back into the board.
type Listener interface {
	OnTick(gameID int, snap countdown.Snapshot)
	OnRefresh(view schedule.View, cards []Card)
}

type nopListener struct{}

func (nopListener) OnTick(int, countdown.Snapshot)  {}
func (nopListener) OnRefresh(schedule.View, []Card) {}

// Option configures a Board.
type Option func(*Board)

// WithListener sets the board's update listener.
func WithListener(l Listener) Option {
	return func(b *Board) {
		if l != nil {
			b.listener = l
		}
	}
}

// WithTickInterval overrides the countdown tick interval.
func WithTickInterval(d time.Duration) Option {
	return func(b *Board) {
		b.interval = d
	}
}

type entry struct {
	countdown *countdown.Countdown
	live      atomic.Bool
}

// Board renders the store's visible games, owning one countdown per visible game.
type Board struct {
	store    *schedule.Store
	clock    countdown.Clock
	logos    LogoResolver
	listener Listener
	interval time.Duration

	mu      sync.Mutex
	visible []models.Game
	entries map[int]*entry
	closed  bool
}

// New creates a board over store and renders its current view.
func New(store *schedule.Store, clock countdown.Clock, logos LogoResolver, opts ...Option) *Board {
	b := &Board{
		store:    store,
		clock:    clock,
		logos:    logos,
		listener: nopListener{},
		interval: countdown.TickInterval,
		entries:  make(map[int]*entry),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.mu.Lock()
	b.reconcileLocked(store.FilteredGames())
	b.mu.Unlock()

	store.Subscribe(b.onChange)
	return b
}

// Cards returns the visible games in display order.
func (b *Board) Cards() []Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cardsLocked()
}

// Len returns the number of live countdowns.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Close disposes every countdown. The board ignores later store changes.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, e := range b.entries {
		b.disposeLocked(id, e)
	}
	b.visible = nil

	log.Debug().Msg("board closed")
}

func (b *Board) onChange(view schedule.View) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.reconcileLocked(view.FilteredGames)
	cards := b.cardsLocked()
	b.mu.Unlock()

	b.listener.OnRefresh(view, cards)
}

// reconcileLocked makes the set of countdowns match games.
func (b *Board) reconcileLocked(games []models.Game) {
	wanted := make(map[int]models.Game, len(games))
	for _, g := range games {
		wanted[g.ID] = g
	}

	for id, e := range b.entries {
		if _, ok := wanted[id]; !ok {
			b.disposeLocked(id, e)
		}
	}

	created := 0
	for _, g := range games {
		if e, ok := b.entries[g.ID]; ok {
			if !e.countdown.Target().Equal(g.Date) {
				e.countdown.SetTarget(g.Date)
			}
			continue
		}
		b.entries[g.ID] = b.newEntry(g)
		created++
	}

	b.visible = games

	log.Debug().
		Int("visible", len(games)).
		Int("created", created).
		Msg("board reconciled")
}

func (b *Board) newEntry(g models.Game) *entry {
	e := &entry{}
	id := g.ID
	e.countdown = countdown.New(b.clock, g.Date,
		countdown.WithInterval(b.interval),
		countdown.WithOnUpdate(func(snap countdown.Snapshot) {
			if e.live.Load() {
				b.listener.OnTick(id, snap)
			}
		}),
	)
	e.live.Store(true)
	return e
}

func (b *Board) disposeLocked(id int, e *entry) {
	e.live.Store(false)
	e.countdown.Dispose()
	delete(b.entries, id)
}

func (b *Board) cardsLocked() []Card {
	cards := make([]Card, 0, len(b.visible))
	for _, g := range b.visible {
		e, ok := b.entries[g.ID]
		if !ok {
			continue
		}
		snap := e.countdown.Snapshot()
		cards = append(cards, Card{
			Game:           g,
			Display:        snap.Display,
			State:          snap.State,
			Team1Logo:      b.logos.TeamLogo(g.Team1),
			Team2Logo:      b.logos.TeamLogo(g.Team2),
			ConferenceLogo: b.logos.ConferenceLogo(string(g.Conference)),
		})
	}
	return cards
}
