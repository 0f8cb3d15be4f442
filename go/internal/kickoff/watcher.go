package kickoff

import (
	"context"
	"sync"

	"github.com/mcdev12/cfbcountdown/go/internal/countdown"
	"github.com/mcdev12/cfbcountdown/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Watcher tracks a countdown for every game in the dataset and publishes an Event
// when one of them reaches kickoff. Games already past when the watcher starts are skipped.
type Watcher struct {
	clock     countdown.Clock
	publisher Publisher
	games     []models.Game

	kickoffCh chan models.Game

	mu         sync.Mutex
	countdowns map[int]*countdown.Countdown
	published  int
}

// NewWatcher creates a watcher over games.
func NewWatcher(clock countdown.Clock, publisher Publisher, games []models.Game) *Watcher {
	return &Watcher{
		clock:      clock,
		publisher:  publisher,
		games:      games,
		kickoffCh:  make(chan models.Game, len(games)+1),
		countdowns: make(map[int]*countdown.Countdown, len(games)),
	}
}

// Run starts the countdowns and publishes kickoffs until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.start()
	defer w.stop()

	log.Info().Int("games", len(w.games)).Msg("kickoff watcher started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Int("published", w.Published()).Msg("kickoff watcher shutting down")
			return nil
		case game := <-w.kickoffCh:
			w.publish(ctx, game)
		}
	}
}

// Published returns how many kickoff events have been published.
func (w *Watcher) Published() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.published
}

// Pending returns how many games are still counting down.
func (w *Watcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	pending := 0
	for _, cd := range w.countdowns {
		if cd.State() == countdown.StateCounting {
			pending++
		}
	}
	return pending
}

func (w *Watcher) start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, g := range w.games {
		game := g
		w.countdowns[game.ID] = countdown.New(w.clock, game.Date,
			countdown.WithOnUpdate(func(snap countdown.Snapshot) {
				if !snap.Transition {
					return
				}
				select {
				case w.kickoffCh <- game:
				default:
					log.Warn().Int("game_id", game.ID).Msg("kickoff channel full, dropping event")
				}
			}),
		)
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, cd := range w.countdowns {
		cd.Dispose()
		delete(w.countdowns, id)
	}
}

func (w *Watcher) publish(ctx context.Context, game models.Game) {
	event := NewEvent(game, w.clock.Now())
	if err := w.publisher.Publish(ctx, event); err != nil {
		log.Error().
			Err(err).
			Int("game_id", game.ID).
			Msg("failed to publish kickoff")
		return
	}

	w.mu.Lock()
	w.published++
	w.mu.Unlock()
}
