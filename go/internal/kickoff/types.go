package kickoff

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/cfbcountdown/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Event is emitted once when a game's countdown reaches kickoff.
type Event struct {
	ID         uuid.UUID         `json:"id"`
	GameID     int               `json:"game_id"`
	Team1      string            `json:"team1"`
	Team2      string            `json:"team2"`
	Conference models.Conference `json:"conference"`
	Location   string            `json:"location"`
	Kickoff    time.Time         `json:"kickoff"`
	ObservedAt time.Time         `json:"observed_at"`
}

// NewEvent builds a kickoff event for game observed at now.
func NewEvent(game models.Game, now time.Time) Event {
	return Event{
		ID:         uuid.New(),
		GameID:     game.ID,
		Team1:      game.Team1,
		Team2:      game.Team2,
		Conference: game.Conference,
		Location:   game.Location,
		Kickoff:    game.Date,
		ObservedAt: now,
	}
}

// Publisher delivers kickoff events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// LogPublisher writes kickoff events to the log; used when no message bus is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, event Event) error {
	log.Info().
		Str("event_id", event.ID.String()).
		Int("game_id", event.GameID).
		Str("team1", event.Team1).
		Str("team2", event.Team2).
		Str("conference", string(event.Conference)).
		Time("kickoff", event.Kickoff).
		Msg("kickoff")
	return nil
}

func (LogPublisher) Close() error { return nil }
