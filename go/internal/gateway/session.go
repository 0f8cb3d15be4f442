package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcdev12/cfbcountdown/go/internal/board"
	"github.com/mcdev12/cfbcountdown/go/internal/countdown"
	"github.com/mcdev12/cfbcountdown/go/internal/models"
	"github.com/mcdev12/cfbcountdown/go/internal/schedule"
	"github.com/rs/zerolog/log"
)

// Catalog is the static data shared by every session
type Catalog struct {
	Games       []models.Game
	Conferences []models.ConferenceInfo
}

// Sender accepts encoded events for delivery to a page. Enqueue must not block.
type Sender interface {
	Enqueue(message []byte) bool
}

// Session is one connected page: its own filter selection and countdown board
type Session struct {
	id          string
	sender      Sender
	clock       countdown.Clock
	conferences []models.ConferenceInfo

	store *schedule.Store
	board *board.Board
}

// NewSession creates a session over catalog. Nothing is sent until Start.
func NewSession(id string, catalog Catalog, clock countdown.Clock, logos board.LogoResolver, tickInterval time.Duration, sender Sender) *Session {
	s := &Session{
		id:          id,
		sender:      sender,
		clock:       clock,
		conferences: catalog.Conferences,
		store:       schedule.NewStore(catalog.Games),
	}
	s.board = board.New(s.store, clock, logos,
		board.WithListener(s),
		board.WithTickInterval(tickInterval),
	)
	return s
}

// Start sends the initial snapshot.
func (s *Session) Start() {
	s.push(EventTypeSnapshot, s.Snapshot())
}

// Snapshot returns the session's current render state.
func (s *Session) Snapshot() SnapshotPayload {
	return s.snapshotPayload(s.store.View(), s.board.Cards())
}

// Handle applies a client command.
func (s *Session) Handle(cmd ClientCommand) error {
	value := cmd.Value
	if value == "" {
		value = models.All
	}

	switch cmd.Type {
	case CommandSetConference:
		s.store.SetConference(value)
	case CommandSetTeam:
		s.store.SetTeam(value)
	default:
		return fmt.Errorf("unknown command type %q", cmd.Type)
	}

	log.Debug().
		Str("session_id", s.id).
		Str("command", string(cmd.Type)).
		Str("value", value).
		Msg("applied command")
	return nil
}

// HandleMessage decodes and applies a raw client message, reporting failures back to the page.
func (s *Session) HandleMessage(message []byte) {
	cmd, err := ParseCommand(message)
	if err == nil {
		err = s.Handle(cmd)
	}
	if err != nil {
		log.Warn().
			Err(err).
			Str("session_id", s.id).
			Msg("rejected client message")
		s.push(EventTypeError, ErrorPayload{Message: err.Error()})
	}
}

// Close disposes the session's countdowns.
func (s *Session) Close() {
	s.board.Close()
}

// OnTick implements board.Listener.
func (s *Session) OnTick(gameID int, snap countdown.Snapshot) {
	s.push(EventTypeTick, TickPayload{
		GameID:  gameID,
		Display: snap.Display,
		State:   snap.State,
	})
}

// OnRefresh implements board.Listener.
func (s *Session) OnRefresh(view schedule.View, cards []board.Card) {
	s.push(EventTypeSnapshot, s.snapshotPayload(view, cards))
}

func (s *Session) snapshotPayload(view schedule.View, cards []board.Card) SnapshotPayload {
	return SnapshotPayload{
		Selection:   view.Selection,
		Conferences: s.conferences,
		Teams:       view.Teams,
		Cards:       cards,
	}
}

func (s *Session) push(eventType EventType, payload interface{}) {
	event, err := NewScheduleEvent(eventType, payload, s.clock.Now())
	if err != nil {
		log.Error().Err(err).Str("session_id", s.id).Msg("failed to build event")
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("session_id", s.id).Msg("failed to marshal event")
		return
	}
	if !s.sender.Enqueue(data) {
		log.Warn().
			Str("session_id", s.id).
			Str("event_type", string(eventType)).
			Msg("send buffer full or closed, dropping event")
	}
}
