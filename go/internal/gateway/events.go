package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/cfbcountdown/go/internal/board"
	"github.com/mcdev12/cfbcountdown/go/internal/countdown"
	"github.com/mcdev12/cfbcountdown/go/internal/models"
)

// ScheduleEvent represents the base structure for all events pushed to a page
type ScheduleEvent struct {
	ID        string          `json:"id"`        // Event UUID
	Type      EventType       `json:"type"`      // Event type
	Timestamp time.Time       `json:"timestamp"` // Event creation time
	Data      json.RawMessage `json:"data"`      // Event-specific payload
}

// EventType represents the type of schedule event
type EventType string

const (
	EventTypeSnapshot EventType = "Snapshot"
	EventTypeTick     EventType = "Tick"
	EventTypeError    EventType = "Error"
	EventTypeKickoff  EventType = "Kickoff"
)

// SnapshotPayload carries everything a page needs to render its filters and cards
type SnapshotPayload struct {
	Selection   models.Selection        `json:"selection"`
	Conferences []models.ConferenceInfo `json:"conferences"`
	Teams       []string                `json:"teams"`
	Cards       []board.Card            `json:"cards"`
}

// TickPayload carries one countdown update
type TickPayload struct {
	GameID  int             `json:"game_id"`
	Display string          `json:"display"`
	State   countdown.State `json:"state"`
}

// ErrorPayload reports a rejected client command
type ErrorPayload struct {
	Message string `json:"message"`
}

// CommandType represents the type of a client command
type CommandType string

const (
	CommandSetConference CommandType = "SetConference"
	CommandSetTeam       CommandType = "SetTeam"
)

// ClientCommand is a message sent by the page
type ClientCommand struct {
	Type  CommandType `json:"type"`
	Value string      `json:"value"`
}

// NewScheduleEvent wraps payload in an event envelope
func NewScheduleEvent(eventType EventType, payload interface{}, now time.Time) (*ScheduleEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &ScheduleEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: now,
		Data:      data,
	}, nil
}

// ParseCommand decodes a client command
func ParseCommand(message []byte) (ClientCommand, error) {
	var cmd ClientCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		return ClientCommand{}, fmt.Errorf("invalid command: %w", err)
	}
	return cmd, nil
}
