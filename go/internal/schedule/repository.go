package schedule

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mcdev12/cfbcountdown/go/internal/models"
	"github.com/rs/zerolog/log"
)

// kickoffLayouts are tried in order when parsing a fixture date.
var kickoffLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// fixtureGame mirrors one entry of the games fixture.
type fixtureGame struct {
	ID         int    `json:"id"`
	Team1      string `json:"team1"`
	Team2      string `json:"team2"`
	Conference string `json:"conference"`
	Location   string `json:"location"`
	Date       string `json:"date"`
}

// LoadGamesFile reads the fixture at path. Dates without a zone are read in loc.
func LoadGamesFile(path string, loc *time.Location) ([]models.Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture: %w", err)
	}
	defer f.Close()

	games, err := LoadGames(f, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture %s: %w", path, err)
	}
	return games, nil
}

// LoadGames decodes a JSON array of games.
// A date that cannot be parsed loads as the zero time, which a countdown treats as already kicked off.
func LoadGames(r io.Reader, loc *time.Location) ([]models.Game, error) {
	if loc == nil {
		loc = time.Local
	}

	var raw []fixtureGame
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}

	seen := make(map[int]bool, len(raw))
	games := make([]models.Game, 0, len(raw))
	for _, g := range raw {
		if seen[g.ID] {
			return nil, fmt.Errorf("duplicate game id %d", g.ID)
		}
		seen[g.ID] = true

		kickoff, err := ParseKickoff(g.Date, loc)
		if err != nil {
			log.Warn().
				Err(err).
				Int("game_id", g.ID).
				Str("date", g.Date).
				Msg("unparsable kickoff, treating game as started")
		}

		games = append(games, models.Game{
			ID:         g.ID,
			Team1:      g.Team1,
			Team2:      g.Team2,
			Conference: models.Conference(g.Conference),
			Location:   g.Location,
			Date:       kickoff,
		})
	}

	log.Debug().Int("games", len(games)).Msg("loaded game fixture")
	return games, nil
}

// ParseKickoff parses a fixture date string. On failure it returns the zero time and an error.
func ParseKickoff(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range kickoffLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format %q", value)
}
