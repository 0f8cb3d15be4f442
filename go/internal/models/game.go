package models

import "time"

// All is the selection value that disables a filter axis.
const All = "all"

// Game represents a single scheduled matchup.
type Game struct {
	ID         int        `json:"id"`
	Team1      string     `json:"team1"`
	Team2      string     `json:"team2"`
	Conference Conference `json:"conference"`
	Location   string     `json:"location"`
	Date       time.Time  `json:"date"`
}

// HasTeam reports whether name plays in the game on either side.
func (g Game) HasTeam(name string) bool {
	return g.Team1 == name || g.Team2 == name
}

// Selection holds the current filter choices.
type Selection struct {
	Conference string `json:"conference"`
	Team       string `json:"team"`
}

// DefaultSelection returns a selection with both filters disabled.
func DefaultSelection() Selection {
	return Selection{Conference: All, Team: All}
}
