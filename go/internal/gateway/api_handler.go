package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/mcdev12/cfbcountdown/go/internal/board"
	"github.com/mcdev12/cfbcountdown/go/internal/countdown"
	"github.com/mcdev12/cfbcountdown/go/internal/models"
	"github.com/mcdev12/cfbcountdown/go/internal/schedule"
	"github.com/rs/zerolog/log"
)

// GamesResponse represents a filtered game list
type GamesResponse struct {
	Selection models.Selection `json:"selection"`
	Games     []models.Game    `json:"games"`
}

// TeamsResponse represents the team filter options
type TeamsResponse struct {
	Teams []string `json:"teams"`
}

// ConferencesResponse represents the conference filter options
type ConferencesResponse struct {
	Conferences []models.ConferenceInfo `json:"conferences"`
}

// ScheduleResponse represents rendered cards evaluated at request time
type ScheduleResponse struct {
	Selection models.Selection `json:"selection"`
	Cards     []board.Card     `json:"cards"`
}

// APIHandler serves read-only schedule queries
type APIHandler struct {
	catalog Catalog
	teams   []string
	clock   countdown.Clock
	logos   board.LogoResolver
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(catalog Catalog, clock countdown.Clock, logos board.LogoResolver) *APIHandler {
	return &APIHandler{
		catalog: catalog,
		teams:   schedule.DeriveTeamList(catalog.Games),
		clock:   clock,
		logos:   logos,
	}
}

// HandleGames handles GET /api/games?conference=&team=
func (h *APIHandler) HandleGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sel := selectionFromQuery(r)
	writeJSON(w, GamesResponse{
		Selection: sel,
		Games:     schedule.DeriveFilteredGames(h.catalog.Games, sel),
	})
}

// HandleTeams handles GET /api/teams
func (h *APIHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, TeamsResponse{Teams: h.teams})
}

// HandleConferences handles GET /api/conferences
func (h *APIHandler) HandleConferences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, ConferencesResponse{Conferences: h.catalog.Conferences})
}

// HandleSchedule handles GET /api/schedule?conference=&team=
func (h *APIHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sel := selectionFromQuery(r)
	games := schedule.DeriveFilteredGames(h.catalog.Games, sel)
	now := h.clock.Now()

	cards := make([]board.Card, 0, len(games))
	for _, g := range games {
		display, state := countdown.Evaluate(g.Date, now)
		cards = append(cards, board.Card{
			Game:           g,
			Display:        display,
			State:          state,
			Team1Logo:      h.logos.TeamLogo(g.Team1),
			Team2Logo:      h.logos.TeamLogo(g.Team2),
			ConferenceLogo: h.logos.ConferenceLogo(string(g.Conference)),
		})
	}

	writeJSON(w, ScheduleResponse{Selection: sel, Cards: cards})
}

// RegisterRoutes registers API routes with an HTTP mux
func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/games", h.HandleGames)
	mux.HandleFunc("/api/teams", h.HandleTeams)
	mux.HandleFunc("/api/conferences", h.HandleConferences)
	mux.HandleFunc("/api/schedule", h.HandleSchedule)
}

func selectionFromQuery(r *http.Request) models.Selection {
	sel := models.DefaultSelection()
	q := r.URL.Query()
	if v := q.Get("conference"); v != "" {
		sel.Conference = v
	}
	if v := q.Get("team"); v != "" {
		sel.Team = v
	}
	return sel
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
