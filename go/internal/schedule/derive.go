package schedule

import "github.com/mcdev12/cfbcountdown/go/internal/models"

// DeriveFilteredGames returns the games matching the selection, in dataset order.
// The result is always a fresh slice; an empty match yields an empty, non-nil slice.
func DeriveFilteredGames(games []models.Game, sel models.Selection) []models.Game {
	filtered := make([]models.Game, 0, len(games))
	for _, game := range games {
		if sel.Conference != models.All && string(game.Conference) != sel.Conference {
			continue
		}
		if sel.Team != models.All && !game.HasTeam(sel.Team) {
			continue
		}
		filtered = append(filtered, game)
	}
	return filtered
}

// DeriveTeamList returns every distinct team name in the dataset, ignoring any selection.
// Names are ordered by first appearance as team1, then by first appearance as team2.
func DeriveTeamList(games []models.Game) []string {
	seen := make(map[string]struct{}, len(games)*2)
	teams := make([]string, 0, len(games)*2)

	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		teams = append(teams, name)
	}

	for _, game := range games {
		add(game.Team1)
	}
	for _, game := range games {
		add(game.Team2)
	}
	return teams
}
