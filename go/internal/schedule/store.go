package schedule

import (
	"sync"

	"github.com/mcdev12/cfbcountdown/go/internal/models"
)

// View is a consistent snapshot of the store's selection and derived state.
type View struct {
	Selection     models.Selection
	FilteredGames []models.Game
	Teams         []string
}

// Listener is notified after every recomputation of the derived view.
type Listener func(View)

// Store holds the game dataset and the current filter selection.
// Derived state is recomputed synchronously whenever the selection changes.
type Store struct {
	mu        sync.RWMutex
	games     []models.Game
	selection models.Selection

	// cached projections of (games, selection)
	filtered []models.Game
	teams    []string

	listeners []Listener
}

// NewStore creates a store over games with both filters set to "all".
// The store keeps its own copy of games; callers may reuse the slice.
func NewStore(games []models.Game) *Store {
	dataset := make([]models.Game, len(games))
	copy(dataset, games)

	s := &Store{
		games:     dataset,
		selection: models.DefaultSelection(),
	}
	s.teams = DeriveTeamList(s.games)
	s.filtered = DeriveFilteredGames(s.games, s.selection)
	return s
}

// SetConference selects a conference tag, or models.All to disable the filter.
func (s *Store) SetConference(tag string) {
	s.update(func(sel *models.Selection) { sel.Conference = tag })
}

// SetTeam selects a team name, or models.All to disable the filter.
func (s *Store) SetTeam(name string) {
	s.update(func(sel *models.Selection) { sel.Team = name })
}

// Subscribe registers fn to receive the view after each selection change.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Selection returns the current filter selection.
func (s *Store) Selection() models.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// FilteredGames returns the games visible under the current selection.
func (s *Store) FilteredGames() []models.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneGames(s.filtered)
}

// Teams returns every distinct team in the dataset.
func (s *Store) Teams() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTeams(s.teams)
}

// Games returns the full dataset.
func (s *Store) Games() []models.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneGames(s.games)
}

// View returns the selection and derived state as one snapshot.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

func (s *Store) update(mutate func(*models.Selection)) {
	s.mu.Lock()
	next := s.selection
	mutate(&next)
	if next == s.selection {
		s.mu.Unlock()
		return
	}
	s.selection = next
	s.filtered = DeriveFilteredGames(s.games, s.selection)
	view := s.viewLocked()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(view)
	}
}

func (s *Store) viewLocked() View {
	return View{
		Selection:     s.selection,
		FilteredGames: cloneGames(s.filtered),
		Teams:         cloneTeams(s.teams),
	}
}

func cloneGames(games []models.Game) []models.Game {
	out := make([]models.Game, len(games))
	copy(out, games)
	return out
}

func cloneTeams(teams []string) []string {
	out := make([]string, len(teams))
	copy(out, teams)
	return out
}
