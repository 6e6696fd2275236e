package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Dosada05/cup-simulator/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

// TournamentSummary is the list view of a stored tournament.
type TournamentSummary struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	Status     models.TournamentStatus `json:"status"`
	ChampionID *string                 `json:"champion_id,omitempty"`
}

// TournamentStore keeps whole tournament aggregates. Get always returns a copy the
// caller may mutate freely.
type TournamentStore interface {
	Save(ctx context.Context, t *models.Tournament) error
	Get(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]TournamentSummary, error)
	Delete(ctx context.Context, id string) error
}

type memoryTournamentStore struct {
	mu          sync.RWMutex
	tournaments map[string][]byte
}

// NewMemoryTournamentStore is used when no Redis address is configured.
func NewMemoryTournamentStore() TournamentStore {
	return &memoryTournamentStore{tournaments: make(map[string][]byte)}
}

func (s *memoryTournamentStore) Save(_ context.Context, t *models.Tournament) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode tournament %s: %w", t.ID, err)
	}
	s.mu.Lock()
	s.tournaments[t.ID] = data
	s.mu.Unlock()
	return nil
}

func (s *memoryTournamentStore) Get(_ context.Context, id string) (*models.Tournament, error) {
	s.mu.RLock()
	data, ok := s.tournaments[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return decodeTournament(data)
}

func (s *memoryTournamentStore) List(_ context.Context) ([]TournamentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TournamentSummary, 0, len(s.tournaments))
	for _, data := range s.tournaments {
		t, err := decodeTournament(data)
		if err != nil {
			return nil, err
		}
		out = append(out, summarize(t))
	}
	sortSummaries(out)
	return out, nil
}

func (s *memoryTournamentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tournaments[id]; !ok {
		return ErrTournamentNotFound
	}
	delete(s.tournaments, id)
	return nil
}

func decodeTournament(data []byte) (*models.Tournament, error) {
	var t models.Tournament
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode tournament: %w", err)
	}
	return &t, nil
}

func summarize(t *models.Tournament) TournamentSummary {
	s := TournamentSummary{ID: t.ID, Name: t.Name, Status: t.Status}
	if t.WorldCup != nil {
		s.ChampionID = t.WorldCup.ChampionID
	}
	return s
}

func sortSummaries(s []TournamentSummary) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Name != s[j].Name {
			return s[i].Name < s[j].Name
		}
		return s[i].ID < s[j].ID
	})
}
