package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/cup-simulator/models"
	"github.com/redis/go-redis/v9"
)

const tournamentIndexKey = "tournaments"

// redisTournamentStore keeps each aggregate as one JSON value plus a set of known ids.
type redisTournamentStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisTournamentStore stores snapshots with the given TTL; zero keeps them forever.
func NewRedisTournamentStore(client redis.UniversalClient, ttl time.Duration) TournamentStore {
	return &redisTournamentStore{client: client, ttl: ttl}
}

func tournamentKey(id string) string {
	return fmt.Sprintf("tournament:{%s}", id)
}

func (s *redisTournamentStore) Save(ctx context.Context, t *models.Tournament) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode tournament %s: %w", t.ID, err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tournamentKey(t.ID), data, s.ttl)
	pipe.SAdd(ctx, tournamentIndexKey, t.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save tournament %s to redis: %w", t.ID, err)
	}
	return nil
}

func (s *redisTournamentStore) Get(ctx context.Context, id string) (*models.Tournament, error) {
	data, err := s.client.Get(ctx, tournamentKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s from redis: %w", id, err)
	}
	return decodeTournament(data)
}

func (s *redisTournamentStore) List(ctx context.Context) ([]TournamentSummary, error) {
	ids, err := s.client.SMembers(ctx, tournamentIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	out := make([]TournamentSummary, 0, len(ids))
	for _, id := range ids {
		t, err := s.Get(ctx, id)
		if errors.Is(err, ErrTournamentNotFound) {
			// expired snapshot; drop the dangling index entry
			s.client.SRem(ctx, tournamentIndexKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, summarize(t))
	}
	sortSummaries(out)
	return out, nil
}

func (s *redisTournamentStore) Delete(ctx context.Context, id string) error {
	removed, err := s.client.Del(ctx, tournamentKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete tournament %s: %w", id, err)
	}
	s.client.SRem(ctx, tournamentIndexKey, id)
	if removed == 0 {
		return ErrTournamentNotFound
	}
	return nil
}
