package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/cup-simulator/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrTeamNotFound = errors.New("team not found")

// TeamRepository is the source of the national-team catalog and its rolling skill ratings.
type TeamRepository interface {
	EnsureTeams(ctx context.Context, teams []models.Team) error
	List(ctx context.Context) ([]models.Team, error)
	UpdateSkills(ctx context.Context, skills map[string]float64) error
}

// mongoTeamRepository stores one document per team keyed by its code.
type mongoTeamRepository struct {
	collection *mongo.Collection
}

func NewMongoTeamRepository(collection *mongo.Collection) TeamRepository {
	return &mongoTeamRepository{collection: collection}
}

// EnsureTeams inserts catalog teams that are missing without touching existing ratings.
func (r *mongoTeamRepository) EnsureTeams(ctx context.Context, teams []models.Team) error {
	for _, t := range teams {
		filter := bson.M{"_id": t.ID}
		update := bson.M{
			"$setOnInsert": bson.M{
				"name":       t.Name,
				"region":     t.Region,
				"skill":      t.Skill,
				"created_at": time.Now(),
			},
		}
		opts := options.Update().SetUpsert(true)
		if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("failed to upsert team %s: %w", t.ID, err)
		}
	}
	return nil
}

func (r *mongoTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer cursor.Close(ctx)

	var teams []models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, fmt.Errorf("failed to decode teams: %w", err)
	}
	return teams, nil
}

func (r *mongoTeamRepository) UpdateSkills(ctx context.Context, skills map[string]float64) error {
	if len(skills) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(skills))
	for id, skill := range skills {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{"$set": bson.M{"skill": models.ClampSkill(skill), "last_updated": time.Now()}}))
	}
	res, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to update team skills: %w", err)
	}
	if res.MatchedCount < int64(len(skills)) {
		return fmt.Errorf("%w: %d of %d teams matched", ErrTeamNotFound, res.MatchedCount, len(skills))
	}
	return nil
}

// staticTeamRepository serves an in-process catalog.
type staticTeamRepository struct {
	mu    sync.RWMutex
	teams map[string]models.Team
}

func NewStaticTeamRepository(teams []models.Team) TeamRepository {
	r := &staticTeamRepository{teams: make(map[string]models.Team, len(teams))}
	for _, t := range teams {
		r.teams[t.ID] = t
	}
	return r
}

func (r *staticTeamRepository) EnsureTeams(_ context.Context, teams []models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range teams {
		if _, ok := r.teams[t.ID]; !ok {
			r.teams[t.ID] = t
		}
	}
	return nil
}

func (r *staticTeamRepository) List(_ context.Context) ([]models.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *staticTeamRepository) UpdateSkills(_ context.Context, skills map[string]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range skills {
		if _, ok := r.teams[id]; !ok {
			return fmt.Errorf("%w: %s", ErrTeamNotFound, id)
		}
	}
	for id, skill := range skills {
		t := r.teams[id]
		t.Skill = models.ClampSkill(skill)
		r.teams[id] = t
	}
	return nil
}
