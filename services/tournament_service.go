package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Dosada05/cup-simulator/brackets"
	"github.com/Dosada05/cup-simulator/models"
	"github.com/Dosada05/cup-simulator/repositories"
	"github.com/Dosada05/cup-simulator/storage"
)

// Notifier pushes live events to a tournament's subscribers.
type Notifier interface {
	Notify(tournamentID, eventType string, payload interface{})
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]repositories.TournamentSummary, error)
	ListQualifierGroups(ctx context.Context, id string, region models.Region) ([]models.Group, error)
	DeleteTournament(ctx context.Context, id string) error

	RegenerateQualifierDraw(ctx context.Context, id string) (*models.Tournament, error)
	RecordGroupResult(ctx context.Context, id, groupID, matchID string, input GroupResultInput) (*models.Match, error)
	SimulateGroupMatch(ctx context.Context, id, groupID, matchID string) (*models.Match, error)
	SimulateGroup(ctx context.Context, id, groupID string) ([]models.Match, error)
	SimulateStage(ctx context.Context, id string) (*models.Tournament, error)

	StartWorldCup(ctx context.Context, id string) (*models.Tournament, error)
	RegenerateWorldCupDraw(ctx context.Context, id string) (*models.Tournament, error)
	StartKnockout(ctx context.Context, id string) (*models.Tournament, error)
	RegenerateKnockout(ctx context.Context, id string) (*models.Tournament, error)
	Advance(ctx context.Context, id string) (*models.Tournament, error)

	RecordKnockoutResult(ctx context.Context, id, matchID string, input KnockoutResultInput) (*models.KnockoutMatch, error)
	SimulateKnockoutRound(ctx context.Context, id string) ([]models.KnockoutMatch, error)

	ExportSnapshot(ctx context.Context, id string) (*storage.UploadResult, error)
}

type CreateTournamentInput struct {
	Name string `json:"name"`
	// TeamIDs restricts the field to a subset of the catalog; empty means every team.
	TeamIDs []string `json:"team_ids,omitempty"`
}

type GroupResultInput struct {
	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`
}

type KnockoutResultInput struct {
	HomeScore *int                 `json:"home_score"`
	AwayScore *int                 `json:"away_score"`
	Penalties *models.PenaltyScore `json:"penalties,omitempty"`
}

// TournamentServiceDeps lists the collaborators; Records, Notifier and Uploader are optional.
type TournamentServiceDeps struct {
	Engine   *Engine
	Store    repositories.TournamentStore
	Teams    repositories.TeamRepository
	Records  repositories.RecordRepository
	Notifier Notifier
	Uploader storage.FileUploader
	Logger   *slog.Logger
}

type tournamentService struct {
	engine   *Engine
	store    repositories.TournamentStore
	teams    repositories.TeamRepository
	records  repositories.RecordRepository
	notifier Notifier
	uploader storage.FileUploader
	logger   *slog.Logger

	// mu serializes mutations; the engine's random source is not safe for concurrent use.
	mu sync.Mutex
}

func NewTournamentService(deps TournamentServiceDeps) TournamentService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &tournamentService{
		engine:   deps.Engine,
		store:    deps.Store,
		teams:    deps.Teams,
		records:  deps.Records,
		notifier: deps.Notifier,
		uploader: deps.Uploader,
		logger:   logger,
	}
}

// recordPlan names what a mutation touched, for the relational mirror.
type recordPlan struct {
	groups        []models.Group
	knockout      bool
	clearStage    models.Stage
	clearKnockout bool
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	catalog, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTeamCatalogUnavailable, err)
	}
	field, err := selectTeams(catalog, input.TeamIDs)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.engine.NewTournament(input.Name, field)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to store tournament: %w", err)
	}
	s.logger.InfoContext(ctx, "tournament created",
		slog.String("tournament_id", t.ID),
		slog.Int("teams", len(t.Teams)),
		slog.Int("qualifier_groups", len(t.QualifierGroups)))
	s.record(ctx, t, recordPlan{groups: t.QualifierGroups})
	return t, nil
}

func selectTeams(catalog []models.Team, ids []string) ([]models.Team, error) {
	if len(ids) == 0 {
		return catalog, nil
	}
	byID := make(map[string]models.Team, len(catalog))
	for _, t := range catalog {
		byID[t.ID] = t
	}
	out := make([]models.Team, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown team %s", ErrValidationFailed, id)
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	return s.load(ctx, id)
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]repositories.TournamentSummary, error) {
	return s.store.List(ctx)
}

// ListQualifierGroups returns the qualifier groups in draw order, optionally of one region only.
func (s *tournamentService) ListQualifierGroups(ctx context.Context, id string, region models.Region) ([]models.Group, error) {
	if region != "" && !region.Valid() {
		return nil, fmt.Errorf("%w: unknown region %q", ErrValidationFailed, region)
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if region == "" {
		return t.QualifierGroups, nil
	}
	return t.QualifierGroupsByRegion(region), nil
}

// DeleteTournament drops the aggregate and its relational records and tells subscribers.
func (s *tournamentService) DeleteTournament(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return fmt.Errorf("%w: %s", ErrTournamentNotFound, id)
		}
		return fmt.Errorf("failed to delete tournament %s: %w", id, err)
	}
	if s.records != nil {
		err := s.records.DeleteTournament(ctx, nil, id)
		if err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
			s.logger.WarnContext(ctx, "failed to delete tournament records",
				slog.String("tournament_id", id), slog.Any("error", err))
		}
	}
	s.logger.InfoContext(ctx, "tournament deleted", slog.String("tournament_id", id))
	s.notify(id, brackets.EventTournamentDeleted, map[string]interface{}{"tournament_id": id})
	return nil
}

func (s *tournamentService) load(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, id)
		}
		return nil, err
	}
	return t, nil
}

// mutate runs fn on a fresh copy of the aggregate and stores it only if fn succeeds,
// so a failed operation never leaves partial state behind. Side effects run after the save.
func (s *tournamentService) mutate(ctx context.Context, id string, fn func(t *models.Tournament) (recordPlan, error)) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	before := t.Status
	plan, err := fn(t)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to store tournament %s: %w", id, err)
	}

	if t.Status != before {
		s.logger.InfoContext(ctx, "tournament stage changed",
			slog.String("tournament_id", t.ID),
			slog.String("from", string(before)),
			slog.String("to", string(t.Status)))
		s.notify(t.ID, brackets.EventStageChanged, map[string]interface{}{"from": before, "to": t.Status})
		if t.Status == models.StatusChampionDecided {
			s.championDecided(ctx, t)
		}
	}
	s.record(ctx, t, plan)
	return t, nil
}

func (s *tournamentService) championDecided(ctx context.Context, t *models.Tournament) {
	wc := t.WorldCup
	s.logger.InfoContext(ctx, "champion decided",
		slog.String("tournament_id", t.ID),
		slog.String("champion_id", derefString(wc.ChampionID)))
	s.notify(t.ID, brackets.EventChampionDecided, map[string]interface{}{
		"champion_id":  derefString(wc.ChampionID),
		"runner_up_id": derefString(wc.RunnerUpID),
	})
	if err := s.teams.UpdateSkills(ctx, snapshotSkills(t.Teams)); err != nil {
		s.logger.WarnContext(ctx, "failed to write back team skills",
			slog.String("tournament_id", t.ID), slog.Any("error", err))
	}
}

// record mirrors the aggregate into the relational store in one transaction. Failures are
// logged only; the upserts are idempotent so the next successful call catches up.
func (s *tournamentService) record(ctx context.Context, t *models.Tournament, plan recordPlan) {
	if s.records == nil {
		return
	}
	err := s.records.WithTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.records.SaveTournament(ctx, exec, t); err != nil {
			return err
		}
		if plan.clearStage != "" {
			if err := s.records.DeleteGroupsByStage(ctx, exec, t.ID, plan.clearStage); err != nil {
				return err
			}
		}
		if plan.clearKnockout {
			if err := s.records.DeleteKnockout(ctx, exec, t.ID); err != nil {
				return err
			}
		}
		if len(plan.groups) > 0 {
			if err := s.records.SaveGroups(ctx, exec, t.ID, plan.groups); err != nil {
				return err
			}
		}
		if plan.knockout && t.WorldCup != nil {
			return s.records.SaveKnockout(ctx, exec, t.ID, t.WorldCup.Bracket)
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to persist tournament records",
			slog.String("tournament_id", t.ID), slog.Any("error", err))
	}
}

func (s *tournamentService) notify(tournamentID, eventType string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.Notify(tournamentID, eventType, payload)
	}
}

func (s *tournamentService) RegenerateQualifierDraw(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.mutate(ctx, id, func(t *models.Tournament) (recordPlan, error) {
		if err := s.engine.RegenerateQualifierDraw(t); err != nil {
			return recordPlan{}, err
		}
		return recordPlan{groups: t.QualifierGroups, clearStage: models.StageQualifier}, nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(t.ID, brackets.EventDrawRegenerated, map[string]interface{}{"stage": models.StageQualifier, "groups": t.QualifierGroups})
	return t, nil
}

func (s *tournamentService) RecordGroupResult(ctx context.Context, id, groupID, matchID string, input GroupResultInput) (*models.Match, error) {
	if input.HomeScore == nil || input.AwayScore == nil {
		return nil, fmt.Errorf("%w: home_score and away_score are required", ErrValidationFailed)
	}
	var played models.Match
	var group models.Group
	t, err := s.mutate(ctx, id, func(t *models.Tournament) (recordPlan, error) {
		m, err := s.engine.ApplyGroupResult(t, groupID, matchID, *input.HomeScore, *input.AwayScore)
		if err != nil {
			return recordPlan{}, err
		}
		played = m
		group = currentGroup(t, groupID)
		return recordPlan{groups: []models.Group{group}}, nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(t.ID, brackets.EventMatchPlayed, map[string]interface{}{
		"group_id":  groupID,
		"match":     played,
		"standings": group.Standings,
	})
	return &played, nil
}

func (s *tournamentService) SimulateGroupMatch(ctx context.Context, id, groupID, matchID string) (*models.Match, error) {
	var played models.Match
	var group models.Group
	t, err := s.mutate(ctx, id, func(t *models.Tournament) (recordPlan, error) {
		m, err := s.engine.SimulateGroupMatch(t, groupID, matchID)
		if err != nil {
			return recordPlan{}, err
		}
		played = m
		group = currentGroup(t, groupID)
		return recordPlan{groups: []models.Group{group}}, nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(t.ID, brackets.EventMatchPlayed, map[string]interface{}{
		"group_id":  groupID,
		"match":     played,
		"standings": group.Standings,
	})
	return &played, nil
}

func (s *tournamentService) SimulateGroup(ctx context.Context, id, groupID string) ([]models.Match, error) {
	var played []models.Match
	var group models.Group
	t, err := s.mutate(ctx, id, func(t *models.Tournament) (recordPlan, error) {
		matches, err := s.engine.SimulateGroup(t, groupID)
		if err != nil {
			return recordPlan{}, err
		}
		played = matches
		group = currentGroup(t, groupID)
		return recordPlan{groups: []models.Group{group}}, nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(t.ID, brackets.EventMatchPlayed, map[string]interface{}{
		"group_id":  groupID,
		"matches":   played,
		"standings": group.Standings,
	})
	return played, nil
}

func (s *tournamentService) SimulateStage(ctx context.Context, id string) (*models.Tournament, error) {
	var stage models.Stage
	t, err := s.mutate(ctx, id, func(t *models.Tournament) (recordPlan, error) {
		groups, err := s.engine.SimulateStage(ctx, t)
		if err != nil {
			return recordPlan{}, err
		}
		if len(groups) > 0 {
			stage = groups[0].Stage
		}
		return recordPlan{groups: groups}, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "stage simulated", slog.String("tournament_id", t.ID), slog.String("stage", string(stage)))
	s.notify(t.ID, brackets.EventMatchPlayed, map[string]interface{}{"stage": stage})
	return t, nil
}

func (s *tournamentService) StartWorldCup(ctx context.Context, id string) (*models.Tournament, error) {
	return s.mutate(ctx, id, func(t *models.Tournament) (recordPlan, error) {
		if t.Status == models.StatusQualifiersInProgress {
			if err := s.engine.CompleteQualifiers(t); err != nil {
				return recordPlan{}, err
			}
		}
		if err := s.engine.StartWorldCup(t); err != nil {
			return recordPlan{}, err
		}
		return recordPlan{groups: t.WorldCup.Groups}, nil
	})
}

func (s *tournamentService) RegenerateWorldCupDraw(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.mutate(ctx, id, func(t *models.Tournament) (recordPlan, error) {
		if err := s.engine.RegenerateWorldCupDraw(t); err != nil {
			return recordPlan{}, err
		}
		return recordPlan{groups: t.WorldCup.Groups, clearStage: models.StageWorldCupGroup, clearKnockout: true}, nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(t.ID, brackets.EventDrawRegenerated, map[string]interface{}{"stage": models.StageWorldCupGroup, "groups": t.WorldCup.Groups})
	return t, nil
}

func (s *tournamentService) StartKnockout(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.mutate(ctx, id, func(t *models.Tournament) (recordPlan, error) {
		if t.Status == models.StatusWorldCupGroupsInProgress {
			if err := s.engine.CompleteWorldCupGroups(t); err != nil {
				return recordPlan{}, err
			}
		}
		if err := s.engine.StartKnockout(t); err != nil {
			return recordPlan{}, err
		}
		return recordPlan{knockout: true}, nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(t.ID, brackets.EventBracketUpdated, t.WorldCup.Bracket)
	return t, nil
}

func (s *tournamentService) RegenerateKnockout(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.mutate(ctx, id, func(t *models.Tournament) (recordPlan, error) {
		if err := s.engine.RegenerateKnockout(t); err != nil {
			return recordPlan{}, err
		}
		return recordPlan{knockout: true, clearKnockout: true}, nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(t.ID, brackets.EventBracketUpdated, t.WorldCup.Bracket)
	return t, nil
}

func (s *tournamentService) Advance(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.mutate(ctx, id, func(t *models.Tournament) (recordPlan, error) {
		if err := s.engine.Advance(t); err != nil {
			return recordPlan{}, err
		}
		switch t.Status {
		case models.StatusWorldCupGroupsInProgress:
			return recordPlan{groups: t.WorldCup.Groups}, nil
		case models.StatusKnockoutInProgress:
			return recordPlan{knockout: true}, nil
		}
		return recordPlan{}, nil
	})
	if err != nil {
		return nil, err
	}
	if t.Status == models.StatusKnockoutInProgress {
		s.notify(t.ID, brackets.EventBracketUpdated, t.WorldCup.Bracket)
	}
	return t, nil
}

func (s *tournamentService) RecordKnockoutResult(ctx context.Context, id, matchID string, input KnockoutResultInput) (*models.KnockoutMatch, error) {
	if input.HomeScore == nil || input.AwayScore == nil {
		return nil, fmt.Errorf("%w: home_score and away_score are required", ErrValidationFailed)
	}
	var resolved models.KnockoutMatch
	t, err := s.mutate(ctx, id, func(t *models.Tournament) (recordPlan, error) {
		m, err := s.engine.ApplyKnockoutResult(t, matchID, *input.HomeScore, *input.AwayScore, input.Penalties)
		if err != nil {
			return recordPlan{}, err
		}
		resolved = m
		return recordPlan{knockout: true}, nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(t.ID, brackets.EventMatchPlayed, map[string]interface{}{"match": resolved})
	s.notify(t.ID, brackets.EventBracketUpdated, t.WorldCup.Bracket)
	return &resolved, nil
}

func (s *tournamentService) SimulateKnockoutRound(ctx context.Context, id string) ([]models.KnockoutMatch, error) {
	var played []models.KnockoutMatch
	t, err := s.mutate(ctx, id, func(t *models.Tournament) (recordPlan, error) {
		matches, err := s.engine.SimulateKnockoutRound(t)
		if err != nil {
			return recordPlan{}, err
		}
		played = matches
		return recordPlan{knockout: true}, nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(t.ID, brackets.EventMatchPlayed, map[string]interface{}{"matches": played})
	s.notify(t.ID, brackets.EventBracketUpdated, t.WorldCup.Bracket)
	return played, nil
}

// ExportSnapshot uploads the current aggregate as JSON, keyed by tournament and status.
func (s *tournamentService) ExportSnapshot(ctx context.Context, id string) (*storage.UploadResult, error) {
	if s.uploader == nil {
		return nil, ErrExportUnavailable
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(t, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tournament %s: %w", id, err)
	}
	result, err := s.uploader.Upload(ctx, storage.SnapshotKey(t.ID, string(t.Status)), "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "tournament snapshot exported",
		slog.String("tournament_id", t.ID),
		slog.String("key", result.Key))
	return result, nil
}

func currentGroup(t *models.Tournament, groupID string) models.Group {
	if idx := findGroup(t.QualifierGroups, groupID); idx >= 0 {
		return t.QualifierGroups[idx]
	}
	if t.WorldCup != nil {
		if idx := findGroup(t.WorldCup.Groups, groupID); idx >= 0 {
			return t.WorldCup.Groups[idx]
		}
	}
	return models.Group{}
}
