package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/cup-simulator/models"
	"github.com/lib/pq"
)

var ErrRecordNotFound = errors.New("tournament record not found")

// RecordRepository mirrors tournament state into relational tables for reporting.
// The aggregate itself lives in a TournamentStore; every write here is an upsert
// so the same state can be recorded repeatedly.
type RecordRepository interface {
	SaveTournament(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	SaveGroups(ctx context.Context, exec SQLExecutor, tournamentID string, groups []models.Group) error
	SaveKnockout(ctx context.Context, exec SQLExecutor, tournamentID string, bracket models.KnockoutBracket) error
	DeleteGroupsByStage(ctx context.Context, exec SQLExecutor, tournamentID string, stage models.Stage) error
	DeleteKnockout(ctx context.Context, exec SQLExecutor, tournamentID string) error
	DeleteTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error
	// WithTx runs fn inside one transaction, committing only when fn returns nil.
	WithTx(ctx context.Context, fn func(exec SQLExecutor) error) error
}

type postgresRecordRepository struct {
	db *sql.DB
}

func NewPostgresRecordRepository(db *sql.DB) RecordRepository {
	return &postgresRecordRepository{db: db}
}

func (r *postgresRecordRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRecordRepository) SaveTournament(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournaments (id, name, status, champion_id, runner_up_id, third_place_id, fourth_place_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			champion_id = EXCLUDED.champion_id,
			runner_up_id = EXCLUDED.runner_up_id,
			third_place_id = EXCLUDED.third_place_id,
			fourth_place_id = EXCLUDED.fourth_place_id,
			updated_at = EXCLUDED.updated_at`

	var champion, runnerUp, third, fourth *string
	if wc := t.WorldCup; wc != nil {
		champion, runnerUp, third, fourth = wc.ChampionID, wc.RunnerUpID, wc.ThirdPlaceID, wc.FourthPlaceID
	}
	_, err := executor.ExecContext(ctx, query,
		t.ID, t.Name, t.Status, champion, runnerUp, third, fourth, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tournament %s: %w", t.ID, err)
	}
	return nil
}

func (r *postgresRecordRepository) SaveGroups(ctx context.Context, exec SQLExecutor, tournamentID string, groups []models.Group) error {
	executor := r.getExecutor(exec)
	groupQuery := `
		INSERT INTO groups (id, tournament_id, name, region, stage, team_ids, draw_complete)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			team_ids = EXCLUDED.team_ids,
			draw_complete = EXCLUDED.draw_complete`

	for _, g := range groups {
		if _, err := executor.ExecContext(ctx, groupQuery,
			g.ID, tournamentID, g.Name, g.Region, g.Stage, pq.Array(g.TeamIDs), g.DrawComplete,
		); err != nil {
			return fmt.Errorf("failed to upsert group %s: %w", g.ID, err)
		}
		for _, m := range g.Matches {
			if err := upsertMatch(ctx, executor, tournamentID, &g.ID, m, nil); err != nil {
				return err
			}
		}
		for rank, s := range g.Standings {
			if err := upsertStanding(ctx, executor, g.ID, rank+1, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *postgresRecordRepository) SaveKnockout(ctx context.Context, exec SQLExecutor, tournamentID string, bracket models.KnockoutBracket) error {
	executor := r.getExecutor(exec)
	for _, m := range bracket.AllMatches() {
		km := m
		if err := upsertMatch(ctx, executor, tournamentID, nil, km.Match, &km); err != nil {
			return err
		}
	}
	return nil
}

func upsertMatch(ctx context.Context, exec SQLExecutor, tournamentID string, groupID *string, m models.Match, km *models.KnockoutMatch) error {
	query := `
		INSERT INTO matches (
			id, tournament_id, group_id, stage, matchday, round, position,
			home_team_id, away_team_id, home_score, away_score,
			home_penalties, away_penalties, winner_id, played
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			home_penalties = EXCLUDED.home_penalties,
			away_penalties = EXCLUDED.away_penalties,
			winner_id = EXCLUDED.winner_id,
			played = EXCLUDED.played`

	var (
		round              *string
		position           *int
		winnerID           *string
		homePens, awayPens *int
	)
	if km != nil {
		r := string(km.Round)
		round = &r
		position = km.Position
		winnerID = km.WinnerID
		if km.Penalties != nil {
			homePens, awayPens = models.IntPtr(km.Penalties.Home), models.IntPtr(km.Penalties.Away)
		}
	}
	_, err := exec.ExecContext(ctx, query,
		m.ID, tournamentID, groupID, m.Stage, m.Matchday, round, position,
		m.HomeTeamID, m.AwayTeamID, m.HomeScore, m.AwayScore,
		homePens, awayPens, winnerID, m.Played,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match %s: %w", m.ID, err)
	}
	return nil
}

func upsertStanding(ctx context.Context, exec SQLExecutor, groupID string, rank int, s models.TeamStanding) error {
	query := `
		INSERT INTO standings (
			group_id, team_id, played, won, drawn, lost,
			goals_for, goals_against, goal_difference, points, rank
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (group_id, team_id) DO UPDATE SET
			played = EXCLUDED.played,
			won = EXCLUDED.won,
			drawn = EXCLUDED.drawn,
			lost = EXCLUDED.lost,
			goals_for = EXCLUDED.goals_for,
			goals_against = EXCLUDED.goals_against,
			goal_difference = EXCLUDED.goal_difference,
			points = EXCLUDED.points,
			rank = EXCLUDED.rank`

	_, err := exec.ExecContext(ctx, query,
		groupID, s.TeamID, s.Played, s.Won, s.Drawn, s.Lost,
		s.GoalsFor, s.GoalsAgainst, s.GoalDifference, s.Points, rank,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert standing %s/%s: %w", groupID, s.TeamID, err)
	}
	return nil
}

// DeleteGroupsByStage removes a stage's groups after a redraw; matches and standings cascade.
func (r *postgresRecordRepository) DeleteGroupsByStage(ctx context.Context, exec SQLExecutor, tournamentID string, stage models.Stage) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM groups WHERE tournament_id = $1 AND stage = $2`
	if _, err := executor.ExecContext(ctx, query, tournamentID, stage); err != nil {
		return fmt.Errorf("failed to delete %s groups of tournament %s: %w", stage, tournamentID, err)
	}
	return nil
}

func (r *postgresRecordRepository) DeleteKnockout(ctx context.Context, exec SQLExecutor, tournamentID string) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM matches WHERE tournament_id = $1 AND stage = $2`
	if _, err := executor.ExecContext(ctx, query, tournamentID, models.StageKnockout); err != nil {
		return fmt.Errorf("failed to delete knockout matches of tournament %s: %w", tournamentID, err)
	}
	return nil
}

// DeleteTournament removes the tournament row; groups, matches and standings cascade.
func (r *postgresRecordRepository) DeleteTournament(ctx context.Context, exec SQLExecutor, tournamentID string) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM tournaments WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete tournament %s: %w", tournamentID, err)
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}

func (r *postgresRecordRepository) WithTx(ctx context.Context, fn func(exec SQLExecutor) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()
	return fn(tx)
}
