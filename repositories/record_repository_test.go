package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Dosada05/cup-simulator/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	query string
	args  []interface{}
}

type fakeResult struct{ rows int64 }

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

// fakeExecutor records statements instead of talking to a database.
type fakeExecutor struct {
	calls []execCall
	rows  int64
	err   error
}

func (f *fakeExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.calls = append(f.calls, execCall{query: query, args: args})
	if f.err != nil {
		return nil, f.err
	}
	return fakeResult{rows: f.rows}, nil
}

func (f *fakeExecutor) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not supported")
}

func (f *fakeExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (f *fakeExecutor) count(table string) int {
	n := 0
	for _, c := range f.calls {
		if strings.Contains(c.query, "INSERT INTO "+table+" ") {
			n++
		}
	}
	return n
}

func TestSaveGroupsWritesMatchesAndRankedStandings(t *testing.T) {
	exec := &fakeExecutor{rows: 1}
	repo := NewPostgresRecordRepository(nil)
	group := sampleTournament("t1", "Cup").QualifierGroups[0]
	group.Standings = append(group.Standings, models.TeamStanding{TeamID: "ARG", Played: 1, Lost: 1})

	require.NoError(t, repo.SaveGroups(context.Background(), exec, "t1", []models.Group{group}))

	assert.Equal(t, 1, exec.count("groups"))
	assert.Equal(t, 1, exec.count("matches"))
	assert.Equal(t, 2, exec.count("standings"))

	last := exec.calls[len(exec.calls)-1]
	assert.Equal(t, "ARG", last.args[1])
	assert.Equal(t, 2, last.args[10], "rank follows table order")
}

func TestSaveKnockoutWritesEveryRound(t *testing.T) {
	exec := &fakeExecutor{rows: 1}
	repo := NewPostgresRecordRepository(nil)
	winner, loser := "BRA", "ARG"
	bracket := models.KnockoutBracket{
		SemiFinals: []models.KnockoutMatch{{
			Match:     models.Match{ID: "sf1", HomeTeamID: "BRA", AwayTeamID: "ARG", HomeScore: models.IntPtr(1), AwayScore: models.IntPtr(1), Played: true, Stage: models.StageKnockout},
			Round:     models.SemiFinal,
			Position:  models.IntPtr(0),
			WinnerID:  &winner,
			LoserID:   &loser,
			Penalties: &models.PenaltyScore{Home: 4, Away: 2},
		}},
		Final: &models.KnockoutMatch{Match: models.Match{ID: "f", Stage: models.StageKnockout}, Round: models.Final},
	}

	require.NoError(t, repo.SaveKnockout(context.Background(), exec, "t1", bracket))
	require.Len(t, exec.calls, 2)

	semi := exec.calls[0].args
	require.Len(t, semi, 15)
	assert.Nil(t, semi[2].(*string), "knockout matches have no group")
	assert.Equal(t, "semi_final", *semi[5].(*string))
	assert.Equal(t, 4, *semi[11].(*int))
	assert.Equal(t, "BRA", *semi[13].(*string))
}

func TestSaveTournamentCarriesPodium(t *testing.T) {
	exec := &fakeExecutor{rows: 1}
	repo := NewPostgresRecordRepository(nil)
	tournament := sampleTournament("t1", "Cup")
	champion := "BRA"
	tournament.WorldCup = &models.WorldCup{ChampionID: &champion}

	require.NoError(t, repo.SaveTournament(context.Background(), exec, tournament))
	args := exec.calls[0].args
	assert.Equal(t, "t1", args[0])
	assert.Equal(t, models.StatusQualifiersInProgress, args[2])
	assert.Equal(t, "BRA", *args[3].(*string))
}

func TestDeleteTournamentAndErrors(t *testing.T) {
	repo := NewPostgresRecordRepository(nil)
	ctx := context.Background()

	err := repo.DeleteTournament(ctx, &fakeExecutor{rows: 0}, "t1")
	assert.ErrorIs(t, err, ErrRecordNotFound)
	exec := &fakeExecutor{rows: 1}
	require.NoError(t, repo.DeleteTournament(ctx, exec, "t1"))
	assert.Contains(t, exec.calls[0].query, "DELETE FROM tournaments")

	boom := errors.New("boom")
	err = repo.DeleteGroupsByStage(ctx, &fakeExecutor{err: boom}, "t1", models.StageQualifier)
	assert.ErrorIs(t, err, boom)
	err = repo.DeleteKnockout(ctx, &fakeExecutor{err: boom}, "t1")
	assert.ErrorIs(t, err, boom)
}

// txLog records what the connector's connections did.
type txLog struct {
	mu                         sync.Mutex
	begins, commits, rollbacks int
	execs                      []string
}

type txConnector struct{ log *txLog }

func (c *txConnector) Connect(context.Context) (driver.Conn, error) { return &txConn{log: c.log}, nil }
func (c *txConnector) Driver() driver.Driver { return txDriver{} }

type txDriver struct{}

func (txDriver) Open(string) (driver.Conn, error) { return nil, errors.New("use the connector") }

type txConn struct{ log *txLog }

func (c *txConn) Prepare(query string) (driver.Stmt, error) { return &txStmt{log: c.log, query: query}, nil }
func (c *txConn) Close() error { return nil }
func (c *txConn) Begin() (driver.Tx, error) {
	c.log.mu.Lock()
	defer c.log.mu.Unlock()
	c.log.begins++
	return &txTx{log: c.log}, nil
}

type txTx struct{ log *txLog }

func (t *txTx) Commit() error {
	t.log.mu.Lock()
	defer t.log.mu.Unlock()
	t.log.commits++
	return nil
}

func (t *txTx) Rollback() error {
	t.log.mu.Lock()
	defer t.log.mu.Unlock()
	t.log.rollbacks++
	return nil
}

type txStmt struct {
	log   *txLog
	query string
}

func (s *txStmt) Close() error { return nil }
func (s *txStmt) NumInput() int { return -1 }
func (s *txStmt) Exec([]driver.Value) (driver.Result, error) {
	s.log.mu.Lock()
	defer s.log.mu.Unlock()
	s.log.execs = append(s.log.execs, s.query)
	return driver.RowsAffected(1), nil
}
func (s *txStmt) Query([]driver.Value) (driver.Rows, error) { return nil, errors.New("not supported") }

func TestWithTxCommitsOrRollsBack(t *testing.T) {
	log := &txLog{}
	db := sql.OpenDB(&txConnector{log: log})
	defer db.Close()
	repo := NewPostgresRecordRepository(db)
	ctx := context.Background()
	tournament := sampleTournament("t1", "Cup")

	err := repo.WithTx(ctx, func(exec SQLExecutor) error {
		if err := repo.SaveTournament(ctx, exec, tournament); err != nil {
			return err
		}
		return repo.DeleteKnockout(ctx, exec, tournament.ID)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, log.begins)
	assert.Equal(t, 1, log.commits)
	assert.Zero(t, log.rollbacks)
	assert.Len(t, log.execs, 2)

	boom := errors.New("boom")
	err = repo.WithTx(ctx, func(exec SQLExecutor) error {
		if err := repo.SaveTournament(ctx, exec, tournament); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, log.begins)
	assert.Equal(t, 1, log.commits)
	assert.Equal(t, 1, log.rollbacks)
}
