package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Dosada05/cup-simulator/brackets"
	"github.com/Dosada05/cup-simulator/catalog"
	"github.com/Dosada05/cup-simulator/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Format fixes the shape of the competition.
type Format struct {
	QualifierWinners   int
	BestRunnersUp      int
	WorldCupGroupCount int
}

// DefaultFormat is 42 qualifier group winners plus 22 best runners-up into 16 groups of 4.
func DefaultFormat() Format {
	return Format{
		QualifierWinners:   1,
		BestRunnersUp:      22,
		WorldCupGroupCount: 16,
	}
}

func (f Format) WorldCupTeams() int {
	return f.WorldCupGroupCount * models.WorldCupGroupSize
}

// Validate rejects formats the draw and the knockout builder cannot run.
func (f Format) Validate() error {
	if f.QualifierWinners < 0 || f.BestRunnersUp < 0 {
		return fmt.Errorf("%w: %d winners and %d runners-up per qualifier", ErrInvalidFormat, f.QualifierWinners, f.BestRunnersUp)
	}
	if f.QualifierWinners == 0 && f.BestRunnersUp == 0 {
		return fmt.Errorf("%w: no team qualifies", ErrInvalidFormat)
	}
	if _, err := brackets.GeneratorForGroupCount(f.WorldCupGroupCount); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return nil
}

// Engine runs the tournament state machine over an explicitly passed aggregate.
// It holds no tournament state of its own; it is not safe for concurrent use
// because the random source is shared.
type Engine struct {
	format    Format
	simulator MatchSimulator
	rng       brackets.RandomSource
	now       func() time.Time
}

func NewEngine(simulator MatchSimulator, rng brackets.RandomSource, format Format) *Engine {
	if simulator == nil {
		simulator = NewEloSimulator()
	}
	if rng == nil {
		rng = brackets.NewRandomSource(uint64(time.Now().UnixNano()))
	}
	return &Engine{
		format:    format,
		simulator: simulator,
		rng:       rng,
		now:       time.Now,
	}
}

func (e *Engine) Format() Format {
	return e.format
}

// NewTournament draws the regional qualifiers and snapshots every team's skill.
func (e *Engine) NewTournament(name string, teams []models.Team) (*models.Tournament, error) {
	if err := e.format.Validate(); err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: no teams supplied", ErrInvalidTeamCount)
	}
	roster := make(map[string]models.Team, len(teams))
	for _, t := range teams {
		if _, dup := roster[t.ID]; dup {
			return nil, fmt.Errorf("%w: team %s listed twice", ErrValidationFailed, t.ID)
		}
		roster[t.ID] = t
	}

	groups, err := e.drawQualifiers(teams)
	if err != nil {
		return nil, err
	}

	now := e.now()
	return &models.Tournament{
		ID:              uuid.NewString(),
		Name:            name,
		Status:          models.StatusQualifiersInProgress,
		Teams:           roster,
		QualifierGroups: groups,
		SkillSnapshot:   snapshotSkills(roster),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (e *Engine) drawQualifiers(teams []models.Team) ([]models.Group, error) {
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
		if !t.Region.Valid() {
			return nil, fmt.Errorf("%w: team %s has unknown region %q", ErrValidationFailed, t.ID, t.Region)
		}
	}
	byRegion := catalog.ByRegion(teams)

	groups := make([]models.Group, 0)
	for _, region := range models.Regions {
		pool := byRegion[region]
		if len(pool) == 0 {
			continue
		}
		if len(pool)%models.QualifierGroupSize != 0 {
			return nil, fmt.Errorf("%w: %s has %d teams, need a multiple of %d",
				ErrInvalidTeamCount, region, len(pool), models.QualifierGroupSize)
		}
		drawn, err := brackets.GenerateGroups(brackets.DrawParams{
			Teams:      pool,
			GroupCount: len(pool) / models.QualifierGroupSize,
			Stage:      models.StageQualifier,
			Region:     region,
			Random:     e.rng,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s qualifiers: %w", ErrInvalidTeamCount, region, err)
		}
		withFixtures, err := fixturesFor(drawn, names)
		if err != nil {
			return nil, err
		}
		groups = append(groups, withFixtures...)
	}
	return groups, nil
}

func (e *Engine) drawWorldCup(roster map[string]models.Team, qualified []string) ([]models.Group, error) {
	teams, err := teamsByID(roster, qualified)
	if err != nil {
		return nil, err
	}
	if len(teams) != e.format.WorldCupTeams() {
		return nil, fmt.Errorf("%w: %d teams qualified, expected %d", ErrQualifiedCountMismatch, len(teams), e.format.WorldCupTeams())
	}
	drawn, err := brackets.GenerateGroups(brackets.DrawParams{
		Teams:           teams,
		GroupCount:      e.format.WorldCupGroupCount,
		Stage:           models.StageWorldCupGroup,
		AvoidSameRegion: true,
		Random:          e.rng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: world cup draw: %w", ErrInvalidTeamCount, err)
	}
	names := make(map[string]string, len(teams))
	for _, team := range teams {
		names[team.ID] = team.Name
	}
	return fixturesFor(drawn, names)
}

func fixturesFor(groups []models.Group, names map[string]string) ([]models.Group, error) {
	out := make([]models.Group, len(groups))
	for i, g := range groups {
		withFixtures, err := brackets.WithFixtures(g)
		if err != nil {
			return nil, err
		}
		out[i] = ranked(withFixtures, names)
	}
	return out, nil
}

// HasAnyMatchPlayed is true once any match of any stage has a result.
func (e *Engine) HasAnyMatchPlayed(t *models.Tournament) bool {
	for _, g := range t.QualifierGroups {
		if g.HasAnyMatchPlayed() {
			return true
		}
	}
	return e.HasAnyWorldCupMatchPlayed(t)
}

// HasAnyWorldCupMatchPlayed covers World Cup groups and the knockout bracket.
func (e *Engine) HasAnyWorldCupMatchPlayed(t *models.Tournament) bool {
	if t.WorldCup == nil {
		return false
	}
	for _, g := range t.WorldCup.Groups {
		if g.HasAnyMatchPlayed() {
			return true
		}
	}
	return t.WorldCup.Bracket.HasAnyMatchPlayed()
}

// RegenerateQualifierDraw discards the qualifier draw and redraws it from the creation snapshot.
func (e *Engine) RegenerateQualifierDraw(t *models.Tournament) error {
	if err := requireStatus(t, models.StatusQualifiersInProgress); err != nil {
		return err
	}
	if e.HasAnyMatchPlayed(t) {
		return fmt.Errorf("%w: qualifier results already recorded", ErrDrawLocked)
	}
	teams := make(map[string]models.Team, len(t.Teams))
	for id, team := range t.Teams {
		teams[id] = team
	}
	restoreSkills(teams, t.SkillSnapshot)

	groups, err := e.drawQualifiers(sortedTeams(teams))
	if err != nil {
		return err
	}
	t.Teams = teams
	t.QualifierGroups = groups
	e.touch(t)
	return nil
}

// RegenerateWorldCupDraw redraws the World Cup groups while no World Cup match is played.
func (e *Engine) RegenerateWorldCupDraw(t *models.Tournament) error {
	if err := requireStatus(t, models.StatusWorldCupGroupsInProgress); err != nil {
		return err
	}
	if e.HasAnyWorldCupMatchPlayed(t) {
		return fmt.Errorf("%w: world cup results already recorded", ErrDrawLocked)
	}
	teams := make(map[string]models.Team, len(t.Teams))
	for id, team := range t.Teams {
		teams[id] = team
	}
	restoreSkills(teams, t.WorldCup.SkillSnapshot)

	groups, err := e.drawWorldCup(teams, t.WorldCup.QualifiedTeamIDs)
	if err != nil {
		return err
	}
	t.Teams = teams
	t.WorldCup.Groups = groups
	t.WorldCup.Bracket = models.KnockoutBracket{}
	e.touch(t)
	return nil
}

// stageGroups returns the groups that currently accept results.
func stageGroups(t *models.Tournament) (*[]models.Group, error) {
	switch t.Status {
	case models.StatusQualifiersInProgress:
		return &t.QualifierGroups, nil
	case models.StatusWorldCupGroupsInProgress:
		if t.WorldCup != nil {
			return &t.WorldCup.Groups, nil
		}
	}
	return nil, fmt.Errorf("%w: tournament is %s", ErrStageClosed, t.Status)
}

// ApplyGroupResult records a result for a group match of the stage in progress.
func (e *Engine) ApplyGroupResult(t *models.Tournament, groupID, matchID string, homeScore, awayScore int) (models.Match, error) {
	groups, err := stageGroups(t)
	if err != nil {
		return models.Match{}, err
	}
	idx := findGroup(*groups, groupID)
	if idx < 0 {
		return models.Match{}, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	updated, err := brackets.ApplyMatchResult((*groups)[idx], matchID, homeScore, awayScore)
	if err != nil {
		return models.Match{}, err
	}
	updated = ranked(updated, t.TeamNames())
	(*groups)[idx] = updated
	e.touch(t)
	return updated.Matches[updated.MatchIndex(matchID)], nil
}

// SimulateGroupMatch asks the match-outcome service for one group match and applies it.
func (e *Engine) SimulateGroupMatch(t *models.Tournament, groupID, matchID string) (models.Match, error) {
	groups, err := stageGroups(t)
	if err != nil {
		return models.Match{}, err
	}
	idx := findGroup(*groups, groupID)
	if idx < 0 {
		return models.Match{}, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	group := (*groups)[idx]
	mIdx := group.MatchIndex(matchID)
	if mIdx < 0 {
		return models.Match{}, fmt.Errorf("%w: %s", brackets.ErrMatchNotFound, matchID)
	}
	match := group.Matches[mIdx]
	if match.Played {
		return models.Match{}, fmt.Errorf("%w: %s", brackets.ErrMatchAlreadyPlayed, matchID)
	}

	outcome := e.simulator.Simulate(e.rng, t.Teams[match.HomeTeamID].Skill, t.Teams[match.AwayTeamID].Skill, group.Stage == models.StageWorldCupGroup)
	updated, err := brackets.ApplyMatchResult(group, matchID, outcome.HomeScore, outcome.AwayScore)
	if err != nil {
		return models.Match{}, err
	}
	updated = ranked(updated, t.TeamNames())
	(*groups)[idx] = updated
	applySkillDelta(t, match.HomeTeamID, outcome.HomeSkillDelta)
	applySkillDelta(t, match.AwayTeamID, outcome.AwaySkillDelta)
	e.touch(t)
	return updated.Matches[mIdx], nil
}

// SimulateGroup plays the group's remaining matches one at a time in fixture order.
func (e *Engine) SimulateGroup(t *models.Tournament, groupID string) ([]models.Match, error) {
	groups, err := stageGroups(t)
	if err != nil {
		return nil, err
	}
	idx := findGroup(*groups, groupID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	group := (*groups)[idx]
	skills := groupSkills(t, group)
	updated, played, err := e.playGroup(group, skills, t.TeamNames(), e.rng)
	if err != nil {
		return nil, err
	}
	(*groups)[idx] = updated
	for id, skill := range skills {
		setSkill(t, id, skill)
	}
	e.touch(t)
	return played, nil
}

// SimulateStage plays every remaining match of the stage in progress. Groups run in
// parallel, each with its own seeded random source and its own skill copy; nothing
// is committed unless every group succeeds.
func (e *Engine) SimulateStage(ctx context.Context, t *models.Tournament) ([]models.Group, error) {
	groups, err := stageGroups(t)
	if err != nil {
		return nil, err
	}
	current := *groups

	type groupResult struct {
		group  models.Group
		skills map[string]float64
	}
	results := make([]groupResult, len(current))
	seeds := make([]uint64, len(current))
	for i := range seeds {
		seeds[i] = uint64(e.rng.IntN(math.MaxInt))
	}

	names := t.TeamNames()
	g, gCtx := errgroup.WithContext(ctx)
	for i, group := range current {
		if group.AllMatchesPlayed() {
			results[i] = groupResult{group: group}
			continue
		}
		skills := groupSkills(t, group)
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			updated, _, err := e.playGroup(group, skills, names, brackets.NewRandomSource(seeds[i]))
			if err != nil {
				return fmt.Errorf("group %s: %w", group.Name, err)
			}
			results[i] = groupResult{group: updated, skills: skills}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	next := make([]models.Group, len(results))
	for i, r := range results {
		next[i] = r.group
		for id, skill := range r.skills {
			setSkill(t, id, skill)
		}
	}
	*groups = next
	e.touch(t)
	return next, nil
}

// playGroup never touches the aggregate; skills is the group's private rating copy
// and names is only read.
func (e *Engine) playGroup(group models.Group, skills map[string]float64, names map[string]string, rng brackets.RandomSource) (models.Group, []models.Match, error) {
	neutral := group.Stage == models.StageWorldCupGroup
	played := make([]models.Match, 0)
	for _, m := range group.Matches {
		if m.Played {
			continue
		}
		outcome := e.simulator.Simulate(rng, skills[m.HomeTeamID], skills[m.AwayTeamID], neutral)
		next, err := brackets.ApplyMatchResult(group, m.ID, outcome.HomeScore, outcome.AwayScore)
		if err != nil {
			return group, nil, err
		}
		group = next
		skills[m.HomeTeamID] = models.ClampSkill(skills[m.HomeTeamID] + outcome.HomeSkillDelta)
		skills[m.AwayTeamID] = models.ClampSkill(skills[m.AwayTeamID] + outcome.AwaySkillDelta)
		played = append(played, group.Matches[group.MatchIndex(m.ID)])
	}
	return ranked(group, names), played, nil
}

// ranked keeps stored standings in table order.
func ranked(group models.Group, names map[string]string) models.Group {
	group.Standings = brackets.SortStandings(group.Standings, names)
	return group
}

// CompleteQualifiers closes the qualifiers once every qualifier match is played.
func (e *Engine) CompleteQualifiers(t *models.Tournament) error {
	if err := requireStatus(t, models.StatusQualifiersInProgress); err != nil {
		return err
	}
	played, total := countPlayed(t.QualifierGroups)
	if total == 0 || played < total {
		return fmt.Errorf("%w: %d of %d qualifier matches played", ErrStageIncomplete, played, total)
	}
	t.QualifiersComplete = true
	return e.transition(t, models.StatusQualifiersComplete)
}

// StartWorldCup selects the qualifiers and draws the World Cup groups.
func (e *Engine) StartWorldCup(t *models.Tournament) error {
	if err := requireStatus(t, models.StatusQualifiersComplete); err != nil {
		return err
	}
	ids, err := brackets.SelectQualifiers(t.QualifierGroups, e.format.QualifierWinners, e.format.BestRunnersUp, t.TeamNames())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrQualifiedCountMismatch, err)
	}
	if len(ids) != e.format.WorldCupTeams() {
		return fmt.Errorf("%w: %d teams qualified, expected %d", ErrQualifiedCountMismatch, len(ids), e.format.WorldCupTeams())
	}

	groups, err := e.drawWorldCup(t.Teams, ids)
	if err != nil {
		return err
	}
	t.WorldCup = &models.WorldCup{
		Groups:           groups,
		QualifiedTeamIDs: ids,
		SkillSnapshot:    snapshotSkills(t.Teams),
	}
	return e.transition(t, models.StatusWorldCupGroupsInProgress)
}

// CompleteWorldCupGroups closes the group stage once every World Cup group match is played.
func (e *Engine) CompleteWorldCupGroups(t *models.Tournament) error {
	if err := requireStatus(t, models.StatusWorldCupGroupsInProgress); err != nil {
		return err
	}
	played, total := countPlayed(t.WorldCup.Groups)
	if total == 0 || played < total {
		return fmt.Errorf("%w: %d of %d world cup group matches played", ErrStageIncomplete, played, total)
	}
	t.WorldCup.GroupsComplete = true
	return e.transition(t, models.StatusWorldCupGroupsComplete)
}

// StartKnockout builds the opening knockout round from the final group standings.
func (e *Engine) StartKnockout(t *models.Tournament) error {
	if err := requireStatus(t, models.StatusWorldCupGroupsComplete); err != nil {
		return err
	}
	bracket, err := e.openingRound(t)
	if err != nil {
		return err
	}
	t.WorldCup.Bracket = bracket
	return e.transition(t, models.StatusKnockoutInProgress)
}

// RegenerateKnockout rebuilds the bracket from group standings while no knockout match is played.
func (e *Engine) RegenerateKnockout(t *models.Tournament) error {
	if err := requireStatus(t, models.StatusKnockoutInProgress); err != nil {
		return err
	}
	if t.WorldCup.Bracket.HasAnyMatchPlayed() {
		return fmt.Errorf("%w: %w", ErrDrawLocked, brackets.ErrBracketLocked)
	}
	bracket, err := e.openingRound(t)
	if err != nil {
		return err
	}
	t.WorldCup.Bracket = bracket
	e.touch(t)
	return nil
}

func (e *Engine) openingRound(t *models.Tournament) (models.KnockoutBracket, error) {
	generator, err := brackets.GeneratorForGroupCount(len(t.WorldCup.Groups))
	if err != nil {
		return models.KnockoutBracket{}, err
	}
	return generator.GenerateBracket(brackets.GenerateBracketParams{
		Groups: t.WorldCup.Groups,
		Names:  t.TeamNames(),
	})
}

// ApplyKnockoutResult resolves a knockout match, generates the next round when the current
// one is complete and records the podium. The third-place match stays open after the
// champion is decided.
func (e *Engine) ApplyKnockoutResult(t *models.Tournament, matchID string, homeScore, awayScore int, penalties *models.PenaltyScore) (models.KnockoutMatch, error) {
	if err := e.requireKnockoutOpen(t, matchID); err != nil {
		return models.KnockoutMatch{}, err
	}
	bracket, resolved, err := brackets.ApplyKnockoutResult(t.WorldCup.Bracket, matchID, homeScore, awayScore, penalties)
	if err != nil {
		if errors.Is(err, brackets.ErrMatchNotFound) {
			return models.KnockoutMatch{}, fmt.Errorf("%w: %s", ErrKnockoutMatchNotFound, matchID)
		}
		return models.KnockoutMatch{}, err
	}
	if next, generated := brackets.BuildNextKnockoutRound(bracket); generated {
		bracket = next
	}
	t.WorldCup.Bracket = bracket
	if err := e.recordPlacings(t); err != nil {
		return models.KnockoutMatch{}, err
	}
	e.touch(t)
	return resolved, nil
}

func (e *Engine) requireKnockoutOpen(t *models.Tournament, matchID string) error {
	if t.WorldCup == nil || t.WorldCup.Bracket.Empty() {
		return fmt.Errorf("%w: tournament is %s", ErrStageClosed, t.Status)
	}
	if t.Status == models.StatusKnockoutInProgress {
		return nil
	}
	third := t.WorldCup.Bracket.ThirdPlace
	if t.Status == models.StatusChampionDecided && third != nil && third.ID == matchID {
		return nil
	}
	return fmt.Errorf("%w: tournament is %s", ErrStageClosed, t.Status)
}

func (e *Engine) recordPlacings(t *models.Tournament) error {
	wc := t.WorldCup
	if final := wc.Bracket.Final; final != nil && final.Resolved() && wc.ChampionID == nil {
		champion, runnerUp := *final.WinnerID, *final.LoserID
		wc.ChampionID = &champion
		wc.RunnerUpID = &runnerUp
		if err := e.transition(t, models.StatusChampionDecided); err != nil {
			return err
		}
	}
	if third := wc.Bracket.ThirdPlace; third != nil && third.Resolved() && wc.ThirdPlaceID == nil {
		winner, loser := *third.WinnerID, *third.LoserID
		wc.ThirdPlaceID = &winner
		wc.FourthPlaceID = &loser
	}
	return nil
}

// SimulateKnockoutMatch plays a knockout match on neutral ground, with a shoot-out if needed.
func (e *Engine) SimulateKnockoutMatch(t *models.Tournament, matchID string) (models.KnockoutMatch, error) {
	if t.WorldCup == nil {
		return models.KnockoutMatch{}, fmt.Errorf("%w: tournament is %s", ErrStageClosed, t.Status)
	}
	match, ok := brackets.FindKnockoutMatch(t.WorldCup.Bracket, matchID)
	if !ok {
		return models.KnockoutMatch{}, fmt.Errorf("%w: %s", ErrKnockoutMatchNotFound, matchID)
	}
	outcome := e.simulator.SimulateWithDecision(e.rng, t.Teams[match.HomeTeamID].Skill, t.Teams[match.AwayTeamID].Skill, true)
	resolved, err := e.ApplyKnockoutResult(t, matchID, outcome.HomeScore, outcome.AwayScore, outcome.Penalties)
	if err != nil {
		return models.KnockoutMatch{}, err
	}
	applySkillDelta(t, match.HomeTeamID, outcome.HomeSkillDelta)
	applySkillDelta(t, match.AwayTeamID, outcome.AwaySkillDelta)
	return resolved, nil
}

// SimulateKnockoutRound plays every pending match of the latest round.
func (e *Engine) SimulateKnockoutRound(t *models.Tournament) ([]models.KnockoutMatch, error) {
	if t.WorldCup == nil {
		return nil, fmt.Errorf("%w: tournament is %s", ErrStageClosed, t.Status)
	}
	pending := brackets.PendingMatches(t.WorldCup.Bracket)
	if len(pending) == 0 {
		return nil, fmt.Errorf("%w: no pending knockout matches", ErrStageClosed)
	}
	played := make([]models.KnockoutMatch, 0, len(pending))
	for _, m := range pending {
		resolved, err := e.SimulateKnockoutMatch(t, m.ID)
		if err != nil {
			return played, err
		}
		played = append(played, resolved)
	}
	return played, nil
}

// Advance performs the next stage transition whose preconditions hold.
func (e *Engine) Advance(t *models.Tournament) error {
	switch t.Status {
	case models.StatusQualifiersInProgress:
		return e.CompleteQualifiers(t)
	case models.StatusQualifiersComplete:
		return e.StartWorldCup(t)
	case models.StatusWorldCupGroupsInProgress:
		return e.CompleteWorldCupGroups(t)
	case models.StatusWorldCupGroupsComplete:
		return e.StartKnockout(t)
	case models.StatusKnockoutInProgress:
		return fmt.Errorf("%w: knockout rounds advance as results are recorded", ErrStageIncomplete)
	default:
		return fmt.Errorf("%w: tournament is %s", ErrInvalidStatusTransition, t.Status)
	}
}

// RunToCompletion simulates everything that is left until the podium is complete.
func (e *Engine) RunToCompletion(ctx context.Context, t *models.Tournament) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch t.Status {
		case models.StatusQualifiersInProgress, models.StatusWorldCupGroupsInProgress:
			if _, err := e.SimulateStage(ctx, t); err != nil {
				return err
			}
			if err := e.Advance(t); err != nil {
				return err
			}
		case models.StatusQualifiersComplete, models.StatusWorldCupGroupsComplete:
			if err := e.Advance(t); err != nil {
				return err
			}
		case models.StatusKnockoutInProgress:
			if _, err := e.SimulateKnockoutRound(t); err != nil {
				return err
			}
		case models.StatusChampionDecided:
			if len(brackets.PendingMatches(t.WorldCup.Bracket)) == 0 {
				return nil
			}
			if _, err := e.SimulateKnockoutRound(t); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unknown status %s", ErrInvalidStatusTransition, t.Status)
		}
	}
}

func (e *Engine) transition(t *models.Tournament, next models.TournamentStatus) error {
	if !isValidStatusTransition(t.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, t.Status, next)
	}
	t.Status = next
	e.touch(t)
	return nil
}

func (e *Engine) touch(t *models.Tournament) {
	t.UpdatedAt = e.now()
}

func groupSkills(t *models.Tournament, group models.Group) map[string]float64 {
	skills := make(map[string]float64, len(group.TeamIDs))
	for _, id := range group.TeamIDs {
		skills[id] = t.Teams[id].Skill
	}
	return skills
}

func applySkillDelta(t *models.Tournament, teamID string, delta float64) {
	if team, ok := t.Teams[teamID]; ok {
		setSkill(t, teamID, team.Skill+delta)
	}
}

func setSkill(t *models.Tournament, teamID string, skill float64) {
	if team, ok := t.Teams[teamID]; ok {
		team.Skill = models.ClampSkill(skill)
		t.Teams[teamID] = team
	}
}

func sortedTeams(teams map[string]models.Team) []models.Team {
	out := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
