// Command cupsim runs offline tournament simulations against the embedded team catalog.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/Dosada05/cup-simulator/brackets"
	"github.com/Dosada05/cup-simulator/catalog"
	"github.com/Dosada05/cup-simulator/models"
	"github.com/Dosada05/cup-simulator/services"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		seed    uint64
		verbose bool
	)
	root := &cobra.Command{
		Use:           "cupsim",
		Short:         "Simulate a national-team cup from qualifiers to the final",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().Uint64Var(&seed, "seed", 1, "seed for the draw and match simulation")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "log engine progress to stderr")

	newLogger := func() *slog.Logger {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run a complete tournament and print every stage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTournament(cmd.Context(), out, seed, newLogger())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "draw",
		Short: "Print a World Cup draw of the 64 highest rated teams",
		RunE: func(_ *cobra.Command, _ []string) error {
			return printDraw(out, seed)
		},
	})
	return root
}

func runTournament(ctx context.Context, out io.Writer, seed uint64, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	engine := services.NewEngine(services.NewEloSimulator(), brackets.NewRandomSource(seed), services.DefaultFormat())
	t, err := engine.NewTournament(fmt.Sprintf("Cup %d", seed), catalog.Default())
	if err != nil {
		return err
	}
	logger.Debug("qualifiers drawn", slog.Int("groups", len(t.QualifierGroups)))

	if err := engine.RunToCompletion(ctx, t); err != nil {
		return err
	}
	logger.Debug("tournament complete", slog.String("status", string(t.Status)))

	names := t.TeamNames()
	fmt.Fprintf(out, "== Qualifiers (%d groups) ==\n", len(t.QualifierGroups))
	for _, g := range t.QualifierGroups {
		leader := g.Standings[0]
		fmt.Fprintf(out, "%-26s winner %-24s %2d pts\n", g.Name, names[leader.TeamID], leader.Points)
	}

	fmt.Fprintln(out, "\n== World Cup groups ==")
	for _, g := range t.WorldCup.Groups {
		printStandings(out, g, names)
	}

	fmt.Fprintln(out, "\n== Knockout ==")
	for _, m := range t.WorldCup.Bracket.AllMatches() {
		fmt.Fprintln(out, formatKnockoutMatch(m, names))
	}

	podium, ok := brackets.PodiumFor(t.WorldCup.Bracket)
	if !ok {
		return fmt.Errorf("tournament finished as %s without a podium", t.Status)
	}
	fmt.Fprintln(out, "\n== Podium ==")
	fmt.Fprintf(out, "1. %s\n2. %s\n3. %s\n4. %s\n",
		names[podium.ChampionID], names[podium.RunnerUpID],
		names[podium.ThirdPlaceID], names[podium.FourthPlaceID])
	return nil
}

func printDraw(out io.Writer, seed uint64) error {
	teams := catalog.Default()
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].Skill != teams[j].Skill {
			return teams[i].Skill > teams[j].Skill
		}
		return teams[i].ID < teams[j].ID
	})
	format := services.DefaultFormat()
	groups, err := brackets.GenerateGroups(brackets.DrawParams{
		Teams:           teams[:format.WorldCupTeams()],
		GroupCount:      format.WorldCupGroupCount,
		Stage:           models.StageWorldCupGroup,
		AvoidSameRegion: true,
		Random:          brackets.NewRandomSource(seed),
	})
	if err != nil {
		return err
	}
	byID := make(map[string]models.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	for _, g := range groups {
		entries := make([]string, 0, len(g.TeamIDs))
		for _, id := range g.TeamIDs {
			entries = append(entries, fmt.Sprintf("%s:%s (%s/%s)", g.PotLetters[id], byID[id].Name, byID[id].Region, byID[id].Tier()))
		}
		fmt.Fprintf(out, "%s: %s\n", g.Name, strings.Join(entries, ", "))
	}
	return nil
}

func printStandings(out io.Writer, g models.Group, names map[string]string) {
	fmt.Fprintln(out, g.Name)
	for i, s := range g.Standings {
		fmt.Fprintf(out, "  %d. %-24s P%d W%d D%d L%d %2d:%-2d %+3d %2d pts\n",
			i+1, names[s.TeamID], s.Played, s.Won, s.Drawn, s.Lost,
			s.GoalsFor, s.GoalsAgainst, s.GoalDifference, s.Points)
	}
}

func formatKnockoutMatch(m models.KnockoutMatch, names map[string]string) string {
	score := "-"
	if m.HasResult() {
		score = fmt.Sprintf("%d-%d", *m.HomeScore, *m.AwayScore)
	}
	if m.Penalties != nil {
		score += fmt.Sprintf(" (%d-%d pens)", m.Penalties.Home, m.Penalties.Away)
	}
	return fmt.Sprintf("%-14s %s v %s %s", m.Round, names[m.HomeTeamID], names[m.AwayTeamID], score)
}
