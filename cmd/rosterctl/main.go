// Command rosterctl is the roster audit CLI.
//
// Usage:
//
//	rosterctl ingest entries.csv --session "DH 2026"
//	rosterctl audit --session "DH 2026"
//	rosterctl merge followup.csv --session "DH 2026"
//	rosterctl sessions
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"rosteraudit/internal/compliance"
	"rosteraudit/internal/roster"
	"rosteraudit/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

var (
	dataDir   string
	session   string
	threshold float64
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "rosterctl",
		Short: "Roster compliance audit CLI",
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "data", "Data directory for sessions and rule configuration")
	root.PersistentFlags().Float64Var(&threshold, "threshold", roster.DefaultFuzzyThreshold, "Fuzzy similarity cutoff for loan detection")

	root.AddCommand(ingestCmd())
	root.AddCommand(auditCmd())
	root.AddCommand(mergeCmd())
	root.AddCommand(sessionsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore opens the local file store under --data-dir.
func openStore() (*store.Local, error) {
	return store.NewLocal(dataDir)
}

// readCSVFile loads a CSV file into raw rows.
func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

// loadRoster ingests and classifies a CSV entry list.
func loadRoster(ctx context.Context, st *store.Local, path string) (*roster.Table, error) {
	rows, err := readCSVFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	table, err := roster.Ingest(rows)
	if err != nil {
		return nil, err
	}
	eq, err := st.Equivalences(ctx)
	if err != nil {
		return nil, err
	}
	roster.Classify(table, eq, threshold)
	return table, nil
}

// --------------------------------------------------------------------------
// ingest command
// --------------------------------------------------------------------------

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <entries.csv>",
		Short: "Import a CSV entry list into a classified roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openStore()
			if err != nil {
				return err
			}

			table, err := loadRoster(ctx, st, args[0])
			if err != nil {
				return err
			}

			if session != "" {
				if err := st.Save(ctx, session, table); err != nil {
					return err
				}
				logger.Info("session saved", "session", session)
			}

			logger.Info("roster imported", "players", table.Len(), "teams", len(table.Teams()))
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LICENSE\tNAME\tCLUB\tTEAM\tSTATUS")
			for _, p := range table.Players {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.LicenseID, p.DisplayName, p.OriginClub, p.CurrentTeam, p.Status)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "Save the imported roster under this session name")
	return cmd
}

// --------------------------------------------------------------------------
// audit command
// --------------------------------------------------------------------------

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Evaluate a saved session against the configured rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openStore()
			if err != nil {
				return err
			}
			if session == "" {
				return fmt.Errorf("--session is required")
			}

			table, err := st.Load(ctx, session)
			if err != nil {
				return err
			}
			cfg, err := st.Rules(ctx)
			if err != nil {
				return err
			}
			eq, err := st.Equivalences(ctx)
			if err != nil {
				return err
			}
			cats, err := st.Categories(ctx)
			if err != nil {
				return err
			}

			roster.Classify(table, eq, threshold)
			compliance.Annotate(table, cfg, cats)
			summaries := compliance.Audit(table, cfg, cats)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TEAM\tCATEGORY\tPLAYERS\tM/F\tLOANED M/F\tVERDICT\tDETAILS")
			for _, sum := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d/%d\t%d/%d\t%s\t%s\n",
					sum.Team, sum.Category, sum.Total,
					sum.Men, sum.Women, sum.LoanedMen, sum.LoanedWomen,
					sum.Verdict, sum.Details)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			flagged := 0
			for _, p := range table.Players {
				if p.NormativeErrors != "" {
					flagged++
				}
			}
			logger.Info("audit finished", "teams", len(summaries), "flagged_players", flagged)
			return nil
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "Session to audit")
	return cmd
}

// --------------------------------------------------------------------------
// merge command
// --------------------------------------------------------------------------

func mergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <followup.csv>",
		Short: "Merge a follow-up batch into a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openStore()
			if err != nil {
				return err
			}
			if session == "" {
				return fmt.Errorf("--session is required")
			}

			current, err := st.Load(ctx, session)
			if err != nil {
				return err
			}
			incoming, err := loadRoster(ctx, st, args[0])
			if err != nil {
				return err
			}

			merged, report := roster.Merge(current, incoming)

			eq, err := st.Equivalences(ctx)
			if err != nil {
				return err
			}
			roster.Classify(merged, eq, threshold)

			if err := st.Save(ctx, session, merged); err != nil {
				return err
			}

			for _, line := range report.Log {
				fmt.Println(line)
			}
			logger.Info("merge finished", "added", report.Added, "updated", report.Updated, "skipped", report.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "Session to merge into")
	return cmd
}

// --------------------------------------------------------------------------
// sessions command
// --------------------------------------------------------------------------

func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List saved sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			infos, err := st.List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSAVED\tPLAYERS")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%d\n", info.Name, info.SavedAt.Format("2006-01-02 15:04"), info.Count)
			}
			return w.Flush()
		},
	}
}
