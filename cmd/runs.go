package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/pipeline"
	"github.com/noah04091/contract-ai-sub004/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect analysis run history",
	Long:  "Commands for listing and viewing past contract analysis runs.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List analysis runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		contractType, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status:       model.RunStatus(status),
			ContractType: contractType,
			Limit:        limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFILE\tTYPE\tSTATUS\tSCORE\tCREATED")
		for _, r := range runs {
			score := "-"
			if r.Report != nil {
				score = fmt.Sprintf("%d", r.Report.Score.Health)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Filename, r.ContractType, r.Status, score,
				r.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		return w.Flush()
	},
}

// -- runs show --

var runsShowJSON bool

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one analysis run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "runs show %s", args[0])
		}

		if runsShowJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(run), "encode run")
		}

		fmt.Printf("Run %s (%s)\n", run.ID, run.Status)
		fmt.Printf("Datei: %s\n", run.Filename)
		if run.Error != "" {
			fmt.Printf("Fehler: %s\n", run.Error)
		}
		if run.Report != nil {
			fmt.Println()
			fmt.Print(pipeline.FormatReport(run.Report))
		}
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by status (queued, running, complete, failed)")
	runsListCmd.Flags().String("type", "", "filter by contract type tag")
	runsListCmd.Flags().Int("limit", 50, "max runs to list")

	runsShowCmd.Flags().BoolVar(&runsShowJSON, "json", false, "print the run as JSON")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
