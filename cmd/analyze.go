package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/pipeline"
)

var (
	analyzeJSON         bool
	analyzeLanguage     string
	analyzeJurisdiction string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a single contract document",
	Long:  "Reads a plain-text contract document, runs the full analysis pipeline, persists the run, and prints the report.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		report, err := analyzeFile(ctx, env, args[0])
		if err != nil {
			return err
		}

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(report), "encode report")
		}

		fmt.Print(pipeline.FormatReport(report))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the report as JSON")
	analyzeCmd.Flags().StringVar(&analyzeLanguage, "lang", "", "document language hint (de, en)")
	analyzeCmd.Flags().StringVar(&analyzeJurisdiction, "jurisdiction", "", "jurisdiction hint (e.g. DE)")
	rootCmd.AddCommand(analyzeCmd)
}

// analyzeFile runs one document through the pipeline with run bookkeeping.
func analyzeFile(ctx context.Context, env *pipelineEnv, path string) (*model.AnalysisReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read document %s", path)
	}

	doc := model.ContractDocument{
		Text:             string(data),
		Filename:         filepath.Base(path),
		LanguageHint:     analyzeLanguage,
		JurisdictionHint: analyzeJurisdiction,
	}

	run, err := env.Store.CreateRun(ctx, doc.Filename)
	if err != nil {
		return nil, eris.Wrap(err, "create run")
	}
	if err := env.Store.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
		zap.L().Warn("failed to mark run running", zap.String("run_id", run.ID), zap.Error(err))
	}

	report, err := env.Pipeline.Run(ctx, doc)
	if err != nil {
		if failErr := env.Store.FailRun(ctx, run.ID, err.Error()); failErr != nil {
			zap.L().Warn("failed to record run failure", zap.String("run_id", run.ID), zap.Error(failErr))
		}
		return nil, err
	}

	if err := env.Store.CompleteRun(ctx, run.ID, report); err != nil {
		zap.L().Warn("failed to persist report", zap.String("run_id", run.ID), zap.Error(err))
	}

	return report, nil
}

// printRunSummary is shared by batch output.
func printRunSummary(w *os.File, filename string, report *model.AnalysisReport) {
	fmt.Fprintf(w, "%s: %s, Score %d/100, %d Befunde, %s\n",
		filename,
		report.Meta.TypeInfo.Label,
		report.Score.Health,
		report.Summary.TotalIssues,
		report.LegalIntegrity.Label,
	)
}
