// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foldlab/protein-research/internal/report"
	"github.com/foldlab/protein-research/internal/runstore"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored pipeline runs",
}

// --- list subcommand ---

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE:  runRunsList,
}

func runRunsList(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	store, err := runstore.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	entityID, _ := cmd.Flags().GetString("entity")
	limit, _ := cmd.Flags().GetInt("limit")
	summaries, err := store.ListRuns(context.Background(), entityID, limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-12s  %-20s  %-8s  %-5s  %s\n",
		"Run", "Entity", "Model", "Degraded", "Cites", "Created")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, s := range summaries {
		name := s.EntityID
		if len(name) > 12 {
			name = name[:9] + "..."
		}
		model := s.Model
		if len(model) > 20 {
			model = model[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-12s  %-20s  %-8t  %-5d  %s\n",
			s.RunID, name, model, s.Degraded, s.Citations,
			s.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(summaries))
	return nil
}

// --- show subcommand ---

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Render one stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	store, err := runstore.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := store.GetRun(context.Background(), args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml":
		return report.RenderYAML(os.Stdout, result)
	case "markdown", "":
		return report.RenderMarkdown(os.Stdout, result, report.Options{
			SectionOrder: cfg.Parse.Sections,
		})
	default:
		return fmt.Errorf("unknown format %q (want markdown or yaml)", format)
	}
}

func init() {
	runsListCmd.Flags().String("entity", "", "filter by entity identifier")
	runsListCmd.Flags().Int("limit", 0, "maximum number of runs to list")
	runsListCmd.Flags().Bool("json", false, "output as JSON")

	runsShowCmd.Flags().String("format", "markdown", "output format (markdown or yaml)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
