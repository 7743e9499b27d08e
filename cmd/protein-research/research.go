// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foldlab/protein-research/internal/pipeline"
	"github.com/foldlab/protein-research/internal/report"
	"github.com/foldlab/protein-research/internal/runstore"
)

var researchCmd = &cobra.Command{
	Use:   "research [entity]",
	Short: "Run the research pipeline for a protein",
	Long: `Research runs the full pipeline for one protein, given a UniProt
accession, a PDB identifier, or a common protein name. The run always
completes: unavailable capabilities fall back to synthetic substitutes and
the report notes which parts were degraded.

The result prints as markdown by default and is saved to the local run
store unless --no-save is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	model, _ := cmd.Flags().GetString("model")
	ligand, _ := cmd.Flags().GetString("ligand")
	includeNovel, _ := cmd.Flags().GetBool("include-novel")
	recencyMonths, _ := cmd.Flags().GetInt("recency-months")

	result, err := p.Run(context.Background(), args[0], pipeline.Options{
		IncludeNovel:    includeNovel,
		RecencyMonths:   recencyMonths,
		ModelPreference: model,
		LigandSpec:      ligand,
	})
	if err != nil {
		return err
	}

	noSave, _ := cmd.Flags().GetBool("no-save")
	if !noSave {
		store, err := runstore.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SaveRun(context.Background(), result); err != nil {
			return err
		}
		gen, err := store.NextGeneration(context.Background(), "entity:"+result.Entity.ID)
		if err != nil {
			logger.Warn("generation counter failed", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "Saved run %s (generation %d)\n", result.RunID, gen)
		}
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml":
		return report.RenderYAML(out, result)
	case "markdown", "":
		includeRaw, _ := cmd.Flags().GetBool("raw")
		return report.RenderMarkdown(out, result, report.Options{
			SectionOrder: cfg.Parse.Sections,
			IncludeRaw:   includeRaw,
		})
	default:
		return fmt.Errorf("unknown format %q (want markdown or yaml)", format)
	}
}

func init() {
	researchCmd.Flags().String("model", "", "preferred model alias or identifier (e.g. gemini-pro)")
	researchCmd.Flags().String("ligand", "", "ligand SMILES or name to dock against the target")
	researchCmd.Flags().Bool("include-novel", false, "include the novel-research section")
	researchCmd.Flags().Int("recency-months", 6, "recency window in months for novel research")
	researchCmd.Flags().String("format", "markdown", "output format (markdown or yaml)")
	researchCmd.Flags().String("output", "", "write the report to a file instead of stdout")
	researchCmd.Flags().Bool("raw", false, "append the raw agent output to the markdown report")
	researchCmd.Flags().Bool("no-save", false, "skip saving the run to the run store")

	rootCmd.AddCommand(researchCmd)
}
