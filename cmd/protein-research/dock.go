// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dockCmd = &cobra.Command{
	Use:   "dock [target] [ligand]",
	Short: "Run a docking request for a target and ligand",
	Long: `Dock submits a docking request for the target protein against the
given ligand. Without a configured docking endpoint the poses are
deterministic synthetic substitutes, suitable for demos.`,
	Args: cobra.ExactArgs(2),
	RunE: runDock,
}

func runDock(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if poses, _ := cmd.Flags().GetInt("poses"); poses > 0 {
		cfg.Docking.Poses = poses
	}

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	poses, degraded, reason := p.Dock(context.Background(), args[0], args[1])
	if degraded {
		fmt.Fprintf(os.Stderr, "Note: %s\n", reason)
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-10s  %-8s  %s\n", "Rank", "Score", "RMSD", "Pose")
	for _, pose := range poses {
		fmt.Fprintf(os.Stdout, "%-5d  %-10.2f  %-8.2f  %s\n",
			pose.Rank, pose.Score, pose.RMSD, pose.PoseRef)
	}
	return nil
}

func init() {
	dockCmd.Flags().Int("poses", 0, "number of poses to request (default from config)")

	rootCmd.AddCommand(dockCmd)
}
