package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"svcaudit/internal/output"
	"svcaudit/pkg/analyzer/cluster"
	"svcaudit/pkg/analyzer/similarity"
)

func clustersCmd() *cli.Command {
	return &cli.Command{
		Name:      "clusters",
		Aliases:   []string{"consolidate"},
		Usage:     "Group similar services and suggest consolidations",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "link-threshold",
				Value: 0,
				Usage: "Similarity link threshold (0.0-1.0, default from config)",
			},
		},
		Action: runClustersCmd,
	}
}

func runClustersCmd(c *cli.Context) error {
	root, err := getRoot(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	linkThreshold := cfg.Thresholds.ClusterLink
	if t := c.Float64("link-threshold"); t > 0 {
		linkThreshold = t
	}

	files, err := scanFiles(c, cfg, root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No service files found")
		return nil
	}

	services, warnings := extractServices(c.Context, cfg, root, files)

	sim, err := similarity.New(
		similarity.WithThreshold(cfg.Thresholds.DuplicateService),
	).Analyze(c.Context, services)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	analysis, err := cluster.New(cluster.WithLinkThreshold(linkThreshold)).Analyze(c.Context, services, sim)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if len(analysis.Clusters) == 0 {
		if formatter.Format() == output.FormatText {
			color.Green("No consolidation clusters above %.0f%% link similarity", linkThreshold*100)
		}
		return formatter.Output(analysis)
	}

	var rows [][]string
	for _, cl := range analysis.Clusters {
		potStr := fmt.Sprintf("%.2f", cl.Potential)
		if cl.Potential > 0.8 {
			potStr = color.RedString(potStr)
		} else if cl.Potential > 0.5 {
			potStr = color.YellowString(potStr)
		}

		members := make([]string, len(cl.Paths))
		for i, p := range cl.Paths {
			members[i] = relPath(root, p)
		}

		rows = append(rows, []string{
			fmt.Sprintf("%d", cl.ID),
			cl.Kind,
			fmt.Sprintf("%d", len(cl.Paths)),
			fmt.Sprintf("%.0f%%", cl.AvgScore*100),
			potStr,
			truncate(strings.Join(members, ", "), 70),
		})
	}

	table := output.NewTable(
		"Consolidation Clusters",
		[]string{"ID", "Kind", "Services", "Avg Similarity", "Potential", "Members"},
		rows,
		[]string{
			fmt.Sprintf("Clusters: %d", len(analysis.Clusters)),
			"", "", "", "",
			fmt.Sprintf("Recommendations: %d", len(analysis.Recommendations)),
		},
		analysis,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	if len(analysis.Recommendations) > 0 && formatter.Format() == output.FormatText {
		color.Cyan("Recommendations:")
		for _, rec := range analysis.Recommendations {
			fmt.Printf("  %s %s\n",
				output.SeverityColor(rec.Priority, fmt.Sprintf("[%s]", rec.Priority)),
				rec.Strategy)
		}
	}

	printWarnings(c, warnings)
	return nil
}
