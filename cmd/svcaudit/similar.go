package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"svcaudit/internal/output"
	"svcaudit/pkg/analyzer/similarity"
)

func similarCmd() *cli.Command {
	return &cli.Command{
		Name:      "similar",
		Aliases:   []string{"sim", "dupes"},
		Usage:     "Find near-duplicate service pairs",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "threshold",
				Value: 0,
				Usage: "Similarity threshold (0.0-1.0, default from config)",
			},
		},
		Action: runSimilarCmd,
	}
}

func runSimilarCmd(c *cli.Context) error {
	root, err := getRoot(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	threshold := cfg.Thresholds.DuplicateService
	if t := c.Float64("threshold"); t > 0 {
		threshold = t
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

	analysis, err := similarity.New(similarity.WithThreshold(threshold)).Analyze(c.Context, services)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if len(analysis.Pairs) == 0 {
		if formatter.Format() == output.FormatText {
			color.Green("No service pairs above %.0f%% similarity", threshold*100)
		}
		return formatter.Output(analysis)
	}

	var rows [][]string
	for _, pair := range analysis.Pairs {
		scoreStr := fmt.Sprintf("%.0f%%", pair.Score*100)
		if pair.Score >= 0.95 {
			scoreStr = color.RedString(scoreStr)
		} else if pair.Score >= 0.85 {
			scoreStr = color.YellowString(scoreStr)
		}

		rows = append(rows, []string{
			relPath(root, pair.PathA),
			relPath(root, pair.PathB),
			scoreStr,
			fmt.Sprintf("%d", pair.SavedLines),
			output.SeverityColor(pair.Risk, pair.Risk),
		})
	}

	table := output.NewTable(
		"Duplicate Service Candidates",
		[]string{"Service A", "Service B", "Similarity", "Saved Lines", "Risk"},
		rows,
		[]string{
			fmt.Sprintf("Pairs: %d", len(analysis.Pairs)),
			fmt.Sprintf("Compared: %d", analysis.TotalPairs),
			"", "", "",
		},
		analysis,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	printWarnings(c, warnings)
	return nil
}
