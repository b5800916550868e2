package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"svcaudit/internal/output"
	"svcaudit/pkg/analyzer/duplication"
)

func duplicatesCmd() *cli.Command {
	return &cli.Command{
		Name:      "duplicates",
		Aliases:   []string{"dup", "blocks"},
		Usage:     "Detect copied method bodies across services",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "min-block-size",
				Value: 0,
				Usage: "Minimum block length in characters (default from config)",
			},
		},
		Action: runDuplicatesCmd,
	}
}

func runDuplicatesCmd(c *cli.Context) error {
	root, err := getRoot(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	minBlock := cfg.Thresholds.MinBlockSize
	if v := c.Int("min-block-size"); v > 0 {
		minBlock = v
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

	analysis, err := duplication.New(duplication.WithMinBlockSize(minBlock)).Analyze(c.Context, services)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if len(analysis.Groups) == 0 {
		if formatter.Format() == output.FormatText {
			color.Green("No duplicated blocks above %d characters", minBlock)
		}
		return formatter.Output(analysis)
	}

	var rows [][]string
	for _, group := range analysis.Groups {
		kindStr := string(group.Kind)
		if group.Kind == duplication.KindExact {
			kindStr = color.RedString(kindStr)
		} else {
			kindStr = color.YellowString(kindStr)
		}

		first := group.Occurrences[0]
		rows = append(rows, []string{
			fmt.Sprintf("%s:%d-%d", relPath(root, first.File), first.StartLine, first.EndLine),
			first.Method,
			kindStr,
			fmt.Sprintf("%d", len(group.Occurrences)),
			fmt.Sprintf("%d", group.SavedLines),
		})
	}

	table := output.NewTable(
		"Duplicated Code Blocks",
		[]string{"First Occurrence", "Method", "Kind", "Copies", "Saved Lines"},
		rows,
		[]string{
			fmt.Sprintf("Groups: %d", analysis.TotalGroups),
			fmt.Sprintf("Blocks: %d", analysis.TotalBlocks),
			"", "",
			fmt.Sprintf("Total Saved: %d", analysis.TotalSavedLines),
		},
		analysis,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	printWarnings(c, warnings)
	return nil
}
