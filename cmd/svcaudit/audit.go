package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"svcaudit/internal/output"
	"svcaudit/pkg/audit"
)

func auditCmd() *cli.Command {
	return &cli.Command{
		Name:      "audit",
		Aliases:   []string{"run"},
		Usage:     "Run the full redundancy audit and write a report",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "report-dir",
				Usage: "Directory for report artifacts (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "no-save",
				Usage: "Skip writing report files",
			},
		},
		Action: runAuditCmd,
	}
}

func runAuditCmd(c *cli.Context) error {
	root, err := getRoot(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if dir := c.String("report-dir"); dir != "" {
		cfg.Report.Dir = dir
	}

	auditor := audit.New(cfg, audit.WithProgress(true))
	result, err := auditor.Run(c.Context, root)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	if !c.Bool("no-save") {
		jsonPath, mdPath, err := auditor.Write(result)
		if err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		color.Green("Report written to %s and %s", jsonPath, mdPath)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() != output.FormatText {
		return formatter.Output(result)
	}

	s := result.Summary
	table := output.NewTable(
		"Redundancy Audit Summary",
		[]string{"Metric", "Value"},
		[][]string{
			{"Files scanned", fmt.Sprintf("%d", s.FilesScanned)},
			{"Services analyzed", fmt.Sprintf("%d", s.ServicesAnalyzed)},
			{"Duplicate service pairs", fmt.Sprintf("%d", s.DuplicatePairs)},
			{"Duplicated code groups", fmt.Sprintf("%d", s.DuplicationGroups)},
			{"Circular dependencies", fmt.Sprintf("%d", s.Cycles)},
			{"Orphan services", fmt.Sprintf("%d", s.Orphans)},
			{"Unused interfaces", fmt.Sprintf("%d", s.UnusedInterfaces)},
			{"Consolidation clusters", fmt.Sprintf("%d", s.Clusters)},
			{"Estimated line reduction", fmt.Sprintf("%d", s.EstimatedSavedLines)},
		},
		nil,
		result,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	if result.Clusters != nil && len(result.Clusters.Recommendations) > 0 {
		color.Cyan("Top recommendations:")
		for i, rec := range result.Clusters.Recommendations {
			if i >= 5 {
				break
			}
			fmt.Printf("  %s %s\n",
				output.SeverityColor(rec.Priority, fmt.Sprintf("[%s]", rec.Priority)),
				truncate(rec.Strategy, 100))
		}
	}

	printWarnings(c, result.Warnings)
	return nil
}
