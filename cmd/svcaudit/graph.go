package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"svcaudit/internal/output"
	"svcaudit/pkg/analyzer/depgraph"
)

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Aliases:   []string{"deps"},
		Usage:     "Build the service import graph (Mermaid output)",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Include density and degree metrics",
			},
		},
		Action: runGraphCmd,
	}
}

func runGraphCmd(c *cli.Context) error {
	root, err := getRoot(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
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

	analysis, err := depgraph.New(
		depgraph.WithEntryPoints(cfg.Graph.EntrySuffixes, cfg.Graph.EntryFilenames),
	).Analyze(c.Context, services)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() == output.FormatJSON {
		return formatter.Output(analysis)
	}

	w := formatter.Writer()
	fmt.Fprintln(w, "```mermaid")
	fmt.Fprintln(w, "graph TD")
	for _, node := range analysis.Nodes {
		fmt.Fprintf(w, "    %s[%s]\n", sanitizeID(relPath(root, node.Path)), node.Name)
	}
	for _, edge := range analysis.Edges {
		fmt.Fprintf(w, "    %s --> %s\n",
			sanitizeID(relPath(root, edge.From)), sanitizeID(relPath(root, edge.To)))
	}
	fmt.Fprintln(w, "```")

	if len(analysis.Cycles) > 0 {
		fmt.Fprintln(w)
		color.Red("Circular dependencies (%d):", len(analysis.Cycles))
		for _, cycle := range analysis.Cycles {
			members := make([]string, len(cycle.Members))
			for i, m := range cycle.Members {
				members[i] = relPath(root, m)
			}
			fmt.Fprintf(w, "  %s %s\n",
				output.SeverityColor(cycle.Severity, fmt.Sprintf("[%s]", cycle.Severity)),
				strings.Join(members, " -> "))
		}
	}

	if len(analysis.Orphans) > 0 {
		fmt.Fprintln(w)
		color.Yellow("Orphan services (%d):", len(analysis.Orphans))
		for _, o := range analysis.Orphans {
			fmt.Fprintf(w, "  - %s\n", relPath(root, o))
		}
	}

	if len(analysis.UnusedInterfaces) > 0 {
		fmt.Fprintln(w)
		color.Yellow("Unused interfaces (%d):", len(analysis.UnusedInterfaces))
		for _, u := range analysis.UnusedInterfaces {
			fmt.Fprintf(w, "  - %s (%s:%d)\n", u.Name, relPath(root, u.File), u.Line)
		}
	}

	if c.Bool("metrics") {
		fmt.Fprintln(w)
		if formatter.Colored() {
			color.Cyan("Graph metrics:")
		} else {
			fmt.Fprintln(w, "Graph metrics:")
		}
		fmt.Fprintf(w, "  Nodes: %d\n", len(analysis.Nodes))
		fmt.Fprintf(w, "  Edges: %d\n", len(analysis.Edges))
		fmt.Fprintf(w, "  Density: %.4f\n", analysis.Metrics.Density)
		fmt.Fprintf(w, "  Components: %d\n", analysis.Metrics.Components)
		fmt.Fprintf(w, "  Avg Degree: %.2f\n", analysis.Metrics.AvgDegree)
	}

	printWarnings(c, warnings)
	return nil
}

// sanitizeID replaces non-alphanumeric characters for Mermaid diagram IDs.
func sanitizeID(id string) string {
	var result strings.Builder
	for _, ch := range id {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_' {
			result.WriteRune(ch)
		} else {
			result.WriteRune('_')
		}
	}
	return result.String()
}
