package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"svcaudit/internal/fileproc"
	"svcaudit/internal/progress"
	"svcaudit/internal/scanner"
	"svcaudit/pkg/config"
	"svcaudit/pkg/extract"
	"svcaudit/pkg/source"
)

// getRoot returns the workspace root from the first positional arg,
// defaulting to the current directory.
func getRoot(c *cli.Context) (string, error) {
	root := "."
	if c.Args().Len() > 0 {
		root = c.Args().First()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid path %s: %w", root, err)
	}
	return abs, nil
}

// loadConfig loads the config named by --config, or searches the standard
// locations.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.LoadOrDefault(), nil
}

// scanFiles finds candidate service files under root.
func scanFiles(c *cli.Context, cfg *config.Config, root string) ([]string, error) {
	scan := scanner.NewScanner(cfg)
	if c.Bool("all-files") {
		scan = scan.WithAllFiles()
	}
	files, err := scan.ScanDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", root, err)
	}
	return files, nil
}

// extractServices reads and extracts every file in parallel, printing a
// progress bar. Extraction failures become warnings, not errors.
func extractServices(ctx context.Context, cfg *config.Config, root string, files []string) ([]*extract.ServiceInfo, []string) {
	extractor := extract.NewPatternExtractor(cfg, root)
	src := source.NewFilesystem()

	tracker := progress.NewTracker("Extracting services...", len(files))

	var mu sync.Mutex
	var warnings []string
	results := fileproc.ForEachFile(ctx, files, func(path string) (*extract.ServiceInfo, error) {
		content, err := src.Read(path)
		if err != nil {
			return nil, err
		}
		return extractor.ExtractFile(path, content)
	}, tracker.Tick, func(path string, err error) {
		mu.Lock()
		warnings = append(warnings, fmt.Sprintf("skipped %s: %v", path, err))
		mu.Unlock()
	})
	tracker.FinishSuccess()

	services := make([]*extract.ServiceInfo, 0, len(results))
	for _, svc := range results {
		if svc != nil {
			services = append(services, svc)
		}
	}
	sort.Slice(services, func(i, j int) bool {
		return services[i].Path < services[j].Path
	})
	sort.Strings(warnings)
	return services, warnings
}

// printWarnings lists extraction warnings when --verbose is set.
func printWarnings(c *cli.Context, warnings []string) {
	if !c.Bool("verbose") || len(warnings) == 0 {
		return
	}
	color.Yellow("Warnings (%d):", len(warnings))
	for _, w := range warnings {
		fmt.Printf("  - %s\n", w)
	}
}

// relPath shortens an absolute path for display.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
