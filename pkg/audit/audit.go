// Package audit orchestrates the full redundancy audit: scan, extract,
// similarity, duplication, dependency graph, clustering, and report assembly.
package audit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"svcaudit/internal/fileproc"
	"svcaudit/internal/progress"
	"svcaudit/internal/scanner"
	"svcaudit/pkg/analyzer/cluster"
	"svcaudit/pkg/analyzer/depgraph"
	"svcaudit/pkg/analyzer/duplication"
	"svcaudit/pkg/analyzer/similarity"
	"svcaudit/pkg/config"
	"svcaudit/pkg/extract"
	"svcaudit/pkg/report"
	"svcaudit/pkg/source"
)

// Auditor runs the analysis pipeline over a workspace root.
type Auditor struct {
	cfg          *config.Config
	src          source.ContentSource
	extractor    extract.Extractor
	showProgress bool
}

// Option is a functional option for configuring Auditor.
type Option func(*Auditor)

// WithSource overrides where file content is read from.
func WithSource(src source.ContentSource) Option {
	return func(a *Auditor) {
		a.src = src
	}
}

// WithExtractor overrides the service model extractor.
func WithExtractor(e extract.Extractor) Option {
	return func(a *Auditor) {
		a.extractor = e
	}
}

// WithProgress enables progress bars on stderr.
func WithProgress(show bool) Option {
	return func(a *Auditor) {
		a.showProgress = show
	}
}

// New creates an auditor. A nil config falls back to defaults.
func New(cfg *config.Config, opts ...Option) *Auditor {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &Auditor{
		cfg: cfg,
		src: source.NewFilesystem(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes the full pipeline. Per-file failures become warnings on the
// result; only a cancelled context fails the run. A panic anywhere in the
// pipeline is converted into a well-formed empty result carrying the panic
// as a warning.
func (a *Auditor) Run(ctx context.Context, root string) (result *report.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = report.Assemble(root, 0, 0, nil, nil, nil, nil,
				[]string{fmt.Sprintf("audit aborted: %v", r)})
			err = nil
		}
	}()

	var spin *progress.Tracker
	if a.showProgress {
		spin = progress.NewSpinner("Scanning source files...")
	}
	files, err := scanner.NewScanner(a.cfg).ScanDir(root)
	if spin != nil {
		if err != nil {
			spin.FinishError(err)
		} else {
			spin.FinishSuccess()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	services, warnings := a.extractAll(ctx, root, files)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sim, err := similarity.New(
		similarity.WithThreshold(a.cfg.Thresholds.DuplicateService),
	).Analyze(ctx, services)
	if err != nil {
		return nil, err
	}

	dup, err := duplication.New(
		duplication.WithMinBlockSize(a.cfg.Thresholds.MinBlockSize),
	).Analyze(ctx, services)
	if err != nil {
		return nil, err
	}

	graph, err := depgraph.New(
		depgraph.WithEntryPoints(a.cfg.Graph.EntrySuffixes, a.cfg.Graph.EntryFilenames),
	).Analyze(ctx, services)
	if err != nil {
		return nil, err
	}

	clusters, err := cluster.New(
		cluster.WithLinkThreshold(a.cfg.Thresholds.ClusterLink),
	).Analyze(ctx, services, sim)
	if err != nil {
		return nil, err
	}

	return report.Assemble(root, len(files), len(services), sim, dup, graph, clusters, warnings), nil
}

// Write persists the result under the configured report directory and returns
// the JSON and Markdown paths.
func (a *Auditor) Write(result *report.Result) (string, string, error) {
	return report.NewWriter(a.cfg.Report.Dir).Write(result)
}

// extractAll reads and extracts every scanned file in parallel. Files that
// fail to read or extract are reported as warnings; files without a service
// class are silently skipped.
func (a *Auditor) extractAll(ctx context.Context, root string, files []string) ([]*extract.ServiceInfo, []string) {
	extractor := a.extractor
	if extractor == nil {
		extractor = extract.NewPatternExtractor(a.cfg, root)
	}

	var tracker *progress.Tracker
	var onProgress fileproc.ProgressFunc
	if a.showProgress {
		tracker = progress.NewTracker("Extracting services", len(files))
		onProgress = tracker.Tick
	}

	var mu sync.Mutex
	var warnings []string
	onError := func(path string, err error) {
		mu.Lock()
		warnings = append(warnings, fmt.Sprintf("skipped %s: %v", path, err))
		mu.Unlock()
	}

	results := fileproc.ForEachFile(ctx, files, func(path string) (*extract.ServiceInfo, error) {
		content, err := a.src.Read(path)
		if err != nil {
			return nil, err
		}
		return extractor.ExtractFile(path, content)
	}, onProgress, onError)

	if tracker != nil {
		tracker.FinishSuccess()
	}

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
