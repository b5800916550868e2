// Package depgraph builds the import graph between corpus services and
// reports cycles, orphan services, and unused interfaces.
package depgraph

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"svcaudit/pkg/analyzer"
	"svcaudit/pkg/config"
	"svcaudit/pkg/extract"
)

// Resolver maps an import specifier found in one service to the path of
// another corpus service, when the specifier refers to one. Specifiers that
// point outside the corpus (framework packages, node_modules) resolve to
// nothing.
type Resolver interface {
	Resolve(specifier string, candidates []*extract.ServiceInfo) (string, bool)
}

// NameHeuristicResolver matches specifiers by name rather than by walking the
// filesystem: the specifier's last segment must equal a candidate's basename
// with the extension stripped, or the candidate's path must contain the
// specifier's relative form.
type NameHeuristicResolver struct{}

// Resolve implements Resolver.
func (NameHeuristicResolver) Resolve(specifier string, candidates []*extract.ServiceInfo) (string, bool) {
	trimmed := strings.TrimLeft(specifier, "./")
	segments := strings.Split(trimmed, "/")
	last := segments[len(segments)-1]

	for _, c := range candidates {
		base := filepath.Base(c.Path)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		if base == last {
			return c.Path, true
		}
		if trimmed != "" && strings.Contains(filepath.ToSlash(c.Path), trimmed) {
			return c.Path, true
		}
	}
	return "", false
}

// Builder assembles the dependency graph for a corpus.
type Builder struct {
	resolver       Resolver
	entrySuffixes  []string
	entryFilenames []string
}

var _ analyzer.CorpusAnalyzer[*Analysis] = (*Builder)(nil)

// Option is a functional option for configuring Builder.
type Option func(*Builder)

// WithResolver overrides the import resolver.
func WithResolver(r Resolver) Option {
	return func(b *Builder) {
		b.resolver = r
	}
}

// WithEntryPoints sets the class-name suffixes and basenames that mark a
// service as an entry point, exempting it from orphan reporting.
func WithEntryPoints(suffixes, filenames []string) Option {
	return func(b *Builder) {
		b.entrySuffixes = suffixes
		b.entryFilenames = filenames
	}
}

// New creates a graph builder with the default resolver and entry-point
// conventions.
func New(opts ...Option) *Builder {
	cfg := config.DefaultConfig()
	b := &Builder{
		resolver:       NameHeuristicResolver{},
		entrySuffixes:  cfg.Graph.EntrySuffixes,
		entryFilenames: cfg.Graph.EntryFilenames,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Analyze builds nodes and resolved import edges, then derives cycles,
// orphans, unused interfaces, and summary metrics.
func (b *Builder) Analyze(ctx context.Context, services []*extract.ServiceInfo) (*Analysis, error) {
	analysis := &Analysis{
		Nodes:            make([]Node, 0, len(services)),
		Edges:            make([]Edge, 0),
		Cycles:           make([]Cycle, 0),
		Orphans:          make([]string, 0),
		UnusedInterfaces: make([]UnusedInterface, 0),
	}

	for _, svc := range services {
		analysis.Nodes = append(analysis.Nodes, Node{Path: svc.Path, Name: svc.Name})
	}
	sort.Slice(analysis.Nodes, func(i, j int) bool {
		return analysis.Nodes[i].Path < analysis.Nodes[j].Path
	})

	seen := make(map[[2]string]bool)
	inDegree := make(map[string]int)
	for _, svc := range services {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, spec := range svc.Imports {
			target, ok := b.resolver.Resolve(spec, services)
			if !ok || target == svc.Path {
				continue
			}
			key := [2]string{svc.Path, target}
			if seen[key] {
				continue
			}
			seen[key] = true
			analysis.Edges = append(analysis.Edges, Edge{
				From:     svc.Path,
				To:       target,
				Kind:     "import",
				Strength: 1,
			})
			inDegree[target]++
		}
	}
	sort.Slice(analysis.Edges, func(i, j int) bool {
		if analysis.Edges[i].From != analysis.Edges[j].From {
			return analysis.Edges[i].From < analysis.Edges[j].From
		}
		return analysis.Edges[i].To < analysis.Edges[j].To
	})

	analysis.Cycles = detectCycles(analysis.Nodes, analysis.Edges)
	analysis.Orphans = b.findOrphans(services, inDegree)
	analysis.UnusedInterfaces = findUnusedInterfaces(services)
	analysis.Metrics = computeMetrics(analysis.Nodes, analysis.Edges)

	return analysis, nil
}

// findOrphans reports services nothing imports, excluding recognized entry
// points (controllers, modules, and conventional entry filenames).
func (b *Builder) findOrphans(services []*extract.ServiceInfo, inDegree map[string]int) []string {
	orphans := make([]string, 0)
	for _, svc := range services {
		if inDegree[svc.Path] > 0 {
			continue
		}
		if b.isEntryPoint(svc) {
			continue
		}
		orphans = append(orphans, svc.Path)
	}
	sort.Strings(orphans)
	return orphans
}

func (b *Builder) isEntryPoint(svc *extract.ServiceInfo) bool {
	for _, suffix := range b.entrySuffixes {
		if strings.HasSuffix(svc.Name, suffix) {
			return true
		}
	}
	base := filepath.Base(svc.Path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	// Entry files often carry a role suffix, e.g. main.ts or app.module.ts.
	first := strings.SplitN(base, ".", 2)[0]
	for _, name := range b.entryFilenames {
		if base == name || first == name {
			return true
		}
	}
	return false
}

// findUnusedInterfaces reports exported interfaces whose names never appear
// in another service's parameter or return types. Type references are matched
// by substring, so Promise<User> counts as a use of User.
func findUnusedInterfaces(services []*extract.ServiceInfo) []UnusedInterface {
	unused := make([]UnusedInterface, 0)
	for _, svc := range services {
		for _, iface := range svc.Interfaces {
			if interfaceUsed(iface.Name, svc.Path, services) {
				continue
			}
			unused = append(unused, UnusedInterface{
				File: svc.Path,
				Name: iface.Name,
				Line: iface.Line,
			})
		}
	}
	sort.Slice(unused, func(i, j int) bool {
		if unused[i].File != unused[j].File {
			return unused[i].File < unused[j].File
		}
		return unused[i].Name < unused[j].Name
	})
	return unused
}

func interfaceUsed(name, declaringPath string, services []*extract.ServiceInfo) bool {
	for _, other := range services {
		if other.Path == declaringPath {
			continue
		}
		for _, m := range other.Methods {
			if strings.Contains(m.ReturnType, name) {
				return true
			}
			for _, p := range m.Params {
				if strings.Contains(p.Type, name) {
					return true
				}
			}
		}
	}
	return false
}
