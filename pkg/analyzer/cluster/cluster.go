// Package cluster chains similar services into consolidation groups and
// scores each group's consolidation potential.
package cluster

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"svcaudit/pkg/analyzer/similarity"
	"svcaudit/pkg/config"
	"svcaudit/pkg/extract"
	"svcaudit/pkg/stats"
)

// Weights and saturation limits for consolidation potential. Line count
// saturates at 2000 lines, complexity at 50.
const (
	potentialWeightSim        = 0.5
	potentialWeightLines      = 0.3
	potentialWeightComplexity = 0.2

	linesSaturation      = 2000.0
	complexitySaturation = 50.0
)

// Engine groups services by similarity links.
type Engine struct {
	linkThreshold   float64
	recommendMin    float64
	highPriorityMin float64
}

// Option is a functional option for configuring Engine.
type Option func(*Engine)

// WithLinkThreshold sets the similarity score above which two services are
// chained into the same cluster.
func WithLinkThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.linkThreshold = threshold
	}
}

// New creates a cluster engine with thresholds from the default config.
func New(opts ...Option) *Engine {
	cfg := config.DefaultConfig()
	e := &Engine{
		linkThreshold:   cfg.Thresholds.ClusterLink,
		recommendMin:    cfg.Thresholds.ConsolidationMin,
		highPriorityMin: cfg.Thresholds.ConsolidationHigh,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze partitions services into clusters with one-pass seed chaining over
// the pairwise similarity matrix: each unvisited service seeds a cluster and
// claims every remaining unvisited service it links to above the threshold.
// Membership therefore guarantees a link to the seed, not full pairwise
// closure, and a service never appears in two clusters. Singletons are
// discarded.
func (e *Engine) Analyze(ctx context.Context, services []*extract.ServiceInfo, sim *similarity.Analysis) (*Analysis, error) {
	analysis := &Analysis{
		Clusters:        make([]Cluster, 0),
		Recommendations: make([]Recommendation, 0),
		LinkThreshold:   e.linkThreshold,
	}

	byPath := make(map[string]*extract.ServiceInfo, len(services))
	for _, svc := range services {
		byPath[svc.Path] = svc
	}

	n := len(sim.Paths)
	visited := make([]bool, n)
	id := 0
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if visited[i] {
			continue
		}
		visited[i] = true
		members := []int{i}
		for j := i + 1; j < n; j++ {
			if !visited[j] && sim.Matrix[i][j] > e.linkThreshold {
				visited[j] = true
				members = append(members, j)
			}
		}
		if len(members) < 2 {
			continue
		}

		c := e.buildCluster(id, members, sim, byPath)
		analysis.Clusters = append(analysis.Clusters, c)
		if c.Potential > e.recommendMin {
			analysis.Recommendations = append(analysis.Recommendations, e.recommend(c))
		}
		id++
	}

	return analysis, nil
}

func (e *Engine) buildCluster(id int, idxs []int, sim *similarity.Analysis, byPath map[string]*extract.ServiceInfo) Cluster {
	paths := make([]string, 0, len(idxs))
	for _, i := range idxs {
		paths = append(paths, sim.Paths[i])
	}
	sort.Strings(paths)

	var scores []float64
	for a := 0; a < len(idxs); a++ {
		for b := a + 1; b < len(idxs); b++ {
			scores = append(scores, sim.Matrix[idxs[a]][idxs[b]])
		}
	}
	avgScore := stats.Mean(scores)

	totalLines := 0
	totalComplexity := 0
	kinds := make(map[string]int)
	for _, p := range paths {
		svc := byPath[p]
		if svc == nil {
			continue
		}
		totalLines += svc.Lines
		totalComplexity += svc.Complexity
		kinds[kindOf(svc.Name)]++
	}
	avgComplexity := totalComplexity / len(paths)

	potential := stats.Clamp01(potentialWeightSim*avgScore +
		potentialWeightLines*stats.NormalizeCapped(float64(totalLines), linesSaturation) +
		potentialWeightComplexity*stats.NormalizeCapped(float64(avgComplexity), complexitySaturation))

	return Cluster{
		ID:            id,
		Paths:         paths,
		Kind:          dominantKind(kinds),
		AvgScore:      avgScore,
		TotalLines:    totalLines,
		AvgComplexity: avgComplexity,
		Potential:     potential,
	}
}

func (e *Engine) recommend(c Cluster) Recommendation {
	priority := "medium"
	if c.Potential > e.highPriorityMin {
		priority = "high"
	}
	return Recommendation{
		ClusterID: c.ID,
		Paths:     c.Paths,
		Priority:  priority,
		Potential: c.Potential,
		Strategy: fmt.Sprintf(
			"Consolidate %d %s files into a shared %s package and re-export the merged implementation",
			len(c.Paths), c.Kind, c.Kind),
	}
}

// serviceKinds are the class-name suffixes used to categorize a service.
var serviceKinds = []string{
	"Service", "Controller", "Repository", "Manager", "Provider", "Helper", "Module",
}

func kindOf(name string) string {
	for _, k := range serviceKinds {
		if strings.HasSuffix(name, k) {
			return strings.ToLower(k)
		}
	}
	return "other"
}

// dominantKind picks the most common member kind, breaking ties
// alphabetically.
func dominantKind(kinds map[string]int) string {
	best, bestCount := "other", 0
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if kinds[k] > bestCount {
			best, bestCount = k, kinds[k]
		}
	}
	return best
}
