// Package report assembles analyzer outputs into a single audit result and
// renders it to JSON and Markdown artifacts.
package report

import (
	"sort"
	"time"

	"svcaudit/pkg/analyzer/cluster"
	"svcaudit/pkg/analyzer/depgraph"
	"svcaudit/pkg/analyzer/duplication"
	"svcaudit/pkg/analyzer/similarity"
	"svcaudit/pkg/stats"
)

// Summary is the headline counters of one audit run.
type Summary struct {
	FilesScanned      int `json:"files_scanned"`
	ServicesAnalyzed  int `json:"services_analyzed"`
	DuplicatePairs    int `json:"duplicate_pairs"`
	DuplicationGroups int `json:"duplication_groups"`
	Cycles            int `json:"cycles"`
	Orphans           int `json:"orphans"`
	UnusedInterfaces  int `json:"unused_interfaces"`
	Clusters          int `json:"clusters"`
	Recommendations   int `json:"recommendations"`

	// EstimatedSavedLines totals the pairwise and block-level savings.
	EstimatedSavedLines int `json:"estimated_saved_lines"`

	SimilarityP50 float64 `json:"similarity_p50"`
	SimilarityP95 float64 `json:"similarity_p95"`
}

// Result is the complete audit output.
type Result struct {
	GeneratedAt time.Time `json:"generated_at"`
	Root        string    `json:"root"`
	Summary     Summary   `json:"summary"`

	Similarity  *similarity.Analysis  `json:"similarity"`
	Duplication *duplication.Analysis `json:"duplication"`
	Graph       *depgraph.Analysis    `json:"graph"`
	Clusters    *cluster.Analysis     `json:"clusters"`

	// Warnings collects per-file extraction failures. They never fail the
	// run; they are carried so the report shows what was skipped.
	Warnings []string `json:"warnings,omitempty"`
}

// Assemble builds the final result from the individual analyses.
func Assemble(root string, filesScanned, servicesAnalyzed int,
	sim *similarity.Analysis, dup *duplication.Analysis,
	graph *depgraph.Analysis, clusters *cluster.Analysis,
	warnings []string) *Result {

	r := &Result{
		GeneratedAt: time.Now().UTC(),
		Root:        root,
		Similarity:  sim,
		Duplication: dup,
		Graph:       graph,
		Clusters:    clusters,
		Warnings:    warnings,
	}

	r.Summary = Summary{
		FilesScanned:     filesScanned,
		ServicesAnalyzed: servicesAnalyzed,
	}
	if sim != nil {
		r.Summary.DuplicatePairs = len(sim.Pairs)
		for _, p := range sim.Pairs {
			r.Summary.EstimatedSavedLines += p.SavedLines
		}
		r.Summary.SimilarityP50, r.Summary.SimilarityP95 = scorePercentiles(sim)
	}
	if dup != nil {
		r.Summary.DuplicationGroups = dup.TotalGroups
		r.Summary.EstimatedSavedLines += dup.TotalSavedLines
	}
	if graph != nil {
		r.Summary.Cycles = len(graph.Cycles)
		r.Summary.Orphans = len(graph.Orphans)
		r.Summary.UnusedInterfaces = len(graph.UnusedInterfaces)
	}
	if clusters != nil {
		r.Summary.Clusters = len(clusters.Clusters)
		r.Summary.Recommendations = len(clusters.Recommendations)
	}

	return r
}

// scorePercentiles computes P50 and P95 over the off-diagonal similarity
// scores.
func scorePercentiles(sim *similarity.Analysis) (p50, p95 float64) {
	var scores []float64
	for i := range sim.Matrix {
		for j := i + 1; j < len(sim.Matrix[i]); j++ {
			scores = append(scores, sim.Matrix[i][j])
		}
	}
	sort.Float64s(scores)
	return stats.Percentile(scores, 50), stats.Percentile(scores, 95)
}
