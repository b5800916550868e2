package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svcaudit/pkg/analyzer/cluster"
	"svcaudit/pkg/analyzer/depgraph"
	"svcaudit/pkg/analyzer/duplication"
	"svcaudit/pkg/analyzer/similarity"
)

func sampleResult() *Result {
	sim := &similarity.Analysis{
		Pairs: []similarity.Pair{
			{PathA: "a.ts", PathB: "b.ts", NameA: "A", NameB: "B", Score: 0.92, SavedLines: 120, SavedFiles: 1, Risk: "medium"},
		},
		Paths: []string{"a.ts", "b.ts", "c.ts"},
		Matrix: [][]float64{
			{1.0, 0.92, 0.1},
			{0.92, 1.0, 0.2},
			{0.1, 0.2, 1.0},
		},
		Threshold: 0.7,
	}
	dup := &duplication.Analysis{
		Groups: []duplication.Group{{
			Hash: 42,
			Kind: duplication.KindExact,
			Occurrences: []duplication.Occurrence{
				{File: "a.ts", Method: "save", StartLine: 1, EndLine: 5},
				{File: "b.ts", Method: "save", StartLine: 9, EndLine: 13},
			},
			BlockLines: 5,
			SavedLines: 5,
		}},
		TotalGroups:     1,
		TotalSavedLines: 5,
	}
	graph := &depgraph.Analysis{
		Cycles:           []depgraph.Cycle{{Members: []string{"a.ts", "b.ts"}, Severity: "medium"}},
		Orphans:          []string{"c.ts"},
		UnusedInterfaces: []depgraph.UnusedInterface{{File: "a.ts", Name: "Stale", Line: 4}},
	}
	clusters := &cluster.Analysis{
		Clusters: []cluster.Cluster{{ID: 0, Paths: []string{"a.ts", "b.ts"}, Kind: "service", Potential: 0.7}},
		Recommendations: []cluster.Recommendation{{
			ClusterID: 0, Paths: []string{"a.ts", "b.ts"},
			Priority: "medium", Strategy: "Consolidate 2 service files into a shared service package",
			Potential: 0.7,
		}},
	}
	return Assemble("/repo", 10, 3, sim, dup, graph, clusters, []string{"skipped d.ts: parse failure"})
}

func TestAssemble_Summary(t *testing.T) {
	r := sampleResult()

	assert.Equal(t, 10, r.Summary.FilesScanned)
	assert.Equal(t, 3, r.Summary.ServicesAnalyzed)
	assert.Equal(t, 1, r.Summary.DuplicatePairs)
	assert.Equal(t, 1, r.Summary.DuplicationGroups)
	assert.Equal(t, 1, r.Summary.Cycles)
	assert.Equal(t, 1, r.Summary.Orphans)
	assert.Equal(t, 1, r.Summary.UnusedInterfaces)
	assert.Equal(t, 1, r.Summary.Clusters)
	assert.Equal(t, 1, r.Summary.Recommendations)
	assert.Equal(t, 125, r.Summary.EstimatedSavedLines, "pair savings plus block savings")

	// Off-diagonal scores sorted: 0.1, 0.2, 0.92.
	assert.InDelta(t, 0.2, r.Summary.SimilarityP50, 1e-9)
	assert.InDelta(t, 0.92, r.Summary.SimilarityP95, 1e-9)
}

func TestAssemble_NilAnalyses(t *testing.T) {
	r := Assemble("/repo", 0, 0, nil, nil, nil, nil, nil)
	assert.Equal(t, Summary{}, r.Summary)
}

func TestMarkdown_Sections(t *testing.T) {
	md := Markdown(sampleResult())

	for _, want := range []string{
		"# Service Redundancy Audit",
		"## Summary",
		"## Duplicate Service Candidates",
		"## Duplicated Code Blocks",
		"## Circular Dependencies",
		"## Orphan Services",
		"## Unused Interfaces",
		"## Consolidation Recommendations",
		"## Warnings",
		"a.ts -> b.ts",
		"EXACT_MATCH",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	r := sampleResult()

	jsonPath, mdPath, err := NewWriter(dir).Write(r)
	require.NoError(t, err)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r.Summary, decoded.Summary)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Service Redundancy Audit")

	assert.True(t, strings.HasPrefix(filepath.Base(jsonPath), "audit-"))
	assert.True(t, strings.HasSuffix(mdPath, ".md"))
}
