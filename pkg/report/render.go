package report

import (
	"fmt"
	"strings"
)

// Markdown renders the result as a human-readable report.
func Markdown(r *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Service Redundancy Audit\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if r.Root != "" {
		fmt.Fprintf(&b, "Root: `%s`\n\n", r.Root)
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	s := r.Summary
	fmt.Fprintf(&b, "| Files scanned | %d |\n", s.FilesScanned)
	fmt.Fprintf(&b, "| Services analyzed | %d |\n", s.ServicesAnalyzed)
	fmt.Fprintf(&b, "| Duplicate service pairs | %d |\n", s.DuplicatePairs)
	fmt.Fprintf(&b, "| Duplicated code groups | %d |\n", s.DuplicationGroups)
	fmt.Fprintf(&b, "| Circular dependencies | %d |\n", s.Cycles)
	fmt.Fprintf(&b, "| Orphan services | %d |\n", s.Orphans)
	fmt.Fprintf(&b, "| Unused interfaces | %d |\n", s.UnusedInterfaces)
	fmt.Fprintf(&b, "| Consolidation clusters | %d |\n", s.Clusters)
	fmt.Fprintf(&b, "| Estimated line reduction | %d |\n", s.EstimatedSavedLines)
	fmt.Fprintf(&b, "| Similarity P50 / P95 | %.2f / %.2f |\n\n", s.SimilarityP50, s.SimilarityP95)

	if r.Similarity != nil && len(r.Similarity.Pairs) > 0 {
		b.WriteString("## Duplicate Service Candidates\n\n")
		b.WriteString("| Score | Service A | Service B | Saved Lines | Risk |\n|---|---|---|---|---|\n")
		for _, p := range r.Similarity.Pairs {
			fmt.Fprintf(&b, "| %.2f | `%s` | `%s` | %d | %s |\n",
				p.Score, p.PathA, p.PathB, p.SavedLines, p.Risk)
		}
		b.WriteString("\n")
	}

	if r.Duplication != nil && len(r.Duplication.Groups) > 0 {
		b.WriteString("## Duplicated Code Blocks\n\n")
		for _, g := range r.Duplication.Groups {
			fmt.Fprintf(&b, "- **%s**, %d occurrences, ~%d lines saved\n",
				g.Kind, len(g.Occurrences), g.SavedLines)
			for _, occ := range g.Occurrences {
				fmt.Fprintf(&b, "  - `%s` %s (lines %d-%d)\n",
					occ.File, occ.Method, occ.StartLine, occ.EndLine)
			}
		}
		b.WriteString("\n")
	}

	if r.Graph != nil {
		if len(r.Graph.Cycles) > 0 {
			b.WriteString("## Circular Dependencies\n\n")
			for _, c := range r.Graph.Cycles {
				fmt.Fprintf(&b, "- [%s] %s\n", c.Severity, strings.Join(c.Members, " -> "))
			}
			b.WriteString("\n")
		}
		if len(r.Graph.Orphans) > 0 {
			b.WriteString("## Orphan Services\n\n")
			for _, o := range r.Graph.Orphans {
				fmt.Fprintf(&b, "- `%s`\n", o)
			}
			b.WriteString("\n")
		}
		if len(r.Graph.UnusedInterfaces) > 0 {
			b.WriteString("## Unused Interfaces\n\n")
			for _, u := range r.Graph.UnusedInterfaces {
				fmt.Fprintf(&b, "- `%s` in `%s:%d`\n", u.Name, u.File, u.Line)
			}
			b.WriteString("\n")
		}
	}

	if r.Clusters != nil && len(r.Clusters.Recommendations) > 0 {
		b.WriteString("## Consolidation Recommendations\n\n")
		for _, rec := range r.Clusters.Recommendations {
			fmt.Fprintf(&b, "- **[%s]** (potential %.2f) %s\n", rec.Priority, rec.Potential, rec.Strategy)
			for _, p := range rec.Paths {
				fmt.Fprintf(&b, "  - `%s`\n", p)
			}
		}
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	return b.String()
}
