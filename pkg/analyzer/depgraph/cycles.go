package depgraph

import (
	"sort"
	"strings"
)

const (
	colorWhite = iota
	colorGray
	colorBlack
)

// detectCycles runs a depth-first search with an explicit recursion stack.
// Hitting a gray node closes a cycle; the cycle is the stack suffix starting
// at that node. Cycles sharing the same member set are reported once.
func detectCycles(nodes []Node, edges []Edge) []Cycle {
	adjacency := make(map[string][]string)
	for _, e := range edges {
		adjacency[e.From] = append(adjacency[e.From], e.To)
	}
	for _, targets := range adjacency {
		sort.Strings(targets)
	}

	color := make(map[string]int, len(nodes))
	stack := make([]string, 0, len(nodes))
	cycles := make([]Cycle, 0)
	reported := make(map[string]bool)

	var visit func(path string)
	visit = func(path string) {
		color[path] = colorGray
		stack = append(stack, path)

		for _, next := range adjacency[path] {
			switch color[next] {
			case colorWhite:
				visit(next)
			case colorGray:
				start := 0
				for i, member := range stack {
					if member == next {
						start = i
						break
					}
				}
				members := append([]string(nil), stack[start:]...)
				key := cycleKey(members)
				if !reported[key] {
					reported[key] = true
					cycles = append(cycles, Cycle{
						Members:  members,
						Severity: cycleSeverity(len(members)),
					})
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[path] = colorBlack
	}

	for _, n := range nodes {
		if color[n.Path] == colorWhite {
			visit(n.Path)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		if len(cycles[i].Members) != len(cycles[j].Members) {
			return len(cycles[i].Members) > len(cycles[j].Members)
		}
		return cycles[i].Members[0] < cycles[j].Members[0]
	})
	return cycles
}

// cycleKey identifies a cycle by its member set, independent of which node
// the traversal entered first.
func cycleKey(members []string) string {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

// cycleSeverity rates a cycle by its edge count. A cycle of n members has n
// edges.
func cycleSeverity(edges int) string {
	if edges > 3 {
		return "high"
	}
	return "medium"
}
