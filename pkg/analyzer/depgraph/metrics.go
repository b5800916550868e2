package depgraph

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// computeMetrics mirrors the node and edge lists into gonum graphs to derive
// density, weakly connected component count, and average degree.
func computeMetrics(nodes []Node, edges []Edge) Metrics {
	n := len(nodes)
	if n == 0 {
		return Metrics{}
	}

	ids := make(map[string]int64, n)
	directed := simple.NewDirectedGraph()
	undirected := simple.NewUndirectedGraph()
	for i, node := range nodes {
		ids[node.Path] = int64(i)
		directed.AddNode(simple.Node(int64(i)))
		undirected.AddNode(simple.Node(int64(i)))
	}

	for _, e := range edges {
		from, to := ids[e.From], ids[e.To]
		if from == to {
			continue
		}
		directed.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		undirected.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}

	m := Metrics{Components: len(topo.ConnectedComponents(undirected))}
	if n > 1 {
		m.Density = float64(len(edges)) / float64(n*(n-1))
	}
	m.AvgDegree = float64(2*len(edges)) / float64(n)
	return m
}
