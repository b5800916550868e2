package depgraph

// Node is one service file in the dependency graph, keyed by path.
type Node struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// Edge is a resolved import between two corpus services.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Kind     string `json:"kind"`
	Strength int    `json:"strength"`
}

// Cycle is a circular import chain. Members are listed in traversal order;
// the last member imports the first.
type Cycle struct {
	Members  []string `json:"members"`
	Severity string   `json:"severity"`
}

// UnusedInterface is an exported interface no other corpus service refers to.
type UnusedInterface struct {
	File string `json:"file"`
	Name string `json:"name"`
	Line int    `json:"line"`
}

// Metrics summarizes graph shape.
type Metrics struct {
	Density    float64 `json:"density"`
	Components int     `json:"components"`
	AvgDegree  float64 `json:"avg_degree"`
}

// Analysis is the dependency-graph result over a corpus.
type Analysis struct {
	Nodes            []Node            `json:"nodes"`
	Edges            []Edge            `json:"edges"`
	Cycles           []Cycle           `json:"cycles"`
	Orphans          []string          `json:"orphans"`
	UnusedInterfaces []UnusedInterface `json:"unused_interfaces"`
	Metrics          Metrics           `json:"metrics"`
}
