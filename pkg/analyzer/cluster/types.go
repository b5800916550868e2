package cluster

// Cluster is a group of services chained together by similarity links.
type Cluster struct {
	ID       int      `json:"id"`
	Paths    []string `json:"paths"`
	Kind     string   `json:"kind"`
	AvgScore float64  `json:"avg_score"`

	TotalLines    int `json:"total_lines"`
	AvgComplexity int `json:"avg_complexity"`

	// Potential scores how much the cluster would gain from consolidation.
	Potential float64 `json:"potential"`
}

// Recommendation is a consolidation suggestion for one cluster.
type Recommendation struct {
	ClusterID int      `json:"cluster_id"`
	Paths     []string `json:"paths"`
	Priority  string   `json:"priority"`
	Strategy  string   `json:"strategy"`
	Potential float64  `json:"potential"`
}

// Analysis is the clustering result over a corpus.
type Analysis struct {
	Clusters        []Cluster        `json:"clusters"`
	Recommendations []Recommendation `json:"recommendations"`
	LinkThreshold   float64          `json:"link_threshold"`
}
