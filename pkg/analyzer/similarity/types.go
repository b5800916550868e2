package similarity

// Result holds the overall similarity score for a service pair plus the four
// sub-scores it was derived from. Results are computed on demand and never
// persisted independently of a comparison request.
type Result struct {
	PathA string `json:"path_a"`
	PathB string `json:"path_b"`

	Score           float64 `json:"score"`
	MethodOverlap   float64 `json:"method_overlap"`
	StructuralMatch float64 `json:"structural_match"`
	ImportOverlap   float64 `json:"import_overlap"`
	InterfaceMatch  float64 `json:"interface_match"`

	SharedMethods    []string `json:"shared_methods,omitempty"`
	SharedImports    []string `json:"shared_imports,omitempty"`
	SharedInterfaces []string `json:"shared_interfaces,omitempty"`
}

// Pair is a duplicate-service candidate: a pair whose overall score exceeded
// the duplicate threshold.
type Pair struct {
	PathA string  `json:"path_a"`
	PathB string  `json:"path_b"`
	NameA string  `json:"name_a"`
	NameB string  `json:"name_b"`
	Score float64 `json:"score"`

	// Savings estimates what consolidating the pair would eliminate.
	SavedLines      int `json:"saved_lines"`
	SavedFiles      int `json:"saved_files"`
	SavedComplexity int `json:"saved_complexity"`

	// Risk is a qualitative migration-risk tag: low, medium, or high.
	Risk string `json:"risk"`
}

// Analysis is the full pairwise similarity result over a corpus.
type Analysis struct {
	Pairs      []Pair      `json:"pairs"`
	Matrix     [][]float64 `json:"-"`
	Paths      []string    `json:"paths"`
	Threshold  float64     `json:"threshold"`
	TotalPairs int         `json:"total_pairs"`
}
