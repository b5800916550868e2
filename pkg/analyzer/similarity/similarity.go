// Package similarity scores how alike two service models are, using weighted
// Jaccard overlaps over method names, signatures, imports, and interfaces.
package similarity

import (
	"context"
	"sort"
	"strings"

	"github.com/zeebo/blake3"

	"svcaudit/pkg/analyzer"
	"svcaudit/pkg/config"
	"svcaudit/pkg/extract"
	"svcaudit/pkg/stats"
)

// Weighting and equivalence constants. These are behavioral policy values
// carried over verbatim; changing them changes which services are reported
// as duplicates.
const (
	weightMethods    = 0.4
	weightStructural = 0.3
	weightImports    = 0.2
	weightInterfaces = 0.1

	sigWeightParams = 0.5
	sigWeightReturn = 0.3
	sigWeightAsync  = 0.2

	// signatureMatchMin is the signature score at which two same-named
	// methods count as structurally matching.
	signatureMatchMin = 0.8
)

// Engine computes pairwise service similarity.
type Engine struct {
	threshold float64
}

var _ analyzer.CorpusAnalyzer[*Analysis] = (*Engine)(nil)

// Option is a functional option for configuring Engine.
type Option func(*Engine)

// WithThreshold sets the duplicate-candidate threshold.
func WithThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.threshold = threshold
	}
}

// New creates a similarity engine. The default duplicate threshold comes from
// the default config.
func New(opts ...Option) *Engine {
	e := &Engine{
		threshold: config.DefaultConfig().Thresholds.DuplicateService,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compare scores one pair of services.
func (e *Engine) Compare(a, b *extract.ServiceInfo) Result {
	r := Result{PathA: a.Path, PathB: b.Path}

	// Identical structural fingerprints are exact duplicates; skip the
	// component math.
	if Fingerprint(a) == Fingerprint(b) {
		r.Score = 1.0
		r.MethodOverlap = 1.0
		r.StructuralMatch = 1.0
		r.ImportOverlap = 1.0
		r.InterfaceMatch = 1.0
		r.SharedMethods = sortedKeys(a.MethodNames())
		r.SharedImports = append([]string(nil), a.Imports...)
		r.SharedInterfaces = sortedKeys(a.InterfaceNames())
		return r
	}

	methodsA, methodsB := a.MethodNames(), b.MethodNames()
	r.MethodOverlap = jaccard(methodsA, methodsB)
	r.SharedMethods = sortedIntersection(methodsA, methodsB)

	r.StructuralMatch = structuralMatchRate(a, b, r.SharedMethods)

	importsA, importsB := a.ImportSet(), b.ImportSet()
	r.ImportOverlap = jaccard(importsA, importsB)
	r.SharedImports = sortedIntersection(importsA, importsB)

	ifacesA, ifacesB := a.InterfaceNames(), b.InterfaceNames()
	r.InterfaceMatch = jaccard(ifacesA, ifacesB)
	r.SharedInterfaces = sortedIntersection(ifacesA, ifacesB)

	r.Score = stats.Clamp01(weightMethods*r.MethodOverlap +
		weightStructural*r.StructuralMatch +
		weightImports*r.ImportOverlap +
		weightInterfaces*r.InterfaceMatch)

	return r
}

// Analyze computes the full pairwise matrix and collects duplicate-service
// candidate pairs above the threshold.
func (e *Engine) Analyze(ctx context.Context, services []*extract.ServiceInfo) (*Analysis, error) {
	n := len(services)
	analysis := &Analysis{
		Pairs:     make([]Pair, 0),
		Matrix:    make([][]float64, n),
		Paths:     make([]string, n),
		Threshold: e.threshold,
	}
	for i := range analysis.Matrix {
		analysis.Matrix[i] = make([]float64, n)
		analysis.Paths[i] = services[i].Path
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		analysis.Matrix[i][i] = 1.0
		for j := i + 1; j < n; j++ {
			result := e.Compare(services[i], services[j])
			analysis.Matrix[i][j] = result.Score
			analysis.Matrix[j][i] = result.Score
			analysis.TotalPairs++

			if result.Score > e.threshold {
				analysis.Pairs = append(analysis.Pairs, newPair(services[i], services[j], result.Score))
			}
		}
	}

	sort.Slice(analysis.Pairs, func(i, j int) bool {
		if analysis.Pairs[i].Score != analysis.Pairs[j].Score {
			return analysis.Pairs[i].Score > analysis.Pairs[j].Score
		}
		return analysis.Pairs[i].PathA < analysis.Pairs[j].PathA
	})

	return analysis, nil
}

// newPair builds a duplicate candidate with estimated consolidation savings:
// one of the two files goes away, along with the smaller body of lines and
// complexity.
func newPair(a, b *extract.ServiceInfo, score float64) Pair {
	savedLines := a.Lines
	savedComplexity := a.Complexity
	if b.Lines < savedLines {
		savedLines = b.Lines
	}
	if b.Complexity < savedComplexity {
		savedComplexity = b.Complexity
	}

	return Pair{
		PathA:           a.Path,
		PathB:           b.Path,
		NameA:           a.Name,
		NameB:           b.Name,
		Score:           score,
		SavedLines:      savedLines,
		SavedFiles:      1,
		SavedComplexity: savedComplexity,
		Risk:            migrationRisk(score, savedLines),
	}
}

// migrationRisk tags how risky merging the pair is: near-identical services
// are low risk, large partially-similar ones are high.
func migrationRisk(score float64, lines int) string {
	switch {
	case score >= 0.95:
		return "low"
	case score >= 0.85 || lines < 150:
		return "medium"
	default:
		return "high"
	}
}

// structuralMatchRate returns the fraction of shared method names whose
// signatures are judged equivalent.
func structuralMatchRate(a, b *extract.ServiceInfo, shared []string) float64 {
	if len(shared) == 0 {
		return 0
	}
	matched := 0
	for _, name := range shared {
		ma, mb := a.MethodByName(name), b.MethodByName(name)
		if ma == nil || mb == nil {
			continue
		}
		if signatureScore(ma, mb) >= signatureMatchMin {
			matched++
		}
	}
	return float64(matched) / float64(len(shared))
}

// signatureScore measures signature equivalence between two same-named
// methods: positional parameter types, exact return type, and async flag.
func signatureScore(a, b *extract.MethodInfo) float64 {
	total := len(a.Params)
	if len(b.Params) > total {
		total = len(b.Params)
	}

	paramRatio := 1.0
	if total > 0 {
		matching := 0
		for i := 0; i < len(a.Params) && i < len(b.Params); i++ {
			if normalizeType(a.Params[i].Type) == normalizeType(b.Params[i].Type) {
				matching++
			}
		}
		paramRatio = float64(matching) / float64(total)
	}

	score := sigWeightParams * paramRatio
	if normalizeType(a.ReturnType) == normalizeType(b.ReturnType) {
		score += sigWeightReturn
	}
	if a.Async == b.Async {
		score += sigWeightAsync
	}
	return score
}

func normalizeType(t string) string {
	return strings.Join(strings.Fields(t), " ")
}

// jaccard computes |A∩B| / |A∪B|. Two empty sets are equal sets and score
// 1.0, so byte-identical services reach an overall score of exactly 1.0.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

func sortedIntersection(a, b map[string]bool) []string {
	var shared []string
	for k := range a {
		if b[k] {
			shared = append(shared, k)
		}
	}
	sort.Strings(shared)
	return shared
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fingerprint computes a blake3 structural fingerprint of a service: sorted
// method signatures, imports, and interface names. Equal fingerprints mean
// the services expose the same structure regardless of file path.
func Fingerprint(s *extract.ServiceInfo) [32]byte {
	h := blake3.New()

	sigs := make([]string, 0, len(s.Methods))
	for _, m := range s.Methods {
		async := "sync"
		if m.Async {
			async = "async"
		}
		parts := []string{m.Name, async, normalizeType(m.ReturnType)}
		for _, p := range m.Params {
			parts = append(parts, normalizeType(p.Type))
		}
		sigs = append(sigs, strings.Join(parts, "|"))
	}
	sort.Strings(sigs)

	imports := append([]string(nil), s.Imports...)
	sort.Strings(imports)

	ifaces := make([]string, 0, len(s.Interfaces))
	for _, iface := range s.Interfaces {
		ifaces = append(ifaces, iface.Name)
	}
	sort.Strings(ifaces)

	for _, section := range [][]string{sigs, imports, ifaces} {
		for _, entry := range section {
			h.WriteString(entry)
			h.WriteString("\n")
		}
		h.WriteString("--\n")
	}

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
