// Package duplication groups identical method bodies across the corpus by
// hashing normalized block text.
package duplication

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"svcaudit/pkg/analyzer"
	"svcaudit/pkg/config"
	"svcaudit/pkg/extract"
)

// Detector finds duplicated method bodies.
type Detector struct {
	minBlockSize int
}

var _ analyzer.CorpusAnalyzer[*Analysis] = (*Detector)(nil)

// Option is a functional option for configuring Detector.
type Option func(*Detector)

// WithMinBlockSize sets the minimum raw block length in characters.
func WithMinBlockSize(size int) Option {
	return func(d *Detector) {
		d.minBlockSize = size
	}
}

// New creates a duplication detector. The default minimum block size is the
// single configured threshold (100 characters).
func New(opts ...Option) *Detector {
	d := &Detector{
		minBlockSize: config.DefaultConfig().Thresholds.MinBlockSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var (
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRe  = regexp.MustCompile(`//[^\n]*`)
	stringRe       = regexp.MustCompile(`'[^']*'|"[^"]*"|` + "`[^`]*`")
	numberRe       = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	spaceRe        = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes a code block for content-addressed hashing:
// comments stripped, string literals replaced by STRING, numeric literals by
// NUMBER, whitespace collapsed to single spaces.
func Normalize(code string) string {
	code = blockCommentRe.ReplaceAllString(code, " ")
	code = lineCommentRe.ReplaceAllString(code, " ")
	code = stringRe.ReplaceAllString(code, "STRING")
	code = numberRe.ReplaceAllString(code, "NUMBER")
	code = spaceRe.ReplaceAllString(code, " ")
	return strings.TrimSpace(code)
}

// HashBlock computes the content hash of a block from its normalized form.
func HashBlock(code string) uint64 {
	return xxhash.Sum64String(Normalize(code))
}

// Analyze extracts every qualifying method body from the corpus, groups
// occurrences by normalized content hash, and reports groups with more than
// one occurrence. Output ordering is deterministic, so repeated runs over an
// unchanged corpus produce identical groupings and savings.
func (d *Detector) Analyze(ctx context.Context, services []*extract.ServiceInfo) (*Analysis, error) {
	analysis := &Analysis{
		Groups:       make([]Group, 0),
		MinBlockSize: d.minBlockSize,
	}

	byHash := make(map[uint64][]Occurrence)
	for _, svc := range services {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, m := range svc.Methods {
			if len(m.Body) <= d.minBlockSize {
				continue
			}
			analysis.TotalBlocks++
			hash := HashBlock(m.Body)
			byHash[hash] = append(byHash[hash], Occurrence{
				File:      svc.Path,
				Method:    m.Name,
				StartLine: m.StartLine,
				EndLine:   m.EndLine,
				Code:      m.Body,
				Hash:      hash,
			})
		}
	}

	for hash, occurrences := range byHash {
		if len(occurrences) < 2 {
			continue
		}

		sort.Slice(occurrences, func(i, j int) bool {
			if occurrences[i].File != occurrences[j].File {
				return occurrences[i].File < occurrences[j].File
			}
			return occurrences[i].StartLine < occurrences[j].StartLine
		})

		blockLines := occurrences[0].EndLine - occurrences[0].StartLine + 1
		group := Group{
			Hash:        hash,
			Kind:        classify(occurrences),
			Occurrences: occurrences,
			BlockLines:  blockLines,
			SavedLines:  (len(occurrences) - 1) * blockLines,
		}
		analysis.Groups = append(analysis.Groups, group)
		analysis.TotalSavedLines += group.SavedLines
	}

	sort.Slice(analysis.Groups, func(i, j int) bool {
		if analysis.Groups[i].SavedLines != analysis.Groups[j].SavedLines {
			return analysis.Groups[i].SavedLines > analysis.Groups[j].SavedLines
		}
		return analysis.Groups[i].Hash < analysis.Groups[j].Hash
	})
	analysis.TotalGroups = len(analysis.Groups)

	return analysis, nil
}

// classify returns KindExact when all raw occurrences are byte-identical.
func classify(occurrences []Occurrence) Kind {
	first := occurrences[0].Code
	for _, occ := range occurrences[1:] {
		if occ.Code != first {
			return KindSimilar
		}
	}
	return KindExact
}
