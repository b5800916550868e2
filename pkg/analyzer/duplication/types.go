package duplication

// Kind classifies a duplication group.
type Kind string

const (
	// KindExact means every raw occurrence is byte-identical.
	KindExact Kind = "EXACT_MATCH"
	// KindSimilar means occurrences only match after normalization.
	KindSimilar Kind = "SIMILAR_LOGIC"
)

// String returns the string representation.
func (k Kind) String() string {
	return string(k)
}

// Occurrence is one appearance of a code block. The hash is a deterministic
// function of the normalized block text only.
type Occurrence struct {
	File      string `json:"file"`
	Method    string `json:"method"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Code      string `json:"code"`
	Hash      uint64 `json:"hash"`
}

// Group is a set of occurrences sharing one content hash.
type Group struct {
	Hash        uint64       `json:"hash"`
	Kind        Kind         `json:"kind"`
	Occurrences []Occurrence `json:"occurrences"`

	// BlockLines is the line span of the block (first occurrence).
	BlockLines int `json:"block_lines"`

	// SavedLines estimates the reduction from deduplicating the group:
	// (occurrences - 1) x block lines.
	SavedLines int `json:"saved_lines"`
}

// Analysis is the full duplication result over a corpus.
type Analysis struct {
	Groups          []Group `json:"groups"`
	TotalBlocks     int     `json:"total_blocks"`
	TotalGroups     int     `json:"total_groups"`
	TotalSavedLines int     `json:"total_saved_lines"`
	MinBlockSize    int     `json:"min_block_size"`
}
