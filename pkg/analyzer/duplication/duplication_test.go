package duplication

import (
	"context"
	"strings"
	"testing"

	"svcaudit/pkg/extract"
)

const blockA = `{
		const rows = await this.db.query('SELECT * FROM users WHERE active = true');
		return rows.map((row) => this.mapRow(row));
	}`

// blockB differs from blockA only in literals and comments.
const blockB = `{
		// fetch the active set
		const rows = await this.db.query("SELECT * FROM accounts WHERE active = true");
		return rows.map((row) => this.mapRow(row));
	}`

func svc(path string, methods ...extract.MethodInfo) *extract.ServiceInfo {
	return &extract.ServiceInfo{Path: path, Name: "Svc", Methods: methods}
}

func m(name, body string, start, end int) extract.MethodInfo {
	return extract.MethodInfo{Name: name, Body: body, StartLine: start, EndLine: end}
}

func TestNormalize(t *testing.T) {
	got := Normalize(`/* header */
	const x = 'hello'; // trailing
	if (n > 100) { return "big"; }`)
	want := `const x = STRING; if (n > NUMBER) { return STRING; }`
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestHashBlock_LiteralInsensitive(t *testing.T) {
	if HashBlock(blockA) != HashBlock(blockB) {
		t.Error("blocks differing only in literals and comments should hash equal")
	}
	if HashBlock(blockA) == HashBlock(blockA+" extra();") {
		t.Error("structurally different blocks should hash differently")
	}
}

func TestAnalyze_ExactMatch(t *testing.T) {
	services := []*extract.ServiceInfo{
		svc("/a.ts", m("findActive", blockA, 10, 13)),
		svc("/b.ts", m("fetchActive", blockA, 30, 33)),
	}

	analysis, err := New().Analyze(context.Background(), services)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(analysis.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(analysis.Groups))
	}
	g := analysis.Groups[0]
	if g.Kind != KindExact {
		t.Errorf("kind = %s, want %s", g.Kind, KindExact)
	}
	if g.BlockLines != 4 {
		t.Errorf("BlockLines = %d, want 4", g.BlockLines)
	}
	if g.SavedLines != 4 {
		t.Errorf("SavedLines = %d, want 4 ((2-1)*4)", g.SavedLines)
	}
}

func TestAnalyze_SimilarLogic(t *testing.T) {
	services := []*extract.ServiceInfo{
		svc("/a.ts", m("findActive", blockA, 10, 13)),
		svc("/b.ts", m("fetchActive", blockB, 30, 34)),
	}

	analysis, err := New().Analyze(context.Background(), services)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(analysis.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(analysis.Groups))
	}
	if analysis.Groups[0].Kind != KindSimilar {
		t.Errorf("kind = %s, want %s", analysis.Groups[0].Kind, KindSimilar)
	}
}

func TestAnalyze_MinBlockSize(t *testing.T) {
	short := "{ return 1; }"
	services := []*extract.ServiceInfo{
		svc("/a.ts", m("one", short, 1, 1)),
		svc("/b.ts", m("two", short, 1, 1)),
	}

	analysis, err := New().Analyze(context.Background(), services)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(analysis.Groups) != 0 {
		t.Errorf("blocks under the size floor should not group: %+v", analysis.Groups)
	}
	if analysis.TotalBlocks != 0 {
		t.Errorf("TotalBlocks = %d, want 0", analysis.TotalBlocks)
	}

	analysis, err = New(WithMinBlockSize(5)).Analyze(context.Background(), services)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(analysis.Groups) != 1 {
		t.Errorf("lowered floor should admit the blocks, got %d groups", len(analysis.Groups))
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	big := "{ " + strings.Repeat("doWork(); ", 20) + "}"
	services := []*extract.ServiceInfo{
		svc("/z.ts", m("a", blockA, 5, 8), m("b", big, 20, 22)),
		svc("/a.ts", m("c", blockA, 1, 4), m("d", big, 40, 42)),
		svc("/m.ts", m("e", big, 9, 11)),
	}

	first, err := New().Analyze(context.Background(), services)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	second, err := New().Analyze(context.Background(), services)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(first.Groups) != 2 || len(second.Groups) != 2 {
		t.Fatalf("got %d and %d groups, want 2 each", len(first.Groups), len(second.Groups))
	}
	for i := range first.Groups {
		if first.Groups[i].Hash != second.Groups[i].Hash {
			t.Errorf("group %d hash differs across runs", i)
		}
		for j := range first.Groups[i].Occurrences {
			if first.Groups[i].Occurrences[j] != second.Groups[i].Occurrences[j] {
				t.Errorf("group %d occurrence %d differs across runs", i, j)
			}
		}
	}
	if first.TotalSavedLines != second.TotalSavedLines {
		t.Error("saved-line totals differ across runs")
	}
}

func TestAnalyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Analyze(ctx, []*extract.ServiceInfo{svc("/a.ts", m("a", blockA, 1, 4))})
	if err == nil {
		t.Error("expected context error")
	}
}
