package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists audit results under the report directory, one timestamped
// JSON and Markdown pair per run. A write failure is the only condition an
// audit treats as fatal.
type Writer struct {
	dir string
}

// NewWriter creates a report writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write renders and persists the result. It returns the JSON and Markdown
// paths it wrote.
func (w *Writer) Write(r *Result) (jsonPath, mdPath string, err error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating report dir: %w", err)
	}

	stamp := r.GeneratedAt.Format("20060102-150405")
	jsonPath = filepath.Join(w.dir, fmt.Sprintf("audit-%s.json", stamp))
	mdPath = filepath.Join(w.dir, fmt.Sprintf("audit-%s.md", stamp))

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("writing %s: %w", jsonPath, err)
	}
	if err := os.WriteFile(mdPath, []byte(Markdown(r)), 0o644); err != nil {
		return "", "", fmt.Errorf("writing %s: %w", mdPath, err)
	}
	return jsonPath, mdPath, nil
}
