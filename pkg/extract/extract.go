// Package extract derives structural service models from TypeScript-style
// source text using pattern matching, not a syntax tree.
package extract

import (
	"path/filepath"
	"regexp"
	"strings"

	"svcaudit/pkg/config"
)

// Extractor turns raw file content into a ServiceInfo. The pattern-based
// implementation below can be swapped for a real parser without touching the
// similarity, duplication, graph, or clustering packages.
type Extractor interface {
	// ExtractFile returns the service model for one file, or (nil, nil) when
	// the file does not contain a qualifying service class.
	ExtractFile(path string, src []byte) (*ServiceInfo, error)
}

var (
	classRe  = regexp.MustCompile(`export\s+(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_][A-Za-z0-9_]*)`)
	methodRe = regexp.MustCompile(`(?m)^[ \t]*(?:(?:public|private|protected|static|override)\s+)*(async\s+)?([A-Za-z_]\w*)\s*\(([^)]*)\)\s*:\s*([^{;=]+?)\s*\{`)
	paramRe  = regexp.MustCompile(`^(?:(?:public|private|protected|readonly)\s+)*(\.\.\.)?([A-Za-z_]\w*)\s*(\?)?\s*(?::\s*([^=]+?))?\s*(?:=\s*(.+))?$`)
	importRe = regexp.MustCompile(`from\s+['"]([^'"]+)['"]`)
	exportRe = regexp.MustCompile(`(?m)^export\s+(?:default\s+)?(?:abstract\s+)?(?:class|interface|type|const|let|var|function|enum)\s+([A-Za-z_]\w*)`)
	ifaceRe  = regexp.MustCompile(`(?m)^(?:export\s+)?interface\s+([A-Za-z_]\w*)`)

	branchRe = regexp.MustCompile(`\b(?:if|else|while|for|switch|case|catch|try)\b`)
)

// methodKeywords are control keywords that would otherwise match the method
// pattern when followed by a parenthesized expression.
var methodKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true,
	"catch": true, "return": true, "constructor": true,
}

// PatternExtractor implements Extractor with regular-expression heuristics.
type PatternExtractor struct {
	suffixes []string
	root     string
}

// NewPatternExtractor creates an extractor using the configured service-class
// suffixes. root anchors the origin group tag; empty means no grouping.
func NewPatternExtractor(cfg *config.Config, root string) *PatternExtractor {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &PatternExtractor{
		suffixes: cfg.Extract.ServiceSuffixes,
		root:     root,
	}
}

// ExtractFile extracts the service model for one file. Files without a
// qualifying exported class return (nil, nil): not a service, not an error.
func (e *PatternExtractor) ExtractFile(path string, src []byte) (*ServiceInfo, error) {
	text := string(src)

	name := e.findServiceClass(text)
	if name == "" {
		return nil, nil
	}

	info := &ServiceInfo{
		Path:       path,
		Name:       name,
		Group:      e.groupTag(path),
		Methods:    extractMethods(text),
		Interfaces: extractInterfaces(text),
		Imports:    extractImports(text),
		Exports:    extractExports(text),
		Lines:      strings.Count(text, "\n") + 1,
		Complexity: complexityScore(text),
	}

	return info, nil
}

// findServiceClass returns the first exported class name carrying a
// recognized service suffix, or "".
func (e *PatternExtractor) findServiceClass(text string) string {
	for _, m := range classRe.FindAllStringSubmatch(text, -1) {
		name := m[1]
		for _, suffix := range e.suffixes {
			if strings.HasSuffix(name, suffix) {
				return name
			}
		}
	}
	return ""
}

// groupTag derives the origin group from the first directory component of the
// root-relative path.
func (e *PatternExtractor) groupTag(path string) string {
	if e.root == "" {
		return ""
	}
	rel, err := filepath.Rel(e.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

// extractMethods locates method declarations and their bodies. Body bounds
// come from brace counting that is blind to braces inside string literals and
// comments, so string content can mis-align the detected span. That matches
// the extraction contract; it is not silently corrected here.
func extractMethods(text string) []MethodInfo {
	var methods []MethodInfo

	for _, loc := range methodRe.FindAllStringSubmatchIndex(text, -1) {
		full := text[loc[0]:loc[1]]
		asyncMark := loc[2] != -1
		name := text[loc[4]:loc[5]]
		paramText := text[loc[6]:loc[7]]
		returnType := strings.TrimSpace(text[loc[8]:loc[9]])

		if methodKeywords[name] {
			continue
		}

		openBrace := loc[1] - 1 // match ends at the opening brace
		bodyEnd := matchBrace(text, openBrace)
		if bodyEnd < 0 {
			bodyEnd = len(text)
		}

		startLine := strings.Count(text[:loc[0]], "\n") + 1
		endLine := strings.Count(text[:bodyEnd], "\n") + 1

		methods = append(methods, MethodInfo{
			Name:       name,
			Signature:  strings.TrimSpace(strings.TrimSuffix(full, "{")),
			Params:     parseParams(paramText),
			ReturnType: returnType,
			Async:      asyncMark,
			StartLine:  startLine,
			EndLine:    endLine,
			Body:       text[openBrace+1 : max(openBrace+1, bodyEnd)],
		})
	}

	return methods
}

// matchBrace returns the index of the brace closing the one at open, or -1.
// The counter does not understand string or template literals.
func matchBrace(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseParams splits a parameter list on top-level commas and parses each
// entry as name[?][: type][= default].
func parseParams(paramText string) []Parameter {
	paramText = strings.TrimSpace(paramText)
	if paramText == "" {
		return nil
	}

	var params []Parameter
	for _, part := range splitTopLevel(paramText) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := paramRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		params = append(params, Parameter{
			Name:     m[2],
			Type:     strings.TrimSpace(m[4]),
			Optional: m[3] == "?",
			Default:  strings.TrimSpace(m[5]),
		})
	}
	return params
}

// splitTopLevel splits on commas not nested inside <>, (), [], or {}.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// complexityScore is a coarse cyclomatic proxy: 1 plus every branching
// keyword or operator found anywhere in the file text.
func complexityScore(text string) int {
	score := 1
	score += len(branchRe.FindAllStringIndex(text, -1))
	score += strings.Count(text, "&&")
	score += strings.Count(text, "||")
	score += strings.Count(text, "?")
	return score
}

func extractImports(text string) []string {
	var imports []string
	seen := make(map[string]bool)
	for _, m := range importRe.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			imports = append(imports, m[1])
		}
	}
	return imports
}

func extractExports(text string) []string {
	var exports []string
	seen := make(map[string]bool)
	for _, m := range exportRe.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			exports = append(exports, m[1])
		}
	}
	return exports
}

func extractInterfaces(text string) []InterfaceInfo {
	var ifaces []InterfaceInfo
	seen := make(map[string]bool)
	for _, loc := range ifaceRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[2]:loc[3]]
		if seen[name] {
			continue
		}
		seen[name] = true
		ifaces = append(ifaces, InterfaceInfo{
			Name: name,
			Line: strings.Count(text[:loc[0]], "\n") + 1,
		})
	}
	return ifaces
}
