// Command sqllint checks that every inline SQL constant starts with a
// "--sql <uuid>" audit marker and that no two queries share a marker.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const defaultTarget = "internal/sqlinline"

var (
	sqlKeywordPattern = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with|create|alter)\b`)
	markerPattern     = regexp.MustCompile(`^--sql ([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$`)
)

type finding struct {
	file    string
	line    int
	name    string
	message string
}

type query struct {
	file   string
	line   int
	name   string
	marker string
}

func main() {
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{defaultTarget}
	}
	queries, findings, err := collect(targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqllint: %v\n", err)
		os.Exit(1)
	}
	findings = append(findings, duplicates(queries)...)
	if report(os.Stderr, findings) {
		os.Exit(1)
	}
}

func collect(targets []string) ([]query, []finding, error) {
	var (
		queries  []query
		findings []finding
	)
	visit := func(path string) error {
		qs, fs, err := lintFile(path)
		if err != nil {
			return err
		}
		queries = append(queries, qs...)
		findings = append(findings, fs...)
		return nil
	}
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, nil, err
		}
		if !info.IsDir() {
			if isSource(target) {
				if err := visit(target); err != nil {
					return nil, nil, err
				}
			}
			continue
		}
		err = filepath.WalkDir(target, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != target && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") || d.Name() == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			if !isSource(path) {
				return nil
			}
			return visit(path)
		})
		if err != nil {
			return nil, nil, err
		}
	}
	return queries, findings, nil
}

func isSource(path string) bool {
	return filepath.Ext(path) == ".go" && !strings.HasSuffix(path, "_test.go")
}

func lintFile(path string) ([]query, []finding, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, nil, err
	}
	var (
		queries  []query
		findings []finding
	)
	ast.Inspect(file, func(n ast.Node) bool {
		spec, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for _, value := range spec.Values {
			lit, ok := value.(*ast.BasicLit)
			if !ok || lit.Kind != token.STRING {
				continue
			}
			raw, err := unquote(lit.Value)
			if err != nil || !sqlKeywordPattern.MatchString(raw) {
				continue
			}
			pos := fset.Position(lit.Pos())
			name := joinNames(spec.Names)
			m := markerPattern.FindStringSubmatch(firstLine(raw))
			if m == nil {
				findings = append(findings, finding{file: path, line: pos.Line, name: name, message: "missing or invalid --sql <uuid> marker"})
				continue
			}
			queries = append(queries, query{file: path, line: pos.Line, name: name, marker: m[1]})
		}
		return true
	})
	return queries, findings, nil
}

func duplicates(queries []query) []finding {
	seen := make(map[string]query, len(queries))
	var out []finding
	for _, q := range queries {
		if first, ok := seen[q.marker]; ok {
			out = append(out, finding{
				file:    q.file,
				line:    q.line,
				name:    q.name,
				message: fmt.Sprintf("marker %s already used by %s", q.marker, first.name),
			})
			continue
		}
		seen[q.marker] = q
	}
	return out
}

// report prints findings in file order and returns true when there were any.
func report(w io.Writer, findings []finding) bool {
	if len(findings) == 0 {
		return false
	}
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].file != findings[j].file {
			return findings[i].file < findings[j].file
		}
		return findings[i].line < findings[j].line
	})
	fmt.Fprintln(w, "sqllint: SQL audit marker problems")
	for _, f := range findings {
		fmt.Fprintf(w, "  %s:%d %s (%s)\n", f.file, f.line, f.message, f.name)
	}
	return true
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func unquote(v string) (string, error) {
	if v == "" {
		return v, nil
	}
	if v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}

func joinNames(idents []*ast.Ident) string {
	names := make([]string, 0, len(idents))
	for _, ident := range idents {
		if ident != nil {
			names = append(names, ident.Name)
		}
	}
	return strings.Join(names, ",")
}
