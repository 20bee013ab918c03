package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/ident"

	_ "github.com/leapstack-labs/formulate/pkg/backends/numexpr"
	_ "github.com/leapstack-labs/formulate/pkg/backends/root"
)

// generateBackendDocs writes one page per built-in backend plus an index
// comparing identifier support across backends.
func generateBackendDocs(outDir string) error {
	log.Printf("Generating backend docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	names := backend.List()
	backends := make([]*backend.Backend, 0, len(names))
	for _, name := range names {
		b, err := backend.Lookup(name)
		if err != nil {
			return err
		}
		backends = append(backends, b)
	}

	if err := os.WriteFile(filepath.Join(outDir, "index.md"), backendIndex(backends), 0600); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, b := range backends {
		if err := os.WriteFile(filepath.Join(outDir, b.Name()+".md"), backendPage(b), 0600); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", b.Name(), err)
		}
		log.Printf("  Generated %s.md", b.Name())
	}
	return nil
}

// backendIndex renders the support matrix: one row per identifier, one
// column per backend.
func backendIndex(backends []*backend.Backend) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("Backends", "Built-in backends and the identifiers they support")
	w.GeneratedMarker()
	w.Header(1, "Backends")
	w.Paragraph("Each cell shows how a backend spells the identifier. An empty cell means the backend cannot express it, and translating into that backend fails with an unsupported identifier error.")

	headers := []string{"Identifier", "Class"}
	for _, b := range backends {
		headers = append(headers, fmt.Sprintf("[%s](%s.md)", b.Name(), b.Name()))
	}

	var rows [][]string
	for _, id := range ident.Builtins() {
		def, _ := ident.Info(id)
		row := []string{InlineCode(def.Name), def.Class.String()}
		for _, b := range backends {
			cell := ""
			if spelling, ok := b.Spelling(id); ok {
				cell = InlineCode(spelling)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	w.Table(headers, rows)
	return w.Bytes()
}

func backendPage(b *backend.Backend) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(b.Name(), "Operators, functions and constants of the "+b.Name()+" backend")
	w.GeneratedMarker()
	w.Header(1, b.Name())
	w.Paragraph("Token matching is " + b.Normalization().String() + ".")

	w.Header(2, "Operators")
	var rows [][]string
	for _, op := range b.Operators() {
		assoc := ""
		if op.Fixity == backend.Infix {
			assoc = op.Assoc.String()
		}
		rows = append(rows, []string{InlineCode(op.Token), op.ID.String(), op.Fixity.String(), op.Precedence.String(), assoc})
	}
	w.Table([]string{"Token", "Identifier", "Fixity", "Precedence", "Associativity"}, rows)

	w.Header(2, "Functions")
	rows = nil
	for _, fn := range b.Functions() {
		rows = append(rows, []string{InlineCode(fn.Token), fn.ID.String(), strconv.Itoa(fn.Arity)})
	}
	w.Table([]string{"Token", "Identifier", "Arity"}, rows)

	w.Header(2, "Constants")
	rows = nil
	for _, c := range b.Constants() {
		rows = append(rows, []string{InlineCode(c.Spelling()), c.ID.String()})
	}
	w.Table([]string{"Spelling", "Identifier"}, rows)

	return w.Bytes()
}
