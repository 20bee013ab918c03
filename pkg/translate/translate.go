// Package translate converts expressions between backends: parse with the
// source backend, then format with the destination backend.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/formulate/pkg/backend"
	"github.com/leapstack-labs/formulate/pkg/format"
	"github.com/leapstack-labs/formulate/pkg/parser"
)

// Config holds translator configuration.
type Config struct {
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// Concurrency bounds TranslateAll workers (optional, defaults to GOMAXPROCS)
	Concurrency int
}

// Translator converts expression text from one backend to another.
// It is safe for concurrent use.
type Translator struct {
	logger      *slog.Logger
	concurrency int
}

// Result is the outcome of translating one input of a batch.
type Result struct {
	Index  int
	Input  string
	Output string
	Err    error
}

// New creates a translator.
func New(cfg Config) *Translator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &Translator{logger: logger, concurrency: concurrency}
}

var defaultTranslator = New(Config{})

// Translate converts text from one backend's syntax to another's using a
// translator with no logging.
func Translate(text string, from, to *backend.Backend) (string, error) {
	return defaultTranslator.Translate(text, from, to)
}

// Translate converts text from one backend's syntax to another's.
// Errors keep their type: *parser.LexError, *parser.SyntaxError,
// *core.ArityError or *core.UnsupportedIdentifierError.
func (t *Translator) Translate(text string, from, to *backend.Backend) (string, error) {
	if from == nil || to == nil {
		return "", backend.ErrBackendRequired
	}

	t.logger.Debug("parsing expression", "backend", from.Name(), "input", text)
	expr, err := parser.Parse(text, from)
	if err != nil {
		t.logger.Debug("parse failed", "backend", from.Name(), "error", err.Error())
		return "", fmt.Errorf("parse %s expression: %w", from.Name(), err)
	}

	t.logger.Debug("formatting expression", "backend", to.Name(), "tree", expr.String())
	out, err := format.Format(expr, to)
	if err != nil {
		t.logger.Debug("format failed", "backend", to.Name(), "error", err.Error())
		return "", fmt.Errorf("format as %s: %w", to.Name(), err)
	}
	return out, nil
}

// TranslateAll translates texts concurrently. Results are in input order and
// each carries its own error. Once ctx is done no new work starts; inputs
// that were not translated carry ctx.Err() and TranslateAll returns it too.
func (t *Translator) TranslateAll(ctx context.Context, texts []string, from, to *backend.Backend) ([]Result, error) {
	results := make([]Result, len(texts))
	for i, text := range texts {
		results[i] = Result{Index: i, Input: text}
	}

	t.logger.Debug("translating batch", "count", len(texts), "from", nameOf(from), "to", nameOf(to), "concurrency", t.concurrency)

	var g errgroup.Group
	g.SetLimit(t.concurrency)

	for i := range texts {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(texts); j++ {
				results[j].Err = err
			}
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Output, results[i].Err = t.Translate(texts[i], from, to)
			return nil
		})
	}
	_ = g.Wait() // workers report through results

	if err := ctx.Err(); err != nil {
		t.logger.Debug("batch cancelled", "error", err.Error())
		return results, err
	}
	return results, nil
}

func nameOf(b *backend.Backend) string {
	if b == nil {
		return ""
	}
	return b.Name()
}
