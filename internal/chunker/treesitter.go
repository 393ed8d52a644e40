// Package chunker implements the AST-driven partitioner: file
// classification (atomic/logic/config), the parent–child chunking strategy
// for logic files, skeleton generation, and dependency-edge extraction with
// import resolution (spec §4.2).
package chunker

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Parser wraps a tree-sitter parser for the decorator/class server-
// framework language this spec targets. tree-sitter parsers are not
// goroutine-safe, so access is serialized with a mutex, mirroring the
// teacher's chunker.Parser.
type Parser struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

// NewParser returns a Parser configured with the TypeScript grammar.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(typescript.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses source and returns its syntax tree. Callers must Close() the
// returned tree.
func (p *Parser) Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	return tree, nil
}
