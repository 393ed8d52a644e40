// Package retriever implements Query and ContextReport (spec §4.7): a
// linear cosine-similarity scan over every stored chunk, and the exact
// markdown-ish context report format consumed by downstream agent tooling.
package retriever

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/structgraph/structgraph/internal/embedder"
	"github.com/structgraph/structgraph/internal/graph"
	"github.com/structgraph/structgraph/internal/models"
	"github.com/structgraph/structgraph/internal/registry"
	"github.com/structgraph/structgraph/internal/store"
	"github.com/structgraph/structgraph/internal/vectormath"
)

const defaultQueryLimit = 5

// contextReportLimit is the fixed hit count contextReport requests before
// grouping by file (spec §4.7: "Perform query(text, 4)").
const contextReportLimit = 4

// maxImportsShown is how many outbound imports the report lists before
// collapsing the rest into "…and N more" (spec §4.7/§6).
const maxImportsShown = 5

// Retriever answers semantic queries over the Store's chunks and formats
// the agent-facing context report.
type Retriever struct {
	store    *store.Store
	embedder embedder.Embedder
	registry *registry.Registry
	graph    *graph.Query
}

// New returns a Retriever wired to s, emb, reg, and g.
func New(s *store.Store, emb embedder.Embedder, reg *registry.Registry, g *graph.Query) *Retriever {
	return &Retriever{store: s, embedder: emb, registry: reg, graph: g}
}

// Query embeds text, scores every stored chunk by cosine similarity against
// it, and returns the top limit hits (ties broken by insertion order, per
// spec §4.7). limit <= 0 uses the default of 5.
func (r *Retriever) Query(ctx context.Context, text string, limit int) ([]models.SearchHit, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	queryVec, err := r.embedder.EmbedSingle(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := r.store.AllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}

	hits := make([]models.SearchHit, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Vector) == 0 {
			continue
		}
		score := vectormath.Cosine(queryVec, c.Vector)
		hits = append(hits, models.SearchHit{Score: score, Chunk: c})
	}

	// Stable sort preserves insertion (AllChunks rowid) order as the tiebreak.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// fileGroup accumulates the hits for one file, used to build the report.
type fileGroup struct {
	path     string
	relevance float64
	hits     []models.SearchHit
}

// ContextReport performs query(text, 4), groups hits by file path, and
// renders the exact report layout from spec §6.
func (r *Retriever) ContextReport(ctx context.Context, text string) (string, error) {
	hits, err := r.Query(ctx, text, contextReportLimit)
	if err != nil {
		return "", err
	}

	groups := groupByFile(hits)

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %q\n", text)
	fmt.Fprintf(&b, "Found %d relevant files.\n", len(groups))

	for _, g := range groups {
		deps, err := r.graph.DependenciesOf(ctx, g.path, models.DirectionOutbound)
		if err != nil {
			return "", fmt.Errorf("failed to load dependencies for %s: %w", g.path, err)
		}

		skeleton, ok, err := r.registry.Skeleton(ctx, g.path)
		if err != nil {
			return "", fmt.Errorf("failed to load skeleton for %s: %w", g.path, err)
		}
		skeletonText := "(no skeleton)"
		if ok {
			skeletonText = skeleton.Render()
		}

		writeFileSection(&b, g, deps, skeletonText)
	}

	return b.String(), nil
}

func groupByFile(hits []models.SearchHit) []fileGroup {
	order := make([]string, 0)
	byPath := make(map[string]*fileGroup)

	for _, h := range hits {
		path := h.Chunk.FilePath
		fg, ok := byPath[path]
		if !ok {
			fg = &fileGroup{path: path}
			byPath[path] = fg
			order = append(order, path)
		}
		fg.hits = append(fg.hits, h)
		if h.Score > fg.relevance {
			fg.relevance = h.Score
		}
	}

	groups := make([]fileGroup, 0, len(order))
	for _, path := range order {
		groups = append(groups, *byPath[path])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].relevance > groups[j].relevance
	})
	return groups
}

func writeFileSection(b *strings.Builder, g fileGroup, deps []models.DependencyRef, skeletonText string) {
	b.WriteString(strings.Repeat("=", 65))
	b.WriteByte('\n')

	fmt.Fprintf(b, "\U0001F4C2 **FILE:** %s\n", g.path)
	fmt.Fprintf(b, "\U0001F4CA **RELEVANCE:** %.1f%%\n", g.relevance*100)

	b.WriteString("\U0001F517 **DEPENDENCIES (Imports):**\n")
	if len(deps) == 0 {
		b.WriteString("   - (none)\n")
	} else {
		shown := deps
		more := 0
		if len(shown) > maxImportsShown {
			more = len(shown) - maxImportsShown
			shown = shown[:maxImportsShown]
		}
		for _, d := range shown {
			fmt.Fprintf(b, "   - %s\n", d.Other)
		}
		if more > 0 {
			fmt.Fprintf(b, "   - (…and %d more)\n", more)
		}
	}

	b.WriteString("\U0001F3D7️ **FILE SKELETON (MAP):**\n")
	b.WriteString(skeletonText)
	b.WriteString("\n\n")

	b.WriteString("\U0001F4DD **CODE SNIPPETS:**\n")
	for _, h := range g.hits {
		label := h.Chunk.Metadata.MethodName
		if label == "" {
			label = "Class Structure"
		}
		fmt.Fprintf(b, "   --- [%s] ---\n", label)
		b.WriteString(strings.TrimSpace(h.Chunk.Content))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	fmt.Fprintf(b, "\U0001F4A1 **AGENT HINT:** To edit this file or see full imports, run: read_file(%q)\n", g.path)
	b.WriteString(strings.Repeat("=", 65))
	b.WriteByte('\n')
}
