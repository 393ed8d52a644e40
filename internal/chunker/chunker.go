package chunker

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/structgraph/structgraph/internal/config"
	"github.com/structgraph/structgraph/internal/models"
	"github.com/structgraph/structgraph/internal/pathutil"
)

// sentinel is appended to every class-signature chunk so a reader (human or
// model) knows methods are indexed separately (spec §4.2 step 1).
const sentinel = "  // methods indexed as children"

// Chunker is the AST-driven partitioner: it classifies each candidate file
// (atomic/logic/config), emits ProcessedChunks with parent/child linkage,
// and extracts class skeletons and dependency edges with import-path
// resolution.
type Chunker struct {
	root   string
	lang   config.LanguageConfig
	parser *Parser
}

// New returns a Chunker rooted at root, using lang's classification rules
// and a freshly constructed tree-sitter parser.
func New(root string, lang config.LanguageConfig) *Chunker {
	return &Chunker{root: root, lang: lang, parser: NewParser()}
}

// Chunk analyzes one source file and returns its chunks, edges, and
// skeleton (spec §4.2).
func (c *Chunker) Chunk(ctx context.Context, relPath string, content []byte, hash string) (*models.FileAnalysisResult, error) {
	normalized := pathutil.Normalize(relPath)

	tree, err := c.parser.Parse(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", normalized, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	edges := c.extractEdges(root, content, normalized)

	if c.lang.IsAtomicPath(normalized) {
		return c.chunkAtomic(normalized, content, hash, root, edges), nil
	}
	return c.chunkLogic(normalized, content, hash, root, edges), nil
}

// extractEdges walks every top-level import and resolves the relative ones
// against the project root (spec §4.5). Non-relative specifiers (package
// imports) are dropped silently; unresolvable relative specifiers are
// dropped too rather than failing the whole file's analysis.
func (c *Chunker) extractEdges(root *sitter.Node, content []byte, path string) []*models.Edge {
	fileDir := filepath.Join(c.root, filepath.Dir(filepath.FromSlash(path)))

	var edges []*models.Edge
	for _, imp := range topLevelImports(root) {
		spec := importSource(imp, content)
		if spec == "" || !pathutil.IsRelativeSpecifier(spec) {
			continue
		}
		target, ok := pathutil.ResolveImport(c.root, fileDir, spec, c.lang.SourceExtension)
		if !ok {
			continue
		}
		edges = append(edges, &models.Edge{
			Source:   path,
			Target:   target,
			Relation: models.RelationImport,
		})
	}
	return edges
}

// chunkAtomic builds the single-chunk result for a data-shape file whose
// meaning is inseparable from the full file text (spec §4.2).
func (c *Chunker) chunkAtomic(path string, content []byte, hash string, root *sitter.Node, edges []*models.Edge) *models.FileAnalysisResult {
	lineCount := strings.Count(string(content), "\n") + 1

	firstClass := ""
	classes := topLevelClasses(root)
	if len(classes) > 0 {
		firstClass = classNameOf(classes[0], content)
	}

	chunk := &models.Chunk{
		ID:       models.NewChunkID(),
		FilePath: path,
		Type:     models.ChunkTypeFile,
		Content:  string(content),
		Metadata: models.ChunkMetadata{
			StartLine: 1,
			EndLine:   lineCount,
			ClassName: firstClass,
		},
	}

	return &models.FileAnalysisResult{
		Path:     path,
		Hash:     hash,
		Chunks:   []*models.Chunk{chunk},
		Edges:    edges,
		Skeleton: models.NewAtomicSkeleton(),
	}
}

// chunkLogic implements the parent–child strategy for logic (and config)
// files (spec §4.2): one parent chunk per top-level class (class_signature,
// or config for module/bootstrap files), one method chunk per method,
// linked by parent_id.
func (c *Chunker) chunkLogic(path string, content []byte, hash string, root *sitter.Node, edges []*models.Edge) *models.FileAnalysisResult {
	imports := topLevelImports(root)
	importTexts := make([]string, len(imports))
	for i, imp := range imports {
		importTexts[i] = imp.Content(content)
	}
	importBlock := strings.Join(importTexts, "\n")

	var chunks []*models.Chunk
	var classSkeletons []models.ClassSkeleton

	parentType := models.ChunkTypeClassSignature
	if c.lang.IsConfigPath(path) {
		parentType = models.ChunkTypeConfig
	}

	for _, classNode := range topLevelClasses(root) {
		name := classNameOf(classNode, content)
		decorators := decoratorsOf(classNode)
		decoratorNamesList := decoratorNames(decorators, content)

		members := membersOf(classNode)
		constructor, methods := partitionMethods(members.methods, content)

		parentID := models.NewChunkID()
		parentChunk := &models.Chunk{
			ID:       parentID,
			FilePath: path,
			Type:     parentType,
			Content:  buildParentContent(importBlock, decorators, content, name, members.properties, constructor),
			Metadata: models.ChunkMetadata{
				StartLine:  int(classNode.StartPoint().Row) + 1,
				EndLine:    int(classNode.EndPoint().Row) + 1,
				ClassName:  name,
				Decorators: decoratorNamesList,
			},
		}
		chunks = append(chunks, parentChunk)

		methodSigs := make([]string, 0, len(methods))
		for _, method := range methods {
			methodName := methodNameOf(method, content)
			methodDecorators := decoratorsOf(method)

			chunks = append(chunks, &models.Chunk{
				ID:       models.NewChunkID(),
				FilePath: path,
				Type:     models.ChunkTypeMethod,
				Content:  method.Content(content),
				ParentID: &parentID,
				Metadata: models.ChunkMetadata{
					StartLine:  int(method.StartPoint().Row) + 1,
					EndLine:    int(method.EndPoint().Row) + 1,
					ClassName:  name,
					MethodName: methodName,
					Decorators: decoratorNames(methodDecorators, content),
				},
			})
			methodSigs = append(methodSigs, methodSignature(method, content))
		}

		classSkeletons = append(classSkeletons, models.ClassSkeleton{
			Name:    name,
			Methods: methodSigs,
		})
	}

	skeleton := &models.Skeleton{
		Imports: importTexts,
		Classes: classSkeletons,
	}

	return &models.FileAnalysisResult{
		Path:     path,
		Hash:     hash,
		Chunks:   chunks,
		Edges:    edges,
		Skeleton: skeleton,
	}
}

// buildParentContent deterministically reconstructs the class_signature
// chunk's text (spec §4.2 step 1): raw import block, class decorators,
// "class <Name> {", each property's raw text on its own line, the first
// constructor's raw text, a sentinel comment, then "}".
func buildParentContent(importBlock string, decorators []*sitter.Node, content []byte, name string, properties []*sitter.Node, constructor *sitter.Node) string {
	var b strings.Builder

	if importBlock != "" {
		b.WriteString(importBlock)
		b.WriteString("\n\n")
	}
	for _, d := range decorators {
		b.WriteString(d.Content(content))
		b.WriteByte('\n')
	}
	b.WriteString("class ")
	b.WriteString(name)
	b.WriteString(" {\n")
	for _, p := range properties {
		b.WriteString(p.Content(content))
		b.WriteByte('\n')
	}
	if constructor != nil {
		b.WriteString(constructor.Content(content))
		b.WriteByte('\n')
	}
	b.WriteString(sentinel)
	b.WriteString("\n}")
	return b.String()
}
