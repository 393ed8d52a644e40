// Package models defines the data shapes shared across the indexing and
// retrieval pipeline: source files, chunks, skeletons, dependency edges, and
// search hits.
package models

import (
	"strings"

	"github.com/google/uuid"
)

// ChunkType is the granularity at which a piece of source was partitioned.
type ChunkType string

const (
	ChunkTypeFile            ChunkType = "file"
	ChunkTypeClassSignature  ChunkType = "class_signature"
	ChunkTypeMethod          ChunkType = "method"
	ChunkTypeConfig          ChunkType = "config"
)

// ChunkMetadata carries the structural facts about a chunk that aren't part
// of its raw content: line range, and (for class/method chunks) names and
// decorators.
type ChunkMetadata struct {
	StartLine  int      `json:"startLine"`
	EndLine    int      `json:"endLine"`
	ClassName  string   `json:"className,omitempty"`
	MethodName string   `json:"methodName,omitempty"`
	Decorators []string `json:"decorators,omitempty"`
}

// Chunk is a semantically meaningful fragment of a source file.
type Chunk struct {
	ID       string
	FilePath string
	Type     ChunkType
	Content  string
	ParentID *string
	Metadata ChunkMetadata
	Vector   []float32
}

// NewChunkID returns a fresh 128-bit random chunk identifier. Chunk
// identifiers are content-agnostic and regenerated on every re-index; callers
// must not rely on identifier stability across runs.
func NewChunkID() string {
	return uuid.NewString()
}

// EmbeddingInput builds the text that gets embedded for this chunk: a
// structural metadata prefix followed by the raw content. The prefix lifts
// the semantic weight of terse method bodies so that queries describing
// intent ("user creation service") score well even when the fragment itself
// never mentions its collaborators.
func (c *Chunk) EmbeddingInput() string {
	var prefix string
	switch {
	case c.Metadata.MethodName != "":
		prefix = "Method: " + c.Metadata.MethodName
	case c.Metadata.ClassName != "":
		prefix = "Class: " + c.Metadata.ClassName
	default:
		return c.Content
	}
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('\n')
	b.WriteString(c.Content)
	return b.String()
}

// SourceFile is the raw input handed to the chunker.
type SourceFile struct {
	Path    string
	Content []byte
	Hash    string
}

// FileAnalysisResult is what the chunker produces for a single source file.
type FileAnalysisResult struct {
	Path     string
	Hash     string
	Chunks   []*Chunk
	Edges    []*Edge
	Skeleton *Skeleton
}
