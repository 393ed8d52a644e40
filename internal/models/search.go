package models

// SearchHit is one scored result from a Retriever query.
type SearchHit struct {
	Score float64
	Chunk *Chunk
}
