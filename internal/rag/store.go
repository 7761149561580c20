package rag

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// Document is an immutable corpus entry. Documents are created when the
// knowledge base is populated and never mutated by the pipeline.
type Document struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// Hit is one store match. Distance is the cosine distance between the query
// embedding and the document embedding.
type Hit struct {
	Document Document
	Distance float64
}

// MemoryStore is an in-process vector store. Writers are serialized against
// concurrent readers; the pipeline itself only ever reads.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []storedDoc
}

type storedDoc struct {
	doc       Document
	embedding []float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert appends a document with its embedding. IDs default to the
// insertion index when empty, matching the population scripts.
func (s *MemoryStore) Insert(doc Document, embedding []float64) error {
	if len(embedding) == 0 {
		return fmt.Errorf("document %q has an empty embedding", doc.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == "" {
		doc.ID = fmt.Sprintf("%d", len(s.docs))
	}
	s.docs = append(s.docs, storedDoc{doc: doc, embedding: embedding})
	return nil
}

// Count returns the number of stored documents.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Query returns up to topK hits ordered by ascending cosine distance.
// Ties keep corpus insertion order: the sort is stable and the backing
// slice is scanned in insertion order.
func (s *MemoryStore) Query(vector []float64, topK int) []Hit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]Hit, 0, len(s.docs))
	for _, sd := range s.docs {
		hits = append(hits, Hit{
			Document: sd.doc,
			Distance: cosineDistance(vector, sd.embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits
}

func cosineDistance(a, b []float64) float64 {
	return 1 - cosineSimilarity(a, b)
}

func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
