package rag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/rs/zerolog"

	"tradecouncil/internal/models"
)

// Retriever ranks the knowledge base against a query and returns formatted
// context for prompt injection. The store is read-only from the retriever's
// perspective and may be shared across runs.
type Retriever struct {
	embedder  embedding.Embedder
	store     *MemoryStore
	outputDir string
	log       zerolog.Logger
}

func NewRetriever(embedder embedding.Embedder, store *MemoryStore, outputDir string, logger zerolog.Logger) *Retriever {
	return &Retriever{
		embedder:  embedder,
		store:     store,
		outputDir: outputDir,
		log:       logger.With().Str("component", "rag").Logger(),
	}
}

// Retrieve embeds the query, ranks the corpus by similarity and returns the
// topK best documents. An embedding failure returns ErrEmbeddingUnavailable;
// the caller is expected to proceed without context rather than abort.
// Every call persists one audit file; audit failures are logged only.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) (*models.RetrievalResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("top-k must be > 0, got %d", topK)
	}

	vectors, err := r.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("%w: provider returned %d vectors", models.ErrEmbeddingUnavailable, len(vectors))
	}

	hits := r.store.Query(vectors[0], topK)

	docs := make([]models.RetrievedDocument, 0, len(hits))
	for i, hit := range hits {
		docs = append(docs, models.RetrievedDocument{
			Content:         hit.Document.Content,
			Metadata:        hit.Document.Metadata,
			SimilarityScore: 1 - hit.Distance,
			Rank:            i + 1,
		})
	}

	result := &models.RetrievalResult{
		Query:      query,
		Documents:  docs,
		Context:    formatContext(docs),
		NumResults: len(docs),
	}

	auditPath, err := r.writeAudit(result)
	if err != nil {
		r.log.Warn().Err(err).Msg("failed to persist retrieval audit file")
	} else {
		result.AuditPath = auditPath
	}

	r.log.Debug().Str("query", query).Int("results", result.NumResults).Msg("knowledge base retrieval complete")
	return result, nil
}

func formatContext(docs []models.RetrievedDocument) string {
	if len(docs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("=== RELEVANT CONTEXT FROM KNOWLEDGE BASE ===\n")
	for _, doc := range docs {
		b.WriteString(fmt.Sprintf("\n[Document %d] (Similarity: %.3f)\n", doc.Rank, doc.SimilarityScore))
		b.WriteString(fmt.Sprintf("Type: %s | Source: %s | Date: %s\n",
			metaOrUnknown(doc.Metadata, "doc_type"),
			metaOrUnknown(doc.Metadata, "source"),
			metaOrUnknown(doc.Metadata, "date")))
		b.WriteString(strings.Repeat("-", 60) + "\n")
		b.WriteString(doc.Content + "\n")
	}
	b.WriteString("\n=== END OF CONTEXT ===\n")
	return b.String()
}

func metaOrUnknown(meta map[string]string, key string) string {
	if v, ok := meta[key]; ok && v != "" {
		return v
	}
	return "unknown"
}

func (r *Retriever) writeAudit(result *models.RetrievalResult) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405.000000000")
	path := filepath.Join(r.outputDir, fmt.Sprintf("rag_context_%s.txt", timestamp))

	var b strings.Builder
	rule := strings.Repeat("=", 80)
	b.WriteString(rule + "\n")
	b.WriteString("RAG CONTEXT FOR FUNDAMENTALS ANALYSIS\n")
	b.WriteString(rule + "\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n", time.Now().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Query: %s\n", result.Query))
	b.WriteString(fmt.Sprintf("Number of Results: %d\n", result.NumResults))
	b.WriteString("\n" + rule + "\n\n")

	if result.Context != "" {
		b.WriteString(result.Context)
	} else {
		b.WriteString("No context retrieved.\n")
	}

	if len(result.Documents) > 0 {
		b.WriteString("\n" + rule + "\n")
		b.WriteString("DETAILED DOCUMENT INFORMATION\n")
		b.WriteString(rule + "\n\n")
		for _, doc := range result.Documents {
			b.WriteString(fmt.Sprintf("\nDocument %d:\n", doc.Rank))
			b.WriteString(fmt.Sprintf("  Similarity Score: %.4f\n", doc.SimilarityScore))
			b.WriteString(fmt.Sprintf("  Metadata: %v\n", doc.Metadata))
			b.WriteString(fmt.Sprintf("  Content Length: %d characters\n", len(doc.Content)))
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", err
	}
	return path, nil
}
