package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tradecouncil/internal/agents"
	"tradecouncil/internal/config"
	"tradecouncil/internal/display"
	"tradecouncil/internal/rag"
)

func newKBCmd(cfg *config.Config) *cobra.Command {
	kbCmd := &cobra.Command{
		Use:   "kb",
		Short: "Knowledge base operations",
		Long:  "Inspect and query the fundamentals knowledge base used by the pipeline.",
	}

	kbCmd.AddCommand(newKBSeedCmd(cfg))
	kbCmd.AddCommand(newKBSearchCmd(cfg))

	return kbCmd
}

func newKBSeedCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Embed the built-in corpus and report document counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger(cfg)

			embedder, err := agents.NewEmbedder(ctx, cfg)
			if err != nil {
				return fmt.Errorf("create embedder: %w", err)
			}

			docs := rag.SeedCorpus()
			store := rag.NewMemoryStore()
			if err := rag.Populate(ctx, store, embedder, docs); err != nil {
				return fmt.Errorf("populate knowledge base: %w", err)
			}

			logger.Info().Int("documents", store.Count()).Msg("knowledge base populated")
			display.Info(fmt.Sprintf("Embedded %d document(s):", store.Count()))
			for _, doc := range docs {
				fmt.Printf("  %-26s %s\n", doc.ID, doc.Metadata["title"])
			}
			return nil
		},
	}
}

func newKBSearchCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Query the knowledge base and print ranked matches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger(cfg)
			query := strings.Join(args, " ")
			if topK, _ := cmd.Flags().GetInt("top-k"); cmd.Flags().Changed("top-k") {
				cfg.RAGTopK = topK
			}

			embedder, err := agents.NewEmbedder(ctx, cfg)
			if err != nil {
				return fmt.Errorf("create embedder: %w", err)
			}

			store := rag.NewMemoryStore()
			if err := rag.Populate(ctx, store, embedder, rag.SeedCorpus()); err != nil {
				return fmt.Errorf("populate knowledge base: %w", err)
			}

			retriever := rag.NewRetriever(embedder, store, cfg.RAGOutDir, logger)
			result, err := retriever.Retrieve(ctx, query, cfg.RAGTopK)
			if err != nil {
				return err
			}

			display.Info(fmt.Sprintf("Top %d match(es) for %q:", result.NumResults, query))
			for _, doc := range result.Documents {
				fmt.Printf("  %d. [%.3f] %s (%s)\n",
					doc.Rank, doc.SimilarityScore, doc.Metadata["title"], doc.Metadata["source"])
			}
			if result.AuditPath != "" {
				fmt.Printf("\nAudit file: %s\n", result.AuditPath)
			}
			return nil
		},
	}

	cmd.Flags().Int("top-k", 0, "Number of documents to retrieve")
	return cmd
}
