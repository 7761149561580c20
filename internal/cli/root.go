// Package cli provides the command-line interface for tradecouncil.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradecouncil/internal/config"
)

// Run starts the CLI application.
func Run() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "tradecouncil",
		Short: "tradecouncil - multi-agent trading decision pipeline",
		Long: `tradecouncil runs a staged trading decision pipeline for a stock symbol:
parallel analysts, a bull/bear research debate, a trade proposal, and a risk
triage discussion that ends in a BUY, SELL, or HOLD decision.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: prompt for a symbol and analyze it.
			return runAnalyze(cmd.Context(), cfg, "", "")
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newKBCmd(cfg))
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("tradecouncil v1.0.0")
			fmt.Println("Multi-agent trading decision pipeline")
		},
	}
}

func newConfigCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Current tradecouncil configuration:")
			fmt.Printf("Results Directory:  %s\n", cfg.ResultsDir)
			fmt.Printf("Data Directory:     %s\n", cfg.DataDir)
			fmt.Printf("RAG Output Dir:     %s\n", cfg.RAGOutDir)
			fmt.Printf("Run DB Path:        %s\n", cfg.RunDBPath)
			fmt.Println()
			fmt.Printf("LLM Provider:       %s\n", cfg.LLMProvider)
			fmt.Printf("LLM Model:          %s\n", cfg.LLMModel)
			fmt.Printf("Backend URL:        %s\n", cfg.BackendURL)
			fmt.Printf("Embedding Model:    %s\n", cfg.EmbedModel)
			fmt.Println()
			fmt.Printf("Max Debate Rounds:  %d\n", cfg.MaxDebateRounds)
			fmt.Printf("Max Risk Rounds:    %d\n", cfg.MaxRiskRounds)
			fmt.Printf("RAG Top-K:          %d\n", cfg.RAGTopK)
			fmt.Println()
			if cfg.FinnhubAPIKey != "" {
				fmt.Println("Finnhub API:        configured")
			} else {
				fmt.Println("Finnhub API:        not configured (Google News fallback)")
			}
			fmt.Printf("Online Tools:       %t\n", cfg.OnlineTools)
			fmt.Printf("Debug Mode:         %t\n", cfg.Debug)
		},
	}
}
